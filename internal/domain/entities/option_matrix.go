package entities

import "strings"

// Field names a piece of user input. The values match the CLI long flags so
// error messages point straight at the flag to add.
type Field string

const (
	FieldName          Field = "name"
	FieldAccount       Field = "account"
	FieldRepository    Field = "repository"
	FieldCommitMessage Field = "message"
	FieldTransport     Field = "transport"
	FieldDeviceType    Field = "device-type"
	FieldHost          Field = "host"
	FieldUsername      Field = "username"
	FieldPassword      Field = "password"
	FieldTTY           Field = "tty"
)

// MandatoryFields returns the fields that must be supplied for the given
// direction and transport, in the order they are declared mandatory.
// Selecting a transport changes the mandatory set, not only which fields are used.
func MandatoryFields(direction Direction, variant TransportVariant) []Field {
	fields := []Field{FieldName, FieldAccount, FieldRepository}
	if direction == DirectionPull {
		fields = append(fields, FieldCommitMessage)
	}

	switch variant {
	case TransportSerialLink:
		fields = append(fields, FieldTTY)
	case TransportRemoteSession:
		fields = append(fields, FieldDeviceType, FieldHost, FieldUsername, FieldPassword)
	}
	return fields
}

// ValidateFields reports every mandatory field that is absent or blank in supplied.
func ValidateFields(direction Direction, variant TransportVariant, supplied map[Field]string) error {
	var missing []Field
	for _, field := range MandatoryFields(direction, variant) {
		if strings.TrimSpace(supplied[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
