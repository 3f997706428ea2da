package entities

// SyncState is a step of the synchronization state machine.
type SyncState string

const (
	StateIdle             SyncState = "idle"
	StateValidating       SyncState = "validating"
	StateStagingAcquired  SyncState = "staging-acquired"
	StateRepositoryCloned SyncState = "repository-cloned"
	StateTransferring     SyncState = "transferring"
	StateCommitting       SyncState = "committing"
	StateReleased         SyncState = "released"
)

// Outcome tells how a released run ended.
type Outcome string

const (
	OutcomePending Outcome = ""
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// SyncResult records what a single run did.
type SyncResult struct {
	RunID        string
	Direction    Direction
	State        SyncState
	Outcome      Outcome
	Transitions  []SyncState
	ConfigFile   string
	Changed      bool
	CommitHash   string
	LinesApplied int
}

// NewSyncResult starts a result in the idle state.
func NewSyncResult(runID string, direction Direction) *SyncResult {
	return &SyncResult{
		RunID:       runID,
		Direction:   direction,
		State:       StateIdle,
		Transitions: []SyncState{StateIdle},
	}
}

// Transition moves the run to next and returns the previous state.
func (it *SyncResult) Transition(next SyncState) SyncState {
	previous := it.State
	it.State = next
	it.Transitions = append(it.Transitions, next)
	return previous
}

// Release moves the run to the terminal state with the given outcome.
func (it *SyncResult) Release(err error) {
	it.Transition(StateReleased)
	if err != nil {
		it.Outcome = OutcomeFailure
		return
	}
	it.Outcome = OutcomeSuccess
}
