package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/nasiya-uz/nasiya-api/internal/models"
)

// Contract lifecycle events
const (
	EventComplete = "complete"
	EventCancel   = "cancel"
)

// ContractStateMachine guards contract status transitions. ONGOING is the
// only state with outgoing edges; COMPLETED and CANCELLED are terminal.
type ContractStateMachine struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractStateMachine creates a state machine seeded with the
// contract's current status.
func NewContractStateMachine(contract *models.Contract) *ContractStateMachine {
	sm := &ContractStateMachine{contract: contract}

	sm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			{Name: EventComplete, Src: []string{models.ContractStatusOngoing}, Dst: models.ContractStatusCompleted},
			{Name: EventCancel, Src: []string{models.ContractStatusOngoing}, Dst: models.ContractStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return sm
}

// Complete moves the contract to COMPLETED. Fails if the contract is not
// ONGOING.
func (sm *ContractStateMachine) Complete(ctx context.Context) error {
	if err := sm.fsm.Event(ctx, EventComplete); err != nil {
		return fmt.Errorf("cannot complete contract %d in status %s: %w", sm.contract.ID, sm.contract.Status, err)
	}
	sm.contract.Status = sm.fsm.Current()
	return nil
}

// Cancel moves the contract to CANCELLED. Fails if the contract is not
// ONGOING.
func (sm *ContractStateMachine) Cancel(ctx context.Context) error {
	if err := sm.fsm.Event(ctx, EventCancel); err != nil {
		return fmt.Errorf("cannot cancel contract %d in status %s: %w", sm.contract.ID, sm.contract.Status, err)
	}
	sm.contract.Status = sm.fsm.Current()
	return nil
}

// Current returns the machine's current state.
func (sm *ContractStateMachine) Current() string {
	return sm.fsm.Current()
}

// Can reports whether the given event may fire from the current state.
func (sm *ContractStateMachine) Can(event string) bool {
	return sm.fsm.Can(event)
}
