package inventory

import "github.com/pixil98/go-loadout/internal/storage"

// SlotState is the synchronized view of one slot. Item and InstanceId are
// empty when the slot is empty.
type SlotState struct {
	Index      int                `json:"index"`
	Item       storage.Identifier `json:"item,omitempty"`
	InstanceId string             `json:"instance_id,omitempty"`
}

func (s SlotState) IsEmpty() bool {
	return s.Item == ""
}

// Snapshot is the full synchronized state of one inventory.
type Snapshot struct {
	Owner    string      `json:"owner"`
	Slots    []SlotState `json:"slots"`
	Currency float64     `json:"currency"`
}

// Observer receives state synchronization from an authoritative inventory.
type Observer interface {
	// SlotChanged is called after every structural slot mutation.
	SlotChanged(owner string, slot SlotState)
	// Synced is called with the full state after each accepted transaction
	// and whenever a resync is requested.
	Synced(Snapshot)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnSlotChanged func(owner string, slot SlotState)
	OnSynced      func(Snapshot)
}

func (o ObserverFuncs) SlotChanged(owner string, slot SlotState) {
	if o.OnSlotChanged != nil {
		o.OnSlotChanged(owner, slot)
	}
}

func (o ObserverFuncs) Synced(s Snapshot) {
	if o.OnSynced != nil {
		o.OnSynced(s)
	}
}
