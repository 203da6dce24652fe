package inventory

import (
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
)

// ActiveItem is one equipped occurrence of an item. Two copies of the same
// item in different slots are distinct ActiveItems.
type ActiveItem struct {
	InstanceId string
	Item       *catalog.Item

	// handles are revocable effect subsystem handles this instance owns.
	handles []effects.Handle
	// additive maps modifier index to the additive magnitude applied for it.
	additive map[int]float64
	ability  effects.Handle
}

func newActiveItem(item *catalog.Item) *ActiveItem {
	return &ActiveItem{
		InstanceId: uuid.New().String(),
		Item:       item,
		additive:   map[int]float64{},
	}
}

// Handles returns the revocable handles currently owned by the instance.
func (a *ActiveItem) Handles() []effects.Handle {
	return slices.Clone(a.handles)
}

// Ability returns the granted ability handle, or "" if none was granted.
func (a *ActiveItem) Ability() effects.Handle {
	return a.ability
}

func (a *ActiveItem) String() string {
	return string(a.Item.Key()) + "#" + a.InstanceId
}
