package inventory

import (
	"fmt"

	"github.com/pixil98/go-loadout/internal/catalog"
)

const DefaultSlotCount = 6

// Graph exposes the required-items relation of a catalog.
type Graph interface {
	Required(*catalog.Item) []*catalog.Item
}

// Slots is a fixed-size ordered set of inventory slots. Empty slots hold nil.
type Slots struct {
	slots []*ActiveItem
}

func NewSlots(n int) *Slots {
	return &Slots{slots: make([]*ActiveItem, n)}
}

func (s *Slots) Len() int {
	return len(s.slots)
}

// At returns the occupant of slot i, which may be nil.
func (s *Slots) At(i int) (*ActiveItem, error) {
	if i < 0 || i >= len(s.slots) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlotIndex, i)
	}
	return s.slots[i], nil
}

// FindEmptySlot returns the lowest empty slot index.
func (s *Slots) FindEmptySlot() (int, bool) {
	for i, a := range s.slots {
		if a == nil {
			return i, true
		}
	}
	return -1, false
}

// FindByItem returns the lowest slot holding item.
func (s *Slots) FindByItem(item *catalog.Item) (int, bool) {
	for i, a := range s.slots {
		if a != nil && a.Item == item {
			return i, true
		}
	}
	return -1, false
}

func (s *Slots) Count(item *catalog.Item) int {
	n := 0
	for _, a := range s.slots {
		if a != nil && a.Item == item {
			n++
		}
	}
	return n
}

func (s *Slots) Contains(item *catalog.Item) bool {
	_, ok := s.FindByItem(item)
	return ok
}

// Owned returns the item of every occupied slot in slot order.
func (s *Slots) Owned() []*catalog.Item {
	owned := make([]*catalog.Item, 0, len(s.slots))
	for _, a := range s.slots {
		if a != nil {
			owned = append(owned, a.Item)
		}
	}
	return owned
}

// ForEach calls f for every occupied slot in slot order.
func (s *Slots) ForEach(f func(int, *ActiveItem)) {
	for i, a := range s.slots {
		if a != nil {
			f(i, a)
		}
	}
}

// HasRoom reports whether item could be placed. There is room when a slot
// is empty, or when some component of item, at any depth, is owned: buying
// item consumes that component and frees its slot.
func (s *Slots) HasRoom(item *catalog.Item, g Graph) bool {
	if _, ok := s.FindEmptySlot(); ok {
		return true
	}
	return s.ownsComponent(item, g, 0)
}

func (s *Slots) ownsComponent(item *catalog.Item, g Graph, depth int) bool {
	if depth >= catalog.MaxDepth {
		return false
	}
	for _, req := range g.Required(item) {
		if s.Contains(req) || s.ownsComponent(req, g, depth+1) {
			return true
		}
	}
	return false
}

// PlaceAt puts a into an empty slot.
func (s *Slots) PlaceAt(a *ActiveItem, i int) error {
	cur, err := s.At(i)
	if err != nil {
		return err
	}
	if cur != nil {
		return fmt.Errorf("%w: %d", ErrSlotOccupied, i)
	}
	s.slots[i] = a
	return nil
}

// ClearAt empties slot i and returns what it held.
func (s *Slots) ClearAt(i int) (*ActiveItem, error) {
	cur, err := s.At(i)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, fmt.Errorf("%w: %d", ErrSlotEmpty, i)
	}
	s.slots[i] = nil
	return cur, nil
}
