package inventory

import (
	"errors"
	"testing"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/storage"
	"github.com/pixil98/go-testutil"
)

func TestSlots_HasRoom(t *testing.T) {
	items := map[storage.Identifier]*catalog.Item{
		"leaf":   {Name: "Leaf"},
		"other":  {Name: "Other"},
		"mid":    {Name: "Mid", RequiredItems: []storage.Identifier{"leaf"}},
		"top":    {Name: "Top", RequiredItems: []storage.Identifier{"mid", "other"}},
		"single": {Name: "Single", RequiredItems: []storage.Identifier{"leaf"}},
	}
	cat, err := catalog.New(storage.NewMemoryStore(items), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		slots []storage.Identifier
		item  storage.Identifier
		exp   bool
	}{
		"empty slot available": {
			slots: []storage.Identifier{"other", ""},
			item:  "leaf",
			exp:   true,
		},
		"full with nothing related": {
			slots: []storage.Identifier{"other", "other"},
			item:  "single",
			exp:   false,
		},
		"full with sole component owned": {
			slots: []storage.Identifier{"other", "leaf"},
			item:  "single",
			exp:   true,
		},
		"full with grandchild owned": {
			slots: []storage.Identifier{"leaf", "leaf"},
			item:  "top",
			exp:   true,
		},
		"full leaf item": {
			slots: []storage.Identifier{"leaf", "leaf"},
			item:  "other",
			exp:   false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSlots(len(tt.slots))
			for i, k := range tt.slots {
				if k == "" {
					continue
				}
				it, _ := cat.Get(k)
				if err := s.PlaceAt(newActiveItem(it), i); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			it, _ := cat.Get(tt.item)
			testutil.AssertEqual(t, "has room", s.HasRoom(it, cat), tt.exp)
		})
	}
}

func TestSlots_Queries(t *testing.T) {
	boots := &catalog.Item{Name: "Boots"}
	ring := &catalog.Item{Name: "Ring"}
	wand := &catalog.Item{Name: "Wand"}

	s := NewSlots(4)
	_ = s.PlaceAt(newActiveItem(ring), 1)
	_ = s.PlaceAt(newActiveItem(boots), 2)
	_ = s.PlaceAt(newActiveItem(ring), 3)

	empty, ok := s.FindEmptySlot()
	testutil.AssertEqual(t, "empty found", ok, true)
	testutil.AssertEqual(t, "empty slot", empty, 0)

	idx, ok := s.FindByItem(ring)
	testutil.AssertEqual(t, "ring found", ok, true)
	testutil.AssertEqual(t, "ring slot", idx, 1)

	_, ok = s.FindByItem(wand)
	testutil.AssertEqual(t, "wand found", ok, false)

	testutil.AssertEqual(t, "ring count", s.Count(ring), 2)
	testutil.AssertEqual(t, "contains boots", s.Contains(boots), true)
	testutil.AssertEqual(t, "contains wand", s.Contains(wand), false)
	testutil.AssertEqual(t, "owned", len(s.Owned()), 3)

	_ = s.PlaceAt(newActiveItem(wand), 0)
	_, ok = s.FindEmptySlot()
	testutil.AssertEqual(t, "empty after fill", ok, false)
}

func TestSlots_Mutation(t *testing.T) {
	item := &catalog.Item{Name: "Ring"}

	tests := map[string]struct {
		run    func(s *Slots) error
		expErr error
	}{
		"place in empty slot": {
			run: func(s *Slots) error { return s.PlaceAt(newActiveItem(item), 1) },
		},
		"place in occupied slot": {
			run:    func(s *Slots) error { return s.PlaceAt(newActiveItem(item), 0) },
			expErr: ErrSlotOccupied,
		},
		"place out of range": {
			run:    func(s *Slots) error { return s.PlaceAt(newActiveItem(item), 2) },
			expErr: ErrInvalidSlotIndex,
		},
		"clear occupied slot": {
			run: func(s *Slots) error { _, err := s.ClearAt(0); return err },
		},
		"clear empty slot": {
			run:    func(s *Slots) error { _, err := s.ClearAt(1); return err },
			expErr: ErrSlotEmpty,
		},
		"clear negative slot": {
			run:    func(s *Slots) error { _, err := s.ClearAt(-1); return err },
			expErr: ErrInvalidSlotIndex,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSlots(2)
			_ = s.PlaceAt(newActiveItem(item), 0)

			err := tt.run(s)
			if !errors.Is(err, tt.expErr) {
				t.Errorf("expected %v, got %v", tt.expErr, err)
			}
			testutil.AssertEqual(t, "slot count", s.Len(), 2)
		})
	}
}

func TestActiveItem_DistinctInstances(t *testing.T) {
	item := &catalog.Item{Name: "Ring"}
	a, b := newActiveItem(item), newActiveItem(item)

	if a.InstanceId == b.InstanceId {
		t.Errorf("expected distinct instance ids, both were %s", a.InstanceId)
	}
	testutil.AssertEqual(t, "same item", a.Item == b.Item, true)
}
