package inventory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
	"github.com/pixil98/go-loadout/internal/pricing"
	"github.com/pixil98/go-loadout/internal/storage"
)

var errFake = errors.New("fake failure")

// fakeSystem records calls made to an AttributeSet and can fail them.
type fakeSystem struct {
	*effects.AttributeSet
	calls []string

	failAdditive bool
	failBatch    bool
	failEffect   bool
	failCharge   bool
	failCredit   bool
}

func newFakeSystem(currency float64, tags ...string) *fakeSystem {
	return &fakeSystem{
		AttributeSet: effects.NewAttributeSet(
			effects.WithBase(map[string]float64{"gold": currency, "speed": 300, "power": 10, "haste": 1}),
			effects.WithTags(tags...),
		),
	}
}

func (f *fakeSystem) ApplyAdditive(attr string, mag float64) (effects.Handle, error) {
	f.calls = append(f.calls, fmt.Sprintf("add %s %g", attr, mag))
	if f.failAdditive {
		return "", errFake
	}
	return f.AttributeSet.ApplyAdditive(attr, mag)
}

func (f *fakeSystem) ApplyMultiplicativeBatch(m map[string]float64) (effects.Handle, error) {
	f.calls = append(f.calls, fmt.Sprintf("batch %d", len(m)))
	if f.failBatch {
		return "", errFake
	}
	return f.AttributeSet.ApplyMultiplicativeBatch(m)
}

func (f *fakeSystem) ApplyEffect(ref string) (effects.Handle, error) {
	f.calls = append(f.calls, "effect "+ref)
	if f.failEffect {
		return "", errFake
	}
	return f.AttributeSet.ApplyEffect(ref)
}

func (f *fakeSystem) AddCurrency(delta float64) error {
	if (f.failCharge && delta < 0) || (f.failCredit && delta > 0) {
		return errFake
	}
	return f.AttributeSet.AddCurrency(delta)
}

func (f *fakeSystem) currency() float64 {
	c, _ := f.Currency()
	return c
}

// recordingObserver keeps every notification it receives.
type recordingObserver struct {
	changes   []SlotState
	snapshots []Snapshot
}

func (r *recordingObserver) SlotChanged(_ string, s SlotState) {
	r.changes = append(r.changes, s)
}

func (r *recordingObserver) Synced(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

func testItems() map[storage.Identifier]*catalog.Item {
	return map[storage.Identifier]*catalog.Item{
		"a":      {Name: "A", Price: catalog.FlatMagnitude(100)},
		"b":      {Name: "B", Price: catalog.FlatMagnitude(50), RequiredItems: []storage.Identifier{"a"}},
		"potion": {Name: "Potion", Price: catalog.FlatMagnitude(50)},
		"boots": {
			Name:  "Boots",
			Price: catalog.FlatMagnitude(300),
			AttributeModifiers: []catalog.UniqueModifier{
				{Unique: "unique.boots", Attribute: "speed", Magnitude: catalog.FlatMagnitude(25)},
			},
		},
		"swift": {
			Name:          "Swift Boots",
			Price:         catalog.FlatMagnitude(400),
			RequiredItems: []storage.Identifier{"boots"},
			AttributeModifiers: []catalog.UniqueModifier{
				{Unique: "unique.boots", Attribute: "speed", Magnitude: catalog.FlatMagnitude(45)},
			},
		},
		"ring": {
			Name:  "Ring",
			Price: catalog.FlatMagnitude(200),
			AttributeModifiers: []catalog.UniqueModifier{
				{Attribute: "power", Magnitude: catalog.FlatMagnitude(10)},
				{Attribute: "power", Op: catalog.ModifierOpMultiply, Magnitude: catalog.FlatMagnitude(1.5)},
			},
		},
		"orb": {
			Name:  "Orb",
			Price: catalog.FlatMagnitude(250),
			AttributeModifiers: []catalog.UniqueModifier{
				{Unique: "unique.haste", Attribute: "haste", Op: catalog.ModifierOpMultiply, Magnitude: catalog.FlatMagnitude(1.2)},
			},
			Effects: []catalog.UniqueEffect{
				{Unique: "unique.lifesteal", Effect: "effect.lifesteal"},
			},
		},
		"wand": {Name: "Wand", Price: catalog.FlatMagnitude(150), Ability: "ability.blink"},
	}
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(storage.NewMemoryStore(testItems()), nil)
	if err != nil {
		t.Fatalf("unexpected error building catalog: %v", err)
	}
	return cat
}

func mustItem(t *testing.T, cat *catalog.Catalog, key storage.Identifier) *catalog.Item {
	t.Helper()
	item, err := cat.Get(key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return item
}

// newTestInventory builds an inventory for "p1" whose effect system holds
// currency and the shop tag.
func newTestInventory(t *testing.T, currency float64, opts ...InventoryOpt) (*Inventory, *fakeSystem, *catalog.Catalog) {
	t.Helper()
	cat := newTestCatalog(t)
	sys := newFakeSystem(currency, "location.shop")
	opts = append([]InventoryOpt{WithEffects(sys)}, opts...)
	return NewInventory("p1", cat, pricing.NewResolver(cat), opts...), sys, cat
}

func slotItems(inv *Inventory) []storage.Identifier {
	out := make([]storage.Identifier, 0, inv.SlotCount())
	for _, s := range inv.Slots() {
		out = append(out, s.Item)
	}
	return out
}
