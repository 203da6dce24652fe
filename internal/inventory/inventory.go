package inventory

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
	"github.com/pixil98/go-loadout/internal/pricing"
)

var DefaultGateTags = []string{"state.dead", "location.shop"}

var debugTemplate = template.Must(template.New("inventory").Funcs(sprig.TxtFuncMap()).Parse(
	"Inventory for {{ .Owner }}: \n{{ range .Names }}{{ . | default \"Empty\" }},{{ end }}",
))

// Inventory is the authoritative state of one participant's slots. It is
// not safe for concurrent use; the host serializes access per participant.
type Inventory struct {
	owner     string
	catalog   *catalog.Catalog
	pricing   *pricing.Resolver
	slots     *Slots
	ledger    *Ledger
	slotCount int

	system    effects.System
	abilities effects.Abilities
	gate      effects.Tagged
	gateTags  []string
	observers []Observer
}

func NewInventory(owner string, cat *catalog.Catalog, resolver *pricing.Resolver, opts ...InventoryOpt) *Inventory {
	inv := &Inventory{
		owner:     owner,
		catalog:   cat,
		pricing:   resolver,
		slotCount: DefaultSlotCount,
		gateTags:  DefaultGateTags,
	}

	for _, opt := range opts {
		opt(inv)
	}

	if inv.gate == nil {
		if t, ok := inv.system.(effects.Tagged); ok {
			inv.gate = t
		}
	}
	inv.slots = NewSlots(inv.slotCount)
	inv.ledger = NewLedger(owner, inv.system)

	return inv
}

func (inv *Inventory) Owner() string {
	return inv.owner
}

// Ledger exposes the provider table for read-only queries.
func (inv *Inventory) Ledger() *Ledger {
	return inv.ledger
}

// AddObserver registers o for state synchronization.
func (inv *Inventory) AddObserver(o Observer) {
	inv.observers = append(inv.observers, o)
}

// CanPurchase reports whether item could be bought right now. When
// useLocation is false the location and state gate is skipped.
func (inv *Inventory) CanPurchase(item *catalog.Item, useLocation bool) bool {
	return inv.checkPurchase(item, useLocation) == nil
}

func (inv *Inventory) checkPurchase(item *catalog.Item, useLocation bool) error {
	if inv.system == nil {
		return ErrEffectSubsystemUnavailable
	}
	if !inv.slots.HasRoom(item, inv.catalog) {
		return fmt.Errorf("%w: %s", ErrNoRoom, item.Key())
	}

	currency, err := inv.system.Currency()
	if err != nil {
		return fmt.Errorf("%w: reading currency: %w", ErrEffectSubsystemUnavailable, err)
	}
	if !inv.pricing.CanAfford(item, inv.slots.Owned(), currency) {
		return fmt.Errorf("%w: %s costs %.2f, have %.2f", ErrCannotAfford, item.Key(), inv.pricing.PurchaseCost(item, inv.slots.Owned()), currency)
	}

	if useLocation && !inv.gateOpen() {
		return ErrGateFailed
	}
	return nil
}

func (inv *Inventory) gateOpen() bool {
	if len(inv.gateTags) == 0 {
		return true
	}
	if inv.gate == nil {
		return false
	}
	return inv.gate.HasAnyTag(inv.gateTags...)
}

// equip places a new instance of item at slot i and applies its effects.
func (inv *Inventory) equip(ctx context.Context, item *catalog.Item, i int) (*ActiveItem, error) {
	a := newActiveItem(item)
	if err := inv.slots.PlaceAt(a, i); err != nil {
		return nil, err
	}

	inv.ledger.Apply(a)
	if item.Ability != "" && inv.abilities != nil {
		h, err := inv.abilities.Grant(item.Ability)
		if err != nil {
			slog.WarnContext(ctx, "granting ability", "owner", inv.owner, "item", item.Key(), "ability", item.Ability, "error", err)
		} else {
			a.ability = h
		}
	}

	inv.notifySlot(i)
	slog.DebugContext(ctx, "item equipped", "owner", inv.owner, "item", item.Key(), "slot", i, "instance", a.InstanceId)
	return a, nil
}

// unequip retracts the occupant of slot i and clears it. Callers run
// Regenerate once they are done removing.
func (inv *Inventory) unequip(ctx context.Context, i int) (*ActiveItem, error) {
	a, err := inv.slots.At(i)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %d", ErrSlotEmpty, i)
	}

	inv.ledger.Remove(a)
	if a.ability != "" {
		if err := inv.abilities.Clear(a.ability); err != nil {
			slog.WarnContext(ctx, "clearing ability", "owner", inv.owner, "item", a.Item.Key(), "error", err)
		}
		a.ability = ""
	}
	if _, err := inv.slots.ClearAt(i); err != nil {
		return nil, err
	}

	inv.notifySlot(i)
	slog.DebugContext(ctx, "item unequipped", "owner", inv.owner, "item", a.Item.Key(), "slot", i, "instance", a.InstanceId)
	return a, nil
}

func (inv *Inventory) slotState(i int) SlotState {
	s := SlotState{Index: i}
	if a := inv.slots.slots[i]; a != nil {
		s.Item = a.Item.Key()
		s.InstanceId = a.InstanceId
	}
	return s
}

func (inv *Inventory) notifySlot(i int) {
	s := inv.slotState(i)
	for _, o := range inv.observers {
		o.SlotChanged(inv.owner, s)
	}
}

// Snapshot returns every slot, empties included, and current currency.
func (inv *Inventory) Snapshot() Snapshot {
	snap := Snapshot{
		Owner: inv.owner,
		Slots: make([]SlotState, inv.slots.Len()),
	}
	for i := range snap.Slots {
		snap.Slots[i] = inv.slotState(i)
	}
	snap.Currency = inv.Currency()
	return snap
}

// Sync sends a full snapshot to every observer.
func (inv *Inventory) Sync() {
	snap := inv.Snapshot()
	for _, o := range inv.observers {
		o.Synced(snap)
	}
}

// Currency returns the participant's current currency, or 0 when it cannot
// be read.
func (inv *Inventory) Currency() float64 {
	if inv.system == nil {
		return 0
	}
	c, err := inv.system.Currency()
	if err != nil {
		return 0
	}
	return c
}

func (inv *Inventory) SlotCount() int {
	return inv.slots.Len()
}

// SlotAt returns the occupant of slot i, nil if empty.
func (inv *Inventory) SlotAt(i int) (*ActiveItem, error) {
	return inv.slots.At(i)
}

// Slots returns the state of every slot in index order.
func (inv *Inventory) Slots() []SlotState {
	return inv.Snapshot().Slots
}

// PriceAt is the sell price of the occupant of slot i, or 0 if the slot is
// empty or out of range.
func (inv *Inventory) PriceAt(i int) float64 {
	a, err := inv.slots.At(i)
	if err != nil || a == nil {
		return 0
	}
	return inv.pricing.SellPrice(a.Item)
}

// CanSellAt reports whether slot i holds something to sell.
func (inv *Inventory) CanSellAt(i int) bool {
	a, err := inv.slots.At(i)
	return err == nil && a != nil
}

func (inv *Inventory) ItemCount(item *catalog.Item) int {
	return inv.slots.Count(item)
}

func (inv *Inventory) HasItem(item *catalog.Item) bool {
	return inv.slots.Contains(item)
}

func (inv *Inventory) HasRoom(item *catalog.Item) bool {
	return inv.slots.HasRoom(item, inv.catalog)
}

func (inv *Inventory) FindByItem(item *catalog.Item) (int, bool) {
	return inv.slots.FindByItem(item)
}

// PurchaseCost is what item costs this participant right now.
func (inv *Inventory) PurchaseCost(item *catalog.Item) float64 {
	return inv.pricing.PurchaseCost(item, inv.slots.Owned())
}

// DebugString lists every slot by item name.
func (inv *Inventory) DebugString() string {
	names := make([]string, inv.slots.Len())
	inv.slots.ForEach(func(i int, a *ActiveItem) {
		names[i] = a.Item.Name
	})

	var buf bytes.Buffer
	err := debugTemplate.Execute(&buf, map[string]any{
		"Owner": inv.owner,
		"Names": names,
	})
	if err != nil {
		return fmt.Sprintf("Inventory for %s: %v", inv.owner, err)
	}
	return buf.String()
}
