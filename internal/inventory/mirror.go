package inventory

import (
	"log/slog"
	"sync"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/pricing"
)

// Mirror is a read-only, eventually consistent copy of one participant's
// inventory, kept up to date from state synchronization. It never issues
// effect requests. Its purchase checks are advisory.
type Mirror struct {
	mu       sync.RWMutex
	owner    string
	catalog  *catalog.Catalog
	pricing  *pricing.Resolver
	slots    *Slots
	currency float64
}

func NewMirror(owner string, cat *catalog.Catalog, resolver *pricing.Resolver, slotCount int) *Mirror {
	return &Mirror{
		owner:   owner,
		catalog: cat,
		pricing: resolver,
		slots:   NewSlots(slotCount),
	}
}

func (m *Mirror) Owner() string {
	return m.owner
}

// SlotChanged satisfies Observer.
func (m *Mirror) SlotChanged(owner string, s SlotState) {
	if owner != m.owner {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.setSlot(s)
}

// Synced satisfies Observer.
func (m *Mirror) Synced(snap Snapshot) {
	if snap.Owner != m.owner {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(snap.Slots) != m.slots.Len() {
		m.slots = NewSlots(len(snap.Slots))
	}
	for _, s := range snap.Slots {
		m.setSlot(s)
	}
	m.currency = snap.Currency
}

func (m *Mirror) setSlot(s SlotState) {
	if s.Index < 0 || s.Index >= m.slots.Len() {
		slog.Warn("mirror slot out of range", "owner", m.owner, "slot", s.Index, "slots", m.slots.Len())
		return
	}

	if s.IsEmpty() {
		m.slots.slots[s.Index] = nil
		return
	}

	cur := m.slots.slots[s.Index]
	if cur != nil && cur.InstanceId == s.InstanceId {
		return
	}

	item, err := m.catalog.Get(s.Item)
	if err != nil {
		slog.Warn("mirror received unknown item", "owner", m.owner, "slot", s.Index, "error", err)
		m.slots.slots[s.Index] = nil
		return
	}
	m.slots.slots[s.Index] = &ActiveItem{InstanceId: s.InstanceId, Item: item}
}

func (m *Mirror) Currency() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currency
}

// Slots returns the mirrored state of every slot.
func (m *Mirror) Slots() []SlotState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]SlotState, m.slots.Len())
	for i, a := range m.slots.slots {
		out[i] = SlotState{Index: i}
		if a != nil {
			out[i].Item = a.Item.Key()
			out[i].InstanceId = a.InstanceId
		}
	}
	return out
}

// ItemAt returns the item mirrored in slot i, nil if empty.
func (m *Mirror) ItemAt(i int) (*catalog.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, err := m.slots.At(i)
	if err != nil || a == nil {
		return nil, err
	}
	return a.Item, nil
}

func (m *Mirror) HasItem(item *catalog.Item) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.slots.Contains(item)
}

func (m *Mirror) ItemCount(item *catalog.Item) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.slots.Count(item)
}

// PurchaseCost is what item would cost given the mirrored inventory.
func (m *Mirror) PurchaseCost(item *catalog.Item) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.pricing.PurchaseCost(item, m.slots.Owned())
}

// CheckPurchase is the optimistic room and affordability check. It cannot
// see the location and state gate.
func (m *Mirror) CheckPurchase(item *catalog.Item) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.slots.HasRoom(item, m.catalog) {
		return ErrNoRoom
	}
	if !m.pricing.CanAfford(item, m.slots.Owned(), m.currency) {
		return ErrCannotAfford
	}
	return nil
}

// CanSellAt reports whether slot i appears to hold something.
func (m *Mirror) CanSellAt(i int) bool {
	item, err := m.ItemAt(i)
	return err == nil && item != nil
}
