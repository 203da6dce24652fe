package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/metrics"
	"github.com/pixil98/go-loadout/internal/pricing"
	"github.com/pixil98/go-loadout/internal/storage"
)

// Buy purchases the item loaded under key. Owned components are consumed
// and discounted. Every check and the charge happen before any slot is
// touched, so a rejected purchase changes nothing and notifies no one.
func (inv *Inventory) Buy(ctx context.Context, key storage.Identifier) error {
	err := inv.buy(ctx, key)
	inv.finish(ctx, metrics.KindBuy, err, "item", key)
	return err
}

func (inv *Inventory) buy(ctx context.Context, key storage.Identifier) error {
	item, err := inv.catalog.Get(key)
	if err != nil {
		return err
	}
	if err := inv.checkPurchase(item, true); err != nil {
		return err
	}

	quote := inv.pricing.Quote(item, inv.slots.Owned())
	consumed, slot, err := inv.planPurchase(quote)
	if err != nil {
		return fmt.Errorf("%w: %s", err, key)
	}

	if err := inv.system.AddCurrency(-quote.Cost); err != nil {
		return fmt.Errorf("%w: charging %.2f: %w", ErrEffectSubsystemUnavailable, quote.Cost, err)
	}

	// The plan only names occupied slots to clear and a slot that is empty
	// once they are cleared, so the steps below cannot fail.
	for _, i := range consumed {
		if _, err := inv.unequip(ctx, i); err != nil {
			return fmt.Errorf("consuming slot %d: %w", i, err)
		}
	}
	if len(consumed) > 0 {
		inv.ledger.Regenerate(inv.slots)
	}
	if _, err := inv.equip(ctx, item, slot); err != nil {
		return err
	}

	metrics.CurrencySpent.Add(quote.Cost)
	slog.InfoContext(ctx, "item purchased", "owner", inv.owner, "item", key, "slot", slot, "cost", quote.Cost, "consumed", len(consumed))
	return nil
}

// planPurchase returns the slots holding the components quote consumes, in
// consumption order, and the lowest slot that is empty once they are
// cleared. Each component takes the lowest matching slot not already taken.
func (inv *Inventory) planPurchase(quote pricing.Quote) ([]int, int, error) {
	taken := make([]bool, inv.slots.Len())
	consumed := make([]int, 0, len(quote.Consumed))
	for _, c := range quote.Consumed {
		i := -1
		for n, a := range inv.slots.slots {
			if a != nil && a.Item == c && !taken[n] {
				i = n
				break
			}
		}
		if i < 0 {
			return nil, -1, fmt.Errorf("component %s priced as owned but not found", c.Key())
		}
		taken[i] = true
		consumed = append(consumed, i)
	}

	for i, a := range inv.slots.slots {
		if a == nil || taken[i] {
			return consumed, i, nil
		}
	}
	return nil, -1, ErrNoRoom
}

// Sell removes the occupant of slot and credits its floored sell price. The
// credit is made first so a failed credit leaves the slot untouched.
func (inv *Inventory) Sell(ctx context.Context, slot int) error {
	err := inv.sell(ctx, slot)
	inv.finish(ctx, metrics.KindSell, err, "slot", slot)
	return err
}

func (inv *Inventory) sell(ctx context.Context, slot int) error {
	a, err := inv.slots.At(slot)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	if inv.system == nil {
		return ErrEffectSubsystemUnavailable
	}

	payout := pricing.Payout(inv.pricing.SellPrice(a.Item))
	if err := inv.system.AddCurrency(float64(payout)); err != nil {
		return fmt.Errorf("%w: crediting %d: %w", ErrEffectSubsystemUnavailable, payout, err)
	}

	if _, err := inv.unequip(ctx, slot); err != nil {
		if rerr := inv.system.AddCurrency(-float64(payout)); rerr != nil {
			slog.ErrorContext(ctx, "refunding sale", "owner", inv.owner, "slot", slot, "payout", payout, "error", rerr)
		}
		return err
	}
	inv.ledger.Regenerate(inv.slots)

	metrics.CurrencyEarned.Add(float64(payout))
	slog.InfoContext(ctx, "item sold", "owner", inv.owner, "item", a.Item.Key(), "slot", slot, "payout", payout)
	return nil
}

// Use activates the ability granted by the occupant of slot. Inventory
// state does not change.
func (inv *Inventory) Use(ctx context.Context, slot int) error {
	err := inv.use(slot)
	metrics.RecordTransaction(metrics.KindUse, err)
	if err != nil {
		slog.InfoContext(ctx, "use rejected", "owner", inv.owner, "slot", slot, "error", err)
	}
	return err
}

func (inv *Inventory) use(slot int) error {
	a, err := inv.slots.At(slot)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	if a.ability == "" {
		return fmt.Errorf("%w: %s grants no usable ability", ErrAbilityHandleInvalid, a.Item.Key())
	}
	if err := inv.abilities.TryActivate(a.ability); err != nil {
		return fmt.Errorf("%w: %w", ErrAbilityHandleInvalid, err)
	}
	return nil
}

// Equip places item in the first empty slot without charging for it.
func (inv *Inventory) Equip(ctx context.Context, item *catalog.Item) (int, error) {
	slot, ok := inv.slots.FindEmptySlot()
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNoRoom, item.Key())
		inv.finish(ctx, metrics.KindEquip, err, "item", item.Key())
		return -1, err
	}
	return slot, inv.EquipAt(ctx, item, slot)
}

// EquipAt places item in slot without charging for it. The slot must be
// empty.
func (inv *Inventory) EquipAt(ctx context.Context, item *catalog.Item, slot int) error {
	var err error
	if inv.system == nil {
		err = ErrEffectSubsystemUnavailable
	} else {
		_, err = inv.equip(ctx, item, slot)
	}
	inv.finish(ctx, metrics.KindEquip, err, "item", item.Key())
	return err
}

// Remove clears the first slot holding item without paying for it.
func (inv *Inventory) Remove(ctx context.Context, item *catalog.Item) error {
	slot, ok := inv.slots.FindByItem(item)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotOwned, item.Key())
		inv.finish(ctx, metrics.KindRemove, err, "item", item.Key())
		return err
	}
	return inv.RemoveAt(ctx, slot)
}

// RemoveAt clears slot without paying for it.
func (inv *Inventory) RemoveAt(ctx context.Context, slot int) error {
	var err error
	if inv.system == nil {
		err = ErrEffectSubsystemUnavailable
	} else if _, err = inv.unequip(ctx, slot); err == nil {
		inv.ledger.Regenerate(inv.slots)
	}
	inv.finish(ctx, metrics.KindRemove, err, "slot", slot)
	return err
}

// finish records the outcome of a mutating transaction and resyncs
// observers when it was accepted.
func (inv *Inventory) finish(ctx context.Context, kind string, err error, attrs ...any) {
	metrics.RecordTransaction(kind, err)
	if err == nil {
		inv.Sync()
		return
	}

	level := slog.LevelInfo
	if errors.Is(err, ErrEffectSubsystemUnavailable) {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "transaction rejected", append([]any{"owner", inv.owner, "kind", kind, "error", err}, attrs...)...)
}
