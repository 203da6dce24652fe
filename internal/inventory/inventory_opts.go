package inventory

import "github.com/pixil98/go-loadout/internal/effects"

type InventoryOpt func(*Inventory)

// WithSlotCount sets the fixed number of slots.
func WithSlotCount(n int) InventoryOpt {
	return func(inv *Inventory) {
		inv.slotCount = n
	}
}

// WithEffects attaches the effect subsystem. If system also implements
// effects.Tagged it is used for the purchase gate unless WithGate says
// otherwise.
func WithEffects(system effects.System) InventoryOpt {
	return func(inv *Inventory) {
		inv.system = system
	}
}

// WithAbilities attaches the ability subsystem.
func WithAbilities(abilities effects.Abilities) InventoryOpt {
	return func(inv *Inventory) {
		inv.abilities = abilities
	}
}

// WithGate sets where gate tags are read from and which tags open the shop.
func WithGate(source effects.Tagged, tags ...string) InventoryOpt {
	return func(inv *Inventory) {
		inv.gate = source
		inv.gateTags = tags
	}
}

// WithGateTags replaces the tags that open the shop.
func WithGateTags(tags ...string) InventoryOpt {
	return func(inv *Inventory) {
		inv.gateTags = tags
	}
}

// WithObserver registers an observer for state synchronization.
func WithObserver(o Observer) InventoryOpt {
	return func(inv *Inventory) {
		inv.observers = append(inv.observers, o)
	}
}
