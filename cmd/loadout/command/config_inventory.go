package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/host"
	"github.com/pixil98/go-loadout/internal/pricing"
)

type InventoryConfig struct {
	Slots            int      `json:"slots"`
	StartingCurrency *float64 `json:"starting_currency"`
	SellModifier     *float64 `json:"sell_modifier"`
	// GateTags replaces the default gate tags. An empty list leaves
	// purchases ungated.
	GateTags []string `json:"gate_tags"`
}

func (c *InventoryConfig) validate() error {
	el := errors.NewErrorList()

	if c.Slots < 0 {
		el.Add(fmt.Errorf("inventory: slots must not be negative"))
	}
	if c.StartingCurrency != nil && *c.StartingCurrency < 0 {
		el.Add(fmt.Errorf("inventory: starting_currency must not be negative"))
	}
	if c.SellModifier != nil && (*c.SellModifier <= 0 || *c.SellModifier > 1) {
		el.Add(fmt.Errorf("inventory: sell_modifier must be in (0,1]"))
	}
	for i, t := range c.GateTags {
		if t == "" {
			el.Add(fmt.Errorf("inventory: gate tag %d is empty", i))
		}
	}

	return el.Err()
}

func (c *InventoryConfig) buildResolver(cat *catalog.Catalog) *pricing.Resolver {
	var opts []pricing.ResolverOpt
	if c.SellModifier != nil {
		opts = append(opts, pricing.WithSellModifier(*c.SellModifier))
	}
	return pricing.NewResolver(cat, opts...)
}

func (c *InventoryConfig) hostOpts() []host.HostOpt {
	var opts []host.HostOpt
	if c.Slots != 0 {
		opts = append(opts, host.WithSlotCount(c.Slots))
	}
	if c.StartingCurrency != nil {
		opts = append(opts, host.WithStartingCurrency(*c.StartingCurrency))
	}
	if c.GateTags != nil {
		opts = append(opts, host.WithGateTags(c.GateTags...))
	}
	return opts
}
