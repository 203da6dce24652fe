package pricing

import (
	"math"
	"slices"

	"github.com/pixil98/go-loadout/internal/catalog"
)

const DefaultSellModifier = 0.75

// Resolver prices items against a loaded catalog.
type Resolver struct {
	catalog      *catalog.Catalog
	sellModifier float64
}

func NewResolver(cat *catalog.Catalog, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		catalog:      cat,
		sellModifier: DefaultSellModifier,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SellModifier is the fraction of total cost paid back on sale.
func (r *Resolver) SellModifier() float64 {
	return r.sellModifier
}

// TotalCost is the item's own price plus the total cost of its components.
// It does not depend on what anyone owns.
func (r *Resolver) TotalCost(item *catalog.Item) float64 {
	return r.catalog.TotalCost(item)
}

// Quote is the price of one purchase and the owned components it uses up.
type Quote struct {
	Cost     float64
	Consumed []*catalog.Item
}

// Quote walks item's required items depth-first against a working copy of
// owned. An owned component is taken from the copy and neither charged nor
// descended into; anything else is charged and its own components walked.
// The item's own price is always charged.
func (r *Resolver) Quote(item *catalog.Item, owned []*catalog.Item) Quote {
	q := Quote{Cost: item.Cost()}
	working := slices.Clone(owned)
	q.Cost += r.walk(item, &working, &q.Consumed, 0)
	return q
}

// PurchaseCost is what buying item costs a participant who currently owns
// owned. Each owned component is discounted at most once per unit held.
func (r *Resolver) PurchaseCost(item *catalog.Item, owned []*catalog.Item) float64 {
	return r.Quote(item, owned).Cost
}

func (r *Resolver) walk(item *catalog.Item, working *[]*catalog.Item, consumed *[]*catalog.Item, depth int) float64 {
	if depth >= catalog.MaxDepth {
		// catalog.New rejects graphs this deep
		return 0
	}

	var cost float64
	for _, req := range r.catalog.Required(item) {
		if i := slices.Index(*working, req); i >= 0 {
			*working = slices.Delete(*working, i, i+1)
			*consumed = append(*consumed, req)
			continue
		}
		cost += req.Cost() + r.walk(req, working, consumed, depth+1)
	}
	return cost
}

// CanAfford reports whether currency covers the purchase cost of item.
func (r *Resolver) CanAfford(item *catalog.Item, owned []*catalog.Item, currency float64) bool {
	return currency >= r.PurchaseCost(item, owned)
}

// SellPrice is the unfloored amount a sale of item is worth.
func (r *Resolver) SellPrice(item *catalog.Item) float64 {
	return r.TotalCost(item) * r.sellModifier
}

// Payout floors a price to whole currency units.
func Payout(price float64) int {
	return int(math.Floor(price))
}
