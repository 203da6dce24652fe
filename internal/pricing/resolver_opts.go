package pricing

type ResolverOpt func(*Resolver)

// WithSellModifier sets the fraction of total cost refunded on sale.
func WithSellModifier(m float64) ResolverOpt {
	return func(r *Resolver) {
		r.sellModifier = m
	}
}
