package effects

type AttributeSetOpt func(*AttributeSet)

// WithBase seeds attribute base values.
func WithBase(values map[string]float64) AttributeSetOpt {
	return func(a *AttributeSet) {
		for attr, v := range values {
			a.base[attr] = v
		}
	}
}

// WithCurrencyAttribute names the attribute used as currency.
func WithCurrencyAttribute(attr string) AttributeSetOpt {
	return func(a *AttributeSet) {
		a.currencyAttr = attr
	}
}

// WithTags seeds state tags.
func WithTags(tags ...string) AttributeSetOpt {
	return func(a *AttributeSet) {
		for _, t := range tags {
			a.tags[t] = struct{}{}
		}
	}
}
