package effects

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const DefaultCurrencyAttribute = "gold"

// AttributeSet is an in-process System. Base values take additive
// adjustments directly; multiplicative batches and effect grants are held
// per handle until revoked.
type AttributeSet struct {
	mu sync.RWMutex

	currencyAttr string
	base         map[string]float64
	multipliers  map[Handle]map[string]float64
	effects      map[Handle]string
	tags         map[string]struct{}
}

func NewAttributeSet(opts ...AttributeSetOpt) *AttributeSet {
	a := &AttributeSet{
		currencyAttr: DefaultCurrencyAttribute,
		base:         map[string]float64{},
		multipliers:  map[Handle]map[string]float64{},
		effects:      map[Handle]string{},
		tags:         map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func newHandle() Handle {
	return Handle(uuid.New().String())
}

func (a *AttributeSet) ApplyAdditive(attribute string, magnitude float64) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.base[attribute] += magnitude
	return newHandle(), nil
}

func (a *AttributeSet) ApplyMultiplicativeBatch(magnitudes map[string]float64) (Handle, error) {
	if len(magnitudes) == 0 {
		return "", ErrEmptyMultiplicativeBatch
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	h := newHandle()
	batch := make(map[string]float64, len(magnitudes))
	for attr, m := range magnitudes {
		batch[attr] = m
	}
	a.multipliers[h] = batch
	return h, nil
}

func (a *AttributeSet) ApplyEffect(ref string) (Handle, error) {
	if ref == "" {
		return "", fmt.Errorf("effect reference is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	h := newHandle()
	a.effects[h] = ref
	return h, nil
}

func (a *AttributeSet) Revoke(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.multipliers[h]; ok {
		delete(a.multipliers, h)
		return nil
	}
	if _, ok := a.effects[h]; ok {
		delete(a.effects, h)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
}

func (a *AttributeSet) Currency() (float64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.base[a.currencyAttr], nil
}

// AddCurrency adjusts the currency attribute. The balance never goes
// negative.
func (a *AttributeSet) AddCurrency(delta float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.base[a.currencyAttr] + delta
	if next < 0 {
		return fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientCurrency, a.base[a.currencyAttr], -delta)
	}
	a.base[a.currencyAttr] = next
	return nil
}

// Value is the attribute's base value scaled by every active multiplier.
func (a *AttributeSet) Value(attribute string) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.value(attribute)
}

func (a *AttributeSet) value(attribute string) float64 {
	v := a.base[attribute]
	for _, batch := range a.multipliers {
		if m, ok := batch[attribute]; ok {
			v *= m
		}
	}
	return v
}

// Attributes returns the current value of every attribute that has a base
// value or a multiplier.
func (a *AttributeSet) Attributes() map[string]float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]float64, len(a.base))
	for attr := range a.base {
		out[attr] = a.value(attr)
	}
	for _, batch := range a.multipliers {
		for attr := range batch {
			if _, ok := out[attr]; !ok {
				out[attr] = a.value(attr)
			}
		}
	}
	return out
}

// EffectCount returns how many grants of ref are active.
func (a *AttributeSet) EffectCount(ref string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	for _, r := range a.effects {
		if r == ref {
			n++
		}
	}
	return n
}

// ActiveEffects returns every active effect grant, sorted.
func (a *AttributeSet) ActiveEffects() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, 0, len(a.effects))
	for _, r := range a.effects {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// MultiplierCount returns how many multiplicative batches are active.
func (a *AttributeSet) MultiplierCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.multipliers)
}

func (a *AttributeSet) AddTag(tag string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.tags[tag] = struct{}{}
}

func (a *AttributeSet) RemoveTag(tag string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.tags, tag)
}

func (a *AttributeSet) HasAnyTag(tags ...string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, t := range tags {
		if _, ok := a.tags[t]; ok {
			return true
		}
	}
	return false
}

func (a *AttributeSet) Tags() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, 0, len(a.tags))
	for t := range a.tags {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
