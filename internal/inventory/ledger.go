package inventory

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
	"github.com/pixil98/go-loadout/internal/metrics"
)

type ProviderKind int

const (
	ProviderModifier ProviderKind = iota
	ProviderEffect
)

func (k ProviderKind) String() string {
	if k == ProviderEffect {
		return "effect"
	}
	return "modifier"
}

type providerKey struct {
	kind ProviderKind
	tag  catalog.Tag
}

// Provider is one entry of the provider table.
type Provider struct {
	Kind       ProviderKind
	Tag        catalog.Tag
	InstanceId string
}

// Ledger decides which modifiers and effects to request from the effect
// subsystem as items come and go. Each non-empty unique tag has at most one
// provider per kind; modifier and effect tags are tracked separately.
type Ledger struct {
	owner     string
	system    effects.System
	providers map[providerKey]*ActiveItem
}

func NewLedger(owner string, system effects.System) *Ledger {
	return &Ledger{
		owner:     owner,
		system:    system,
		providers: map[providerKey]*ActiveItem{},
	}
}

// Apply requests every modifier and effect a declares, skipping unique tags
// that another instance already provides.
func (l *Ledger) Apply(a *ActiveItem) {
	l.apply(a, false)
}

// Remove retracts what a provides and revokes every handle a holds.
func (l *Ledger) Remove(a *ActiveItem) {
	for _, mod := range a.Item.AttributeModifiers {
		l.release(providerKey{ProviderModifier, mod.Unique}, a)
	}
	for _, eff := range a.Item.Effects {
		l.release(providerKey{ProviderEffect, eff.Unique}, a)
	}

	idxs := make([]int, 0, len(a.additive))
	for idx := range a.additive {
		idxs = append(idxs, idx)
	}
	slices.Sort(idxs)
	for _, idx := range idxs {
		attr := a.Item.AttributeModifiers[idx].Attribute
		if _, err := l.system.ApplyAdditive(attr, -a.additive[idx]); err != nil {
			l.callFailed("apply_additive", a, err)
		}
	}
	clear(a.additive)

	for _, h := range a.handles {
		if err := l.system.Revoke(h); err != nil {
			l.callFailed("revoke", a, err)
		}
	}
	a.handles = nil
}

// Regenerate gives every unprovided unique tag to the first instance, in
// slot order, that declares it.
func (l *Ledger) Regenerate(slots *Slots) {
	slots.ForEach(func(_ int, a *ActiveItem) {
		l.apply(a, true)
	})
}

// IsProviderOf reports whether a provides tag as a modifier or an effect.
func (l *Ledger) IsProviderOf(a *ActiveItem, tag catalog.Tag) bool {
	for _, kind := range []ProviderKind{ProviderModifier, ProviderEffect} {
		if p, ok := l.providers[providerKey{kind, tag}]; ok && p.InstanceId == a.InstanceId {
			return true
		}
	}
	return false
}

// IsIdentifierActive reports whether any instance provides tag.
func (l *Ledger) IsIdentifierActive(tag catalog.Tag) bool {
	_, mod := l.providers[providerKey{ProviderModifier, tag}]
	_, eff := l.providers[providerKey{ProviderEffect, tag}]
	return mod || eff
}

// Providers returns the provider table ordered by kind then tag.
func (l *Ledger) Providers() []Provider {
	out := make([]Provider, 0, len(l.providers))
	for k, a := range l.providers {
		out = append(out, Provider{Kind: k.kind, Tag: k.tag, InstanceId: a.InstanceId})
	}
	slices.SortFunc(out, func(a, b Provider) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return strings.Compare(string(a.Tag), string(b.Tag))
	})
	return out
}

func (l *Ledger) apply(a *ActiveItem, regenerating bool) {
	var (
		batch     = map[string]float64{}
		batchKeys []providerKey
	)

	for idx, mod := range a.Item.AttributeModifiers {
		key := providerKey{ProviderModifier, mod.Unique}
		if !l.claim(key, a, regenerating) {
			continue
		}

		mag := mod.Magnitude.Value()
		if mod.Op == catalog.ModifierOpMultiply {
			if cur, ok := batch[mod.Attribute]; ok {
				mag *= cur
			}
			batch[mod.Attribute] = mag
			batchKeys = append(batchKeys, key)
			continue
		}

		if _, err := l.system.ApplyAdditive(mod.Attribute, mag); err != nil {
			l.callFailed("apply_additive", a, err)
			l.release(key, a)
			continue
		}
		a.additive[idx] += mag
	}

	if len(batch) > 0 {
		h, err := l.system.ApplyMultiplicativeBatch(batch)
		if err != nil {
			l.callFailed("apply_multiplicative", a, err)
			for _, key := range batchKeys {
				l.release(key, a)
			}
		} else {
			a.handles = append(a.handles, h)
		}
	}

	for _, eff := range a.Item.Effects {
		key := providerKey{ProviderEffect, eff.Unique}
		if !l.claim(key, a, regenerating) {
			continue
		}

		h, err := l.system.ApplyEffect(eff.Effect)
		if err != nil {
			l.callFailed("apply_effect", a, err)
			l.release(key, a)
			continue
		}
		a.handles = append(a.handles, h)
	}
}

// claim registers a as provider of key and reports whether a should issue
// the request. Empty tags always apply on equip and are never regenerated.
func (l *Ledger) claim(key providerKey, a *ActiveItem, regenerating bool) bool {
	if key.tag.IsEmpty() {
		return !regenerating
	}
	if _, taken := l.providers[key]; taken {
		return false
	}

	l.providers[key] = a
	action := metrics.ActionRegistered
	if regenerating {
		action = metrics.ActionRegenerated
	}
	metrics.ProviderChanges.WithLabelValues(action).Inc()
	slog.Debug("unique provider registered", "owner", l.owner, "kind", key.kind, "tag", key.tag, "instance", a.InstanceId, "regenerated", regenerating)
	return true
}

// release drops key from the table if a is its provider.
func (l *Ledger) release(key providerKey, a *ActiveItem) {
	if key.tag.IsEmpty() {
		return
	}
	if p, ok := l.providers[key]; !ok || p.InstanceId != a.InstanceId {
		return
	}

	delete(l.providers, key)
	metrics.ProviderChanges.WithLabelValues(metrics.ActionReleased).Inc()
	slog.Debug("unique provider released", "owner", l.owner, "kind", key.kind, "tag", key.tag, "instance", a.InstanceId)
}

func (l *Ledger) callFailed(call string, a *ActiveItem, err error) {
	metrics.EffectCallFailures.WithLabelValues(call).Inc()
	slog.Warn("effect subsystem call failed", "owner", l.owner, "call", call, "item", a.Item.Key(), "instance", a.InstanceId, "error", err)
}
