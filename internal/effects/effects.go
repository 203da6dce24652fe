package effects

import "errors"

// Handle identifies something the effect subsystem applied so it can later
// be revoked.
type Handle string

var (
	ErrUnknownHandle            = errors.New("unknown effect handle")
	ErrUnknownAbility           = errors.New("unknown ability")
	ErrInsufficientCurrency     = errors.New("insufficient currency")
	ErrEmptyMultiplicativeBatch = errors.New("multiplicative batch is empty")
)

// System mutates a participant's attributes. Every call may fail.
type System interface {
	// ApplyAdditive permanently adds magnitude to the attribute's base value.
	// The adjustment is undone by applying the negated magnitude. The
	// returned handle only identifies the call and cannot be revoked.
	ApplyAdditive(attribute string, magnitude float64) (Handle, error)

	// ApplyMultiplicativeBatch applies one revocable multiplier per attribute.
	ApplyMultiplicativeBatch(magnitudes map[string]float64) (Handle, error)

	// ApplyEffect grants a named revocable effect.
	ApplyEffect(ref string) (Handle, error)

	Revoke(Handle) error

	Currency() (float64, error)
	AddCurrency(delta float64) error
}

// Abilities grants and activates abilities.
type Abilities interface {
	Grant(ref string) (Handle, error)
	Clear(Handle) error
	TryActivate(Handle) error
}

// Tagged reports on state tags held by a participant.
type Tagged interface {
	HasAnyTag(tags ...string) bool
}
