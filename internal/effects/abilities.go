package effects

import (
	"fmt"
	"sync"
)

// AbilityBook is an in-process Abilities. It records activations so callers
// can observe them.
type AbilityBook struct {
	mu          sync.Mutex
	granted     map[Handle]string
	activations map[string]int
}

func NewAbilityBook() *AbilityBook {
	return &AbilityBook{
		granted:     map[Handle]string{},
		activations: map[string]int{},
	}
}

func (b *AbilityBook) Grant(ref string) (Handle, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrUnknownAbility)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	h := newHandle()
	b.granted[h] = ref
	return h, nil
}

func (b *AbilityBook) Clear(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.granted[h]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	delete(b.granted, h)
	return nil
}

func (b *AbilityBook) TryActivate(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref, ok := b.granted[h]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	b.activations[ref]++
	return nil
}

// Activations returns how many times ref has been activated.
func (b *AbilityBook) Activations(ref string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.activations[ref]
}

// Granted returns how many grants of ref are outstanding.
func (b *AbilityBook) Granted(ref string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, r := range b.granted {
		if r == ref {
			n++
		}
	}
	return n
}
