package host

import (
	"time"

	"github.com/pixil98/go-loadout/internal/inventory"
)

type HostOpt func(*Host)

func WithSlotCount(n int) HostOpt {
	return func(h *Host) {
		h.slotCount = n
	}
}

func WithStartingCurrency(c float64) HostOpt {
	return func(h *Host) {
		h.startingCurrency = c
	}
}

func WithGateTags(tags ...string) HostOpt {
	return func(h *Host) {
		h.gateTags = tags
	}
}

// WithReplayCache sizes the cache of recent responses used to answer
// retried requests.
func WithReplayCache(size int, ttl time.Duration) HostOpt {
	return func(h *Host) {
		h.replaySize = size
		h.replayTTL = ttl
	}
}

// WithObserver attaches o to every inventory the host creates.
func WithObserver(o inventory.Observer) HostOpt {
	return func(h *Host) {
		h.observers = append(h.observers, o)
	}
}
