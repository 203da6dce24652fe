package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 5
)

// Manager is anything that needs periodic work, such as resyncing observers.
type Manager interface {
	Tick(context.Context) error
}

// Driver ticks its managers on a fixed interval until the context ends.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength, "managers", len(d.managers))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "tick failed", "error", err)
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
