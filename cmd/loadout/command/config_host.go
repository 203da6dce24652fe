package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-loadout/internal/driver"
	"github.com/pixil98/go-loadout/internal/host"
)

type HostConfig struct {
	RequestSubject     string `json:"request_subject"`
	EventSubjectPrefix string `json:"event_subject_prefix"`
	ReplayCacheSize    int    `json:"replay_cache_size"`
	ReplayTTL          string `json:"replay_ttl"`
	TickInterval       string `json:"tick_interval"`
}

func (c *HostConfig) validate() error {
	el := errors.NewErrorList()

	if c.ReplayCacheSize < 0 {
		el.Add(fmt.Errorf("host: replay_cache_size must not be negative"))
	}
	if c.ReplayTTL != "" {
		if _, err := time.ParseDuration(c.ReplayTTL); err != nil {
			el.Add(fmt.Errorf("host: parsing replay_ttl: %w", err))
		}
	}
	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("host: parsing tick_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("host: tick_interval must be at least 1 second"))
		}
	}

	return el.Err()
}

func (c *HostConfig) hostOpts() ([]host.HostOpt, error) {
	var opts []host.HostOpt
	if c.ReplayCacheSize != 0 || c.ReplayTTL != "" {
		size, ttl := host.DefaultReplayCacheSize, host.DefaultReplayTTL
		if c.ReplayCacheSize != 0 {
			size = c.ReplayCacheSize
		}
		if c.ReplayTTL != "" {
			d, err := time.ParseDuration(c.ReplayTTL)
			if err != nil {
				return nil, fmt.Errorf("parsing replay_ttl: %w", err)
			}
			ttl = d
		}
		opts = append(opts, host.WithReplayCache(size, ttl))
	}
	return opts, nil
}

func (c *HostConfig) driverOpts() ([]driver.DriverOpt, error) {
	if c.TickInterval == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	return []driver.DriverOpt{driver.WithTickLength(d)}, nil
}
