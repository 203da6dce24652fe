package command

import (
	"fmt"

	"github.com/pixil98/go-loadout/internal/driver"
	"github.com/pixil98/go-loadout/internal/host"
	"github.com/pixil98/go-loadout/internal/messaging"
	"github.com/pixil98/go-loadout/internal/server"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Load the item catalog
	cat, err := cfg.Storage.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	// Create the embedded broker
	ns, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Create the authoritative host, publishing state to the broker
	hostOpts, err := cfg.Host.hostOpts()
	if err != nil {
		return nil, fmt.Errorf("configuring host: %w", err)
	}
	hostOpts = append(hostOpts, cfg.Inventory.hostOpts()...)
	hostOpts = append(hostOpts, host.WithObserver(messaging.NewPublisher(ns, cfg.Host.EventSubjectPrefix)))
	h := host.NewHost(cat, cfg.Inventory.buildResolver(cat), hostOpts...)

	// Setup the driver for periodic resync
	driverOpts, err := cfg.Host.driverOpts()
	if err != nil {
		return nil, fmt.Errorf("configuring driver: %w", err)
	}
	d := driver.NewDriver([]driver.Manager{h}, driverOpts...)

	workers := service.WorkerList{
		"nats":      ns,
		"transport": host.NewTransport(h, ns, cfg.Host.RequestSubject),
		"driver":    d,
	}
	if cfg.Http.Port != 0 {
		workers["http"] = server.NewServer(cfg.Http.Port, h)
	}

	return workers, nil
}
