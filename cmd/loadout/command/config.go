package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	Storage   StorageConfig   `json:"storage"`
	Nats      NatsConfig      `json:"nats"`
	Inventory InventoryConfig `json:"inventory"`
	Host      HostConfig      `json:"host"`
	Http      HttpConfig      `json:"http"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Inventory.validate())
	el.Add(c.Host.validate())
	el.Add(c.Http.validate())

	return el.Err()
}
