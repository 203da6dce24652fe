package command

import (
	"fmt"
)

// HttpConfig configures the inspection surface. Port 0 disables it.
type HttpConfig struct {
	Port int `json:"port"`
}

func (c *HttpConfig) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("http: port %d out of range", c.Port)
	}
	return nil
}
