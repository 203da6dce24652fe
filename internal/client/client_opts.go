package client

import "time"

type ClientOpt func(*Client)

func WithRequestSubject(subject string) ClientOpt {
	return func(c *Client) {
		c.requestSubject = subject
	}
}

func WithEventPrefix(prefix string) ClientOpt {
	return func(c *Client) {
		c.eventPrefix = prefix
	}
}

// WithSlotCount must match the host's slot count.
func WithSlotCount(n int) ClientOpt {
	return func(c *Client) {
		c.slotCount = n
	}
}

func WithRequestTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetries sets how many times a request that got no reply is resent,
// waiting delay between attempts.
func WithRetries(n int, delay time.Duration) ClientOpt {
	return func(c *Client) {
		c.retries = n
		c.retryDelay = delay
	}
}
