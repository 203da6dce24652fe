package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/host"
	"github.com/pixil98/go-loadout/internal/inventory"
	"github.com/pixil98/go-loadout/internal/messaging"
	"github.com/pixil98/go-loadout/internal/pricing"
	"github.com/pixil98/go-loadout/internal/storage"
)

const (
	DefaultRequestTimeout = 2 * time.Second
	DefaultRetryDelay     = 100 * time.Millisecond
)

// ErrRejected is returned when the host refuses a forwarded request.
var ErrRejected = errors.New("rejected by host")

// Requester sends one request and waits for the reply.
type Requester interface {
	Request(ctx context.Context, subject string, data []byte) ([]byte, error)
}

// Subscriber delivers messages published on a subject.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Client is a participant's non-authoritative view of its inventory. It
// mirrors host state from published events and forwards transactions to the
// host after an advisory local check.
type Client struct {
	participant string
	catalog     *catalog.Catalog
	mirror      *inventory.Mirror
	requester   Requester
	subscriber  Subscriber

	requestSubject string
	eventPrefix    string
	slotCount      int
	timeout        time.Duration
	retries        int
	retryDelay     time.Duration
}

func NewClient(participant string, cat *catalog.Catalog, resolver *pricing.Resolver, requester Requester, subscriber Subscriber, opts ...ClientOpt) *Client {
	c := &Client{
		participant:    participant,
		catalog:        cat,
		requester:      requester,
		subscriber:     subscriber,
		requestSubject: host.DefaultRequestSubject,
		eventPrefix:    messaging.DefaultEventSubjectPrefix,
		slotCount:      inventory.DefaultSlotCount,
		timeout:        DefaultRequestTimeout,
		retryDelay:     DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.mirror = inventory.NewMirror(participant, cat, resolver, c.slotCount)
	return c
}

func (c *Client) Participant() string {
	return c.participant
}

// Mirror is the locally mirrored inventory. It may lag the host.
func (c *Client) Mirror() *inventory.Mirror {
	return c.mirror
}

// Connect subscribes the mirror to this participant's events. The returned
// function unsubscribes.
func (c *Client) Connect() (func(), error) {
	unsubSlot, err := c.subscriber.Subscribe(messaging.SlotSubject(c.eventPrefix, c.participant), c.onSlotChanged)
	if err != nil {
		return nil, fmt.Errorf("subscribing to slot changes: %w", err)
	}
	unsubSnap, err := c.subscriber.Subscribe(messaging.SnapshotSubject(c.eventPrefix, c.participant), c.onSnapshot)
	if err != nil {
		unsubSlot()
		return nil, fmt.Errorf("subscribing to snapshots: %w", err)
	}

	return func() {
		unsubSlot()
		unsubSnap()
	}, nil
}

func (c *Client) onSlotChanged(data []byte) {
	var ev messaging.SlotChangedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Warn("decoding slot change", "participant", c.participant, "error", err)
		return
	}
	c.mirror.SlotChanged(ev.Owner, ev.Slot)
}

func (c *Client) onSnapshot(data []byte) {
	var snap inventory.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("decoding snapshot", "participant", c.participant, "error", err)
		return
	}
	c.mirror.Synced(snap)
}

// Buy forwards a purchase of key unless the mirror already shows it would
// fail for lack of room or currency.
func (c *Client) Buy(ctx context.Context, key storage.Identifier) error {
	item, err := c.catalog.Get(key)
	if err != nil {
		return err
	}
	if err := c.mirror.CheckPurchase(item); err != nil {
		return err
	}
	return c.send(ctx, host.Request{Kind: host.KindBuy, Item: key})
}

// Sell forwards a sale of slot unless the mirror shows it empty.
func (c *Client) Sell(ctx context.Context, slot int) error {
	if !c.mirror.CanSellAt(slot) {
		return fmt.Errorf("%w: %d", inventory.ErrSlotEmpty, slot)
	}
	return c.send(ctx, host.Request{Kind: host.KindSell, Slot: slot})
}

// Use forwards activation of the ability held in slot.
func (c *Client) Use(ctx context.Context, slot int) error {
	item, err := c.mirror.ItemAt(slot)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: %d", inventory.ErrSlotEmpty, slot)
	}
	if item.Ability == "" {
		return fmt.Errorf("%w: %s has no ability", inventory.ErrAbilityHandleInvalid, item)
	}
	return c.send(ctx, host.Request{Kind: host.KindUse, Slot: slot})
}

// send retries transport failures with the same request id so the host can
// answer a retry from its replay cache.
func (c *Client) send(ctx context.Context, req host.Request) error {
	req.RequestId = uuid.New().String()
	req.Participant = c.participant

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	var reply []byte
	for attempt := 0; ; attempt++ {
		reply, err = c.request(ctx, data)
		if err == nil {
			break
		}
		if attempt >= c.retries || ctx.Err() != nil {
			return fmt.Errorf("sending %s request: %w", req.Kind, err)
		}
		slog.DebugContext(ctx, "retrying request", "participant", c.participant, "request", req.RequestId, "attempt", attempt+1, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("sending %s request: %w", req.Kind, ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}

	var resp host.Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !resp.Accepted {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Reason)
	}
	return nil
}

func (c *Client) request(ctx context.Context, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.requester.Request(ctx, c.requestSubject, data)
}
