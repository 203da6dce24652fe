package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
	"github.com/pixil98/go-loadout/internal/inventory"
	"github.com/pixil98/go-loadout/internal/metrics"
	"github.com/pixil98/go-loadout/internal/pricing"
)

const (
	DefaultStartingCurrency = 500
	DefaultReplayCacheSize  = 1024
	DefaultReplayTTL        = time.Minute

	participantRules = "required,max=64,printascii,excludesall=.*> "
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrParticipantExists  = errors.New("participant already joined")
)

type participant struct {
	mu        sync.Mutex
	epoch     uint64
	inv       *inventory.Inventory
	system    effects.System
	abilities effects.Abilities
}

// Host is the authoritative owner of every participant's inventory. Requests
// for one participant are serialized; different participants run
// independently.
type Host struct {
	catalog  *catalog.Catalog
	pricing  *pricing.Resolver
	validate *validator.Validate

	slotCount        int
	startingCurrency float64
	gateTags         []string
	observers        []inventory.Observer
	replaySize       int
	replayTTL        time.Duration
	replay           *expirable.LRU[replayKey, Response]

	mu           sync.RWMutex
	participants map[string]*participant
	joins        uint64
}

// replayKey scopes a request id to one join of one participant, so a
// participant that leaves and rejoins never sees responses from before.
type replayKey struct {
	participant string
	epoch       uint64
	request     string
}

func NewHost(cat *catalog.Catalog, resolver *pricing.Resolver, opts ...HostOpt) *Host {
	h := &Host{
		catalog:          cat,
		pricing:          resolver,
		validate:         validator.New(),
		slotCount:        inventory.DefaultSlotCount,
		startingCurrency: DefaultStartingCurrency,
		gateTags:         inventory.DefaultGateTags,
		replaySize:       DefaultReplayCacheSize,
		replayTTL:        DefaultReplayTTL,
		participants:     map[string]*participant{},
	}

	for _, opt := range opts {
		opt(h)
	}

	h.replay = expirable.NewLRU[replayKey, Response](h.replaySize, nil, h.replayTTL)
	return h
}

func (h *Host) Catalog() *catalog.Catalog {
	return h.catalog
}

func (h *Host) Pricing() *pricing.Resolver {
	return h.pricing
}

func (h *Host) SlotCount() int {
	return h.slotCount
}

// Join creates an inventory for id backed by system and abilities, and
// grants the starting currency.
func (h *Host) Join(ctx context.Context, id string, system effects.System, abilities effects.Abilities) error {
	if err := h.validate.Var(id, participantRules); err != nil {
		return fmt.Errorf("%w: participant id %q is not valid", ErrInvalidRequest, id)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.participants[id]; ok {
		return fmt.Errorf("%w: %s", ErrParticipantExists, id)
	}

	opts := []inventory.InventoryOpt{
		inventory.WithSlotCount(h.slotCount),
		inventory.WithGateTags(h.gateTags...),
	}
	if system != nil {
		opts = append(opts, inventory.WithEffects(system))
		if h.startingCurrency > 0 {
			if err := system.AddCurrency(h.startingCurrency); err != nil {
				return fmt.Errorf("granting starting currency: %w", err)
			}
		}
	}
	if abilities != nil {
		opts = append(opts, inventory.WithAbilities(abilities))
	}
	for _, o := range h.observers {
		opts = append(opts, inventory.WithObserver(o))
	}

	h.joins++
	p := &participant{
		epoch:     h.joins,
		inv:       inventory.NewInventory(id, h.catalog, h.pricing, opts...),
		system:    system,
		abilities: abilities,
	}
	h.participants[id] = p
	metrics.Participants.Inc()

	slog.InfoContext(ctx, "participant joined", "participant", id, "currency", h.startingCurrency, "slots", h.slotCount)
	p.inv.Sync()
	return nil
}

// Leave drops id and its cached responses. Its inventory is not persisted.
func (h *Host) Leave(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.participants[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	delete(h.participants, id)
	metrics.Participants.Dec()

	for _, k := range h.replay.Keys() {
		if k.participant == id && k.epoch == p.epoch {
			h.replay.Remove(k)
		}
	}

	slog.InfoContext(ctx, "participant left", "participant", id)
	return nil
}

// Participants returns every participant id, sorted.
func (h *Host) Participants() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.participants))
	for id := range h.participants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (h *Host) participant(id string) (*participant, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, ok := h.participants[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	return p, nil
}

// With runs f with id's inventory and effect system while holding that
// participant's lock.
func (h *Host) With(id string, f func(*inventory.Inventory, effects.System) error) error {
	p, err := h.participant(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return f(p.inv, p.system)
}

// Handle validates and runs req. A request id seen recently for the same
// participant is answered from the replay cache without running again.
func (h *Host) Handle(ctx context.Context, req Request) Response {
	if err := h.validate.Struct(req); err != nil {
		err = validationError(err)
		slog.InfoContext(ctx, "request rejected", "request", req.RequestId, "error", err)
		return rejected(req, err)
	}

	p, err := h.participant(req.Participant)
	if err != nil {
		return rejected(req, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Checked under the participant lock so concurrent retries of one
	// request run it once.
	key := replayKey{participant: req.Participant, epoch: p.epoch, request: req.RequestId}
	if resp, ok := h.replay.Get(key); ok {
		metrics.ReplayHits.Inc()
		slog.DebugContext(ctx, "request replayed", "participant", req.Participant, "request", req.RequestId)
		return resp
	}

	resp := h.dispatch(ctx, p.inv, req)
	h.replay.Add(key, resp)
	return resp
}

func (h *Host) dispatch(ctx context.Context, inv *inventory.Inventory, req Request) Response {
	var err error
	switch req.Kind {
	case KindBuy:
		err = inv.Buy(ctx, req.Item)
	case KindSell:
		err = inv.Sell(ctx, req.Slot)
	case KindUse:
		err = inv.Use(ctx, req.Slot)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, req.Kind)
	}

	if err != nil {
		return rejected(req, err)
	}
	return accepted(req)
}

// Tick resyncs every participant's observers with a full snapshot.
func (h *Host) Tick(ctx context.Context) error {
	for _, id := range h.Participants() {
		err := h.With(id, func(inv *inventory.Inventory, _ effects.System) error {
			inv.Sync()
			return nil
		})
		if err != nil && !errors.Is(err, ErrUnknownParticipant) {
			return err
		}
	}
	return nil
}
