package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-loadout/internal/inventory"
)

const DefaultEventSubjectPrefix = "loadout.events"

// Sender publishes raw messages.
type Sender interface {
	Publish(subject string, data []byte) error
}

// SlotChangedEvent is published after every slot mutation.
type SlotChangedEvent struct {
	Owner string              `json:"owner"`
	Slot  inventory.SlotState `json:"slot"`
}

// Publisher forwards inventory state synchronization to per-participant
// subjects. It satisfies inventory.Observer.
type Publisher struct {
	sender Sender
	prefix string
}

func NewPublisher(sender Sender, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultEventSubjectPrefix
	}
	return &Publisher{sender: sender, prefix: prefix}
}

// SlotSubject is where slot changes for owner are published.
func SlotSubject(prefix, owner string) string {
	return fmt.Sprintf("%s.%s.slot", prefix, owner)
}

// SnapshotSubject is where full snapshots for owner are published.
func SnapshotSubject(prefix, owner string) string {
	return fmt.Sprintf("%s.%s.snapshot", prefix, owner)
}

func (p *Publisher) SlotChanged(owner string, slot inventory.SlotState) {
	p.publish(SlotSubject(p.prefix, owner), SlotChangedEvent{Owner: owner, Slot: slot})
}

func (p *Publisher) Synced(snap inventory.Snapshot) {
	p.publish(SnapshotSubject(p.prefix, snap.Owner), snap)
}

func (p *Publisher) publish(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding event", "subject", subject, "error", err)
		return
	}
	if err := p.sender.Publish(subject, data); err != nil {
		slog.Warn("publishing event", "subject", subject, "error", err)
	}
}
