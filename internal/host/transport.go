package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

const DefaultRequestSubject = "loadout.request"

// Responder answers request/reply messages on a subject.
type Responder interface {
	Ready() <-chan struct{}
	Respond(subject string, handler func(data []byte) []byte) (func(), error)
}

// Transport feeds JSON requests from a Responder into a Host. It runs as a
// service worker.
type Transport struct {
	host      *Host
	responder Responder
	subject   string
}

func NewTransport(h *Host, r Responder, subject string) *Transport {
	if subject == "" {
		subject = DefaultRequestSubject
	}
	return &Transport{host: h, responder: r, subject: subject}
}

func (t *Transport) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-t.responder.Ready():
	}

	unsubscribe, err := t.responder.Respond(t.subject, func(data []byte) []byte {
		return t.handle(ctx, data)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", t.subject, err)
	}
	defer unsubscribe()

	slog.InfoContext(ctx, "accepting requests", "subject", t.subject)
	<-ctx.Done()
	return nil
}

func (t *Transport) handle(ctx context.Context, data []byte) []byte {
	var resp Response

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		resp = Response{Reason: fmt.Sprintf("%v: decoding request: %v", ErrInvalidRequest, err)}
	} else {
		resp = t.host.Handle(ctx, req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		slog.ErrorContext(ctx, "encoding response", "request", resp.RequestId, "error", err)
		return nil
	}
	return out
}
