package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
	"github.com/pixil98/go-loadout/internal/host"
	"github.com/pixil98/go-loadout/internal/inventory"
	"github.com/pixil98/go-loadout/internal/storage"
)

var errTagsUnsupported = errors.New("participant effect system does not hold tags")

type tagger interface {
	AddTag(tag string)
	RemoveTag(tag string)
	Tags() []string
}

type attributer interface {
	Attributes() map[string]float64
}

type ItemView struct {
	Key           storage.Identifier   `json:"key"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	Price         float64              `json:"price"`
	TotalCost     float64              `json:"total_cost"`
	SellPrice     float64              `json:"sell_price"`
	RequiredItems []storage.Identifier `json:"required_items"`
	BuildsInto    []storage.Identifier `json:"builds_into"`
	Ability       string               `json:"ability,omitempty"`
}

type ProviderView struct {
	Kind       string      `json:"kind"`
	Tag        catalog.Tag `json:"tag"`
	InstanceId string      `json:"instance_id"`
}

type ParticipantView struct {
	inventory.Snapshot
	Attributes map[string]float64 `json:"attributes,omitempty"`
	Tags       []string           `json:"tags,omitempty"`
	Providers  []ProviderView     `json:"providers"`
	Debug      string             `json:"debug"`
}

type JoinRequest struct {
	Base map[string]float64 `json:"base,omitempty"`
	Tags []string           `json:"tags,omitempty"`
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) itemView(item *catalog.Item) ItemView {
	cat := s.host.Catalog()
	return ItemView{
		Key:           item.Key(),
		Name:          item.Name,
		Description:   item.Description,
		Price:         item.Cost(),
		TotalCost:     cat.TotalCost(item),
		SellPrice:     s.host.Pricing().SellPrice(item),
		RequiredItems: keys(cat.Required(item)),
		BuildsInto:    keys(cat.BuildsInto(item)),
		Ability:       item.Ability,
	}
}

func (s *Server) handleListCatalog(w http.ResponseWriter, _ *http.Request) {
	items := s.host.Catalog().Items()
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, s.itemView(item))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.host.Catalog().Get(storage.Identifier(chi.URLParam(r, "key")))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.itemView(item))
}

func (s *Server) handleListParticipants(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.host.Participants())
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	var view ParticipantView
	err := s.host.With(chi.URLParam(r, "id"), func(inv *inventory.Inventory, sys effects.System) error {
		view.Snapshot = inv.Snapshot()
		view.Debug = inv.DebugString()
		view.Providers = []ProviderView{}
		for _, p := range inv.Ledger().Providers() {
			view.Providers = append(view.Providers, ProviderView{Kind: p.Kind.String(), Tag: p.Tag, InstanceId: p.InstanceId})
		}
		if a, ok := sys.(attributer); ok {
			view.Attributes = a.Attributes()
		}
		if t, ok := sys.(tagger); ok {
			view.Tags = t.Tags()
		}
		return nil
	})
	if err != nil {
		respondHostError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	attrs := effects.NewAttributeSet(effects.WithBase(req.Base), effects.WithTags(req.Tags...))
	if err := s.host.Join(r.Context(), id, attrs, effects.NewAbilityBook()); err != nil {
		respondHostError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"participant": id})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	if err := s.host.Leave(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondHostError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	var req host.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Participant = chi.URLParam(r, "id")

	resp := s.host.Handle(r.Context(), req)
	status := http.StatusOK
	if !resp.Accepted {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, resp)
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	s.updateTags(w, r, func(t tagger, tag string) { t.AddTag(tag) })
}

func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	s.updateTags(w, r, func(t tagger, tag string) { t.RemoveTag(tag) })
}

func (s *Server) updateTags(w http.ResponseWriter, r *http.Request, f func(tagger, string)) {
	var tags []string
	err := s.host.With(chi.URLParam(r, "id"), func(_ *inventory.Inventory, sys effects.System) error {
		t, ok := sys.(tagger)
		if !ok {
			return errTagsUnsupported
		}
		f(t, chi.URLParam(r, "tag"))
		tags = t.Tags()
		return nil
	})
	if err != nil {
		respondHostError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

func respondHostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, host.ErrUnknownParticipant):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, host.ErrParticipantExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, host.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errTagsUnsupported):
		respondError(w, http.StatusNotImplemented, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func keys(items []*catalog.Item) []storage.Identifier {
	out := make([]storage.Identifier, len(items))
	for i, item := range items {
		out[i] = item.Key()
	}
	return out
}
