package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/effects"
	"github.com/pixil98/go-loadout/internal/host"
	"github.com/pixil98/go-loadout/internal/pricing"
	"github.com/pixil98/go-loadout/internal/storage"
)

type fixedSystem struct {
	effects.System
}

func newTestServer(t *testing.T) (*Server, *host.Host) {
	t.Helper()

	cat, err := catalog.New(storage.NewMemoryStore(map[storage.Identifier]*catalog.Item{
		"dagger": {Name: "Dagger", Price: catalog.FlatMagnitude(300)},
		"ring":   {Name: "Ring", Price: catalog.FlatMagnitude(200)},
		"blade": {
			Name:          "Blade",
			Price:         catalog.FlatMagnitude(100),
			RequiredItems: []storage.Identifier{"dagger"},
			AttributeModifiers: []catalog.UniqueModifier{
				{Unique: "unique.edge", Attribute: "power", Op: catalog.ModifierOpAdd, Magnitude: catalog.FlatMagnitude(15)},
			},
		},
	}), nil)
	require.NoError(t, err)

	h := host.NewHost(cat, pricing.NewResolver(cat))
	return NewServer(0, h), h
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/healthz", "")

	w := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "loadout_http_requests_total")
}

func TestCatalog(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decode[[]ItemView](t, w)
	require.Len(t, items, 3)
	assert.Equal(t, storage.Identifier("ring"), items[0].Key)
	assert.Equal(t, storage.Identifier("dagger"), items[1].Key)
	assert.Equal(t, []storage.Identifier{"blade"}, items[1].BuildsInto)
	assert.Equal(t, storage.Identifier("blade"), items[2].Key)
	assert.Equal(t, 400.0, items[2].TotalCost)
	assert.Equal(t, 300.0, items[2].SellPrice)
	assert.Equal(t, []storage.Identifier{"dagger"}, items[2].RequiredItems)
}

func TestCatalog_GetItem(t *testing.T) {
	tests := map[string]struct {
		path      string
		expStatus int
		expName   string
	}{
		"known item":   {path: "/catalog/ring", expStatus: http.StatusOK, expName: "Ring"},
		"unknown item": {path: "/catalog/sword", expStatus: http.StatusNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestServer(t)
			w := do(t, s, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.expStatus, w.Code)
			if tt.expName != "" {
				assert.Equal(t, tt.expName, decode[ItemView](t, w).Name)
			}
		})
	}
}

func TestParticipants_Lifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/participants/p1", `{"base":{"power":10},"tags":["location.shop"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, http.MethodPost, "/participants/p1", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodGet, "/participants", "")
	assert.Equal(t, []string{"p1"}, decode[[]string](t, w))

	w = do(t, s, http.MethodPost, "/participants/p1/transactions", `{"request_id":"r1","kind":"buy","item":"blade"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[host.Response](t, w).Accepted)

	w = do(t, s, http.MethodGet, "/participants/p1", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ParticipantView](t, w)
	assert.Equal(t, "p1", view.Owner)
	assert.Equal(t, 100.0, view.Currency)
	assert.Equal(t, storage.Identifier("blade"), view.Slots[0].Item)
	assert.Equal(t, 25.0, view.Attributes["power"])
	assert.Equal(t, []string{"location.shop"}, view.Tags)
	require.Len(t, view.Providers, 1)
	assert.Equal(t, "modifier", view.Providers[0].Kind)
	assert.Equal(t, catalog.Tag("unique.edge"), view.Providers[0].Tag)
	assert.Equal(t, view.Slots[0].InstanceId, view.Providers[0].InstanceId)
	assert.Contains(t, view.Debug, "Inventory for p1")

	w = do(t, s, http.MethodDelete, "/participants/p1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/participants/p1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParticipants_Errors(t *testing.T) {
	tests := map[string]struct {
		method    string
		path      string
		body      string
		expStatus int
	}{
		"join bad body":        {method: http.MethodPost, path: "/participants/p2", body: "{", expStatus: http.StatusBadRequest},
		"join invalid id":      {method: http.MethodPost, path: "/participants/a.b", expStatus: http.StatusBadRequest},
		"leave unknown":        {method: http.MethodDelete, path: "/participants/p9", expStatus: http.StatusNotFound},
		"transaction bad body": {method: http.MethodPost, path: "/participants/p1/transactions", body: "nope", expStatus: http.StatusBadRequest},
		"transaction rejected": {method: http.MethodPost, path: "/participants/p1/transactions", body: `{"request_id":"r1","kind":"sell","slot":0}`, expStatus: http.StatusUnprocessableEntity},
		"tag unknown":          {method: http.MethodPut, path: "/participants/p9/tags/state.dead", expStatus: http.StatusNotFound},
		"tags unsupported":     {method: http.MethodPut, path: "/participants/fixed/tags/state.dead", expStatus: http.StatusNotImplemented},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, h := newTestServer(t)
			require.NoError(t, h.Join(context.Background(), "p1", effects.NewAttributeSet(), nil))
			require.NoError(t, h.Join(context.Background(), "fixed", fixedSystem{effects.NewAttributeSet()}, nil))

			w := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expStatus, w.Code)
			assert.True(t, json.Valid(w.Body.Bytes()), "body is not json: %s", w.Body.String())
		})
	}
}

func TestParticipants_Tags(t *testing.T) {
	s, h := newTestServer(t)
	require.NoError(t, h.Join(context.Background(), "p1", effects.NewAttributeSet(), nil))

	w := do(t, s, http.MethodPost, "/participants/p1/transactions", `{"request_id":"r1","kind":"buy","item":"ring"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, s, http.MethodPut, "/participants/p1/tags/location.shop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string][]string{"tags": {"location.shop"}}, decode[map[string][]string](t, w))

	w = do(t, s, http.MethodPost, "/participants/p1/transactions", `{"request_id":"r2","kind":"buy","item":"ring"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodDelete, "/participants/p1/tags/location.shop", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string][]string{"tags": {}}, decode[map[string][]string](t, w))
}
