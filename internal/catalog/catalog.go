package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	goerrors "github.com/pixil98/go-errors"
	"github.com/pixil98/go-loadout/internal/storage"
)

// MaxDepth bounds every walk of the required-items graph. Catalogs deeper
// than this are rejected at load.
const MaxDepth = 32

var (
	ErrItemUnresolved = errors.New("item unresolved")
	ErrCycle          = errors.New("required items form a cycle")
	ErrTooDeep        = errors.New("required items nested too deeply")
)

// LoadListener is notified once a catalog has finished loading.
type LoadListener func(*Catalog)

// Catalog is the immutable set of item definitions. The composition graph is
// held as an adjacency list keyed by item key.
type Catalog struct {
	items      map[storage.Identifier]*Item
	required   map[storage.Identifier][]storage.Identifier
	buildsInto map[storage.Identifier][]storage.Identifier
	totalCost  map[storage.Identifier]float64
	sorted     []*Item
}

// New builds a catalog from loaded item and curve definitions. It fails if a
// required item or curve is missing, or if the required-items graph has a
// cycle or exceeds MaxDepth.
func New(items storage.Storer[*Item], curves storage.Storer[*Curve], listeners ...LoadListener) (*Catalog, error) {
	c := &Catalog{
		items:      map[storage.Identifier]*Item{},
		required:   map[storage.Identifier][]storage.Identifier{},
		buildsInto: map[storage.Identifier][]storage.Identifier{},
		totalCost:  map[storage.Identifier]float64{},
	}

	for id, item := range items.GetAll() {
		if item == nil {
			return nil, fmt.Errorf("item %s: definition is nil", id)
		}
		item.key = id
		c.items[id] = item
	}

	el := goerrors.NewErrorList()
	for id, item := range c.items {
		if err := item.resolve(curves); err != nil {
			el.Add(fmt.Errorf("item %s: %w", id, err))
		}
		for _, req := range item.RequiredItems {
			if _, ok := c.items[req]; !ok {
				el.Add(fmt.Errorf("item %s: required item %q: %w", id, req, ErrItemUnresolved))
			}
		}
		c.required[id] = slices.Clone(item.RequiredItems)
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	if err := c.checkGraph(); err != nil {
		return nil, err
	}

	for id := range c.items {
		c.computeTotalCost(id)
	}
	c.buildSorted()
	c.buildReverseIndex()

	slog.Info("items loaded", "count", len(c.items))
	for _, l := range listeners {
		l(c)
	}

	return c, nil
}

// checkGraph rejects cycles and chains deeper than MaxDepth.
func (c *Catalog) checkGraph() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[storage.Identifier]int, len(c.items))
	depth := make(map[storage.Identifier]int, len(c.items))

	var visit func(id storage.Identifier, path []storage.Identifier) error
	visit = func(id storage.Identifier, path []storage.Identifier) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			cycle := append(path[slices.Index(path, id):], id)
			return fmt.Errorf("%w: %s", ErrCycle, joinKeys(cycle))
		}

		state[id] = visiting
		path = append(path, id)
		deepest := 0
		for _, req := range c.required[id] {
			if err := visit(req, path); err != nil {
				return err
			}
			deepest = max(deepest, depth[req])
		}
		state[id] = done
		depth[id] = deepest + 1

		if depth[id] > MaxDepth {
			return fmt.Errorf("%w: %s has depth %d", ErrTooDeep, id, depth[id])
		}
		return nil
	}

	for _, id := range c.sortedKeys() {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) computeTotalCost(id storage.Identifier) float64 {
	if cost, ok := c.totalCost[id]; ok {
		return cost
	}

	cost := c.items[id].Cost()
	for _, req := range c.required[id] {
		cost += c.computeTotalCost(req)
	}
	c.totalCost[id] = cost
	return cost
}

func (c *Catalog) buildSorted() {
	c.sorted = make([]*Item, 0, len(c.items))
	for _, item := range c.items {
		c.sorted = append(c.sorted, item)
	}
	slices.SortFunc(c.sorted, func(a, b *Item) int {
		ca, cb := c.totalCost[a.key], c.totalCost[b.key]
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return strings.Compare(string(a.key), string(b.key))
		}
	})
}

func (c *Catalog) buildReverseIndex() {
	for _, item := range c.sorted {
		for _, req := range c.required[item.key] {
			if !slices.Contains(c.buildsInto[req], item.key) {
				c.buildsInto[req] = append(c.buildsInto[req], item.key)
			}
		}
	}
}

func (c *Catalog) sortedKeys() []storage.Identifier {
	keys := make([]storage.Identifier, 0, len(c.items))
	for id := range c.items {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the item loaded under key.
func (c *Catalog) Get(key storage.Identifier) (*Item, error) {
	item, ok := c.items[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrItemUnresolved, key)
	}
	return item, nil
}

// Len returns the number of loaded items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns every item ordered by total cost, cheapest first.
func (c *Catalog) Items() []*Item {
	return slices.Clone(c.sorted)
}

// Required returns the items that item is built from, in declaration order.
// Repeated components appear once per occurrence.
func (c *Catalog) Required(item *Item) []*Item {
	return c.lookup(c.required[item.Key()])
}

// BuildsInto returns the items that consume item as a component.
func (c *Catalog) BuildsInto(item *Item) []*Item {
	return c.lookup(c.buildsInto[item.Key()])
}

// TotalCost is the item's price plus the total cost of every component.
func (c *Catalog) TotalCost(item *Item) float64 {
	return c.totalCost[item.Key()]
}

func (c *Catalog) lookup(keys []storage.Identifier) []*Item {
	items := make([]*Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, c.items[k])
	}
	return items
}

func joinKeys(keys []storage.Identifier) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, " -> ")
}
