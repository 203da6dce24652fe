package display

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-loadout/internal/catalog"
)

// DefaultRowTemplate renders one shop listing row.
const DefaultRowTemplate = `{{ printf "%-24s" (titlecase .Name) }} {{ printf "%8.0f" .TotalCost }}` +
	`{{ if .BuildsInto }}  builds into {{ join ", " .BuildsInto }}{{ end }}` +
	`{{ if .Description }}{{ "\n" }}{{ reflow .Description 76 | indent 4 }}{{ end }}`

// Graph is the part of a catalog needed to render listings and trees.
type Graph interface {
	Items() []*catalog.Item
	Required(*catalog.Item) []*catalog.Item
	BuildsInto(*catalog.Item) []*catalog.Item
	TotalCost(*catalog.Item) float64
}

// Row is the data available to a row template.
type Row struct {
	Key         string
	Name        string
	Description string
	Price       float64
	TotalCost   float64
	BuildsInto  []string
}

func newRow(g Graph, item *catalog.Item) Row {
	r := Row{
		Key:         string(item.Key()),
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Cost(),
		TotalCost:   g.TotalCost(item),
	}
	for _, parent := range g.BuildsInto(item) {
		r.BuildsInto = append(r.BuildsInto, parent.Name)
	}
	return r
}

// Listing renders every item, cheapest first, one row per item.
func Listing(g Graph, rowTemplate string) (string, error) {
	if rowTemplate == "" {
		rowTemplate = DefaultRowTemplate
	}

	var sb strings.Builder
	for _, item := range g.Items() {
		row, err := ExpandTemplate(rowTemplate, newRow(g, item))
		if err != nil {
			return "", fmt.Errorf("item %s: %w", item.Key(), err)
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// BuildTree renders item and its components, recursively, one per line.
func BuildTree(g Graph, item *catalog.Item) string {
	var sb strings.Builder
	sb.WriteString(treeLabel(g, item))
	sb.WriteString("\n")
	writeBranches(&sb, g, item, "", 1)
	return sb.String()
}

func writeBranches(sb *strings.Builder, g Graph, item *catalog.Item, prefix string, depth int) {
	if depth > catalog.MaxDepth {
		return
	}

	reqs := g.Required(item)
	for i, req := range reqs {
		branch, next := "├── ", "│   "
		if i == len(reqs)-1 {
			branch, next = "└── ", "    "
		}
		sb.WriteString(prefix + branch + treeLabel(g, req) + "\n")
		writeBranches(sb, g, req, prefix+next, depth+1)
	}
}

func treeLabel(g Graph, item *catalog.Item) string {
	total := g.TotalCost(item)
	if total == item.Cost() {
		return fmt.Sprintf("%s (%.0f)", Title(item.Name), total)
	}
	return fmt.Sprintf("%s (%.0f, total %.0f)", Title(item.Name), item.Cost(), total)
}
