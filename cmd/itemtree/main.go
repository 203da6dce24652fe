// Command itemtree validates an item asset directory and prints the shop
// listing and build trees.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/display"
	"github.com/pixil98/go-loadout/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "itemtree: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("itemtree", flag.ContinueOnError)
	fs.SetOutput(out)
	itemsDir := fs.String("items", "", "directory of item assets (required)")
	curvesDir := fs.String("curves", "", "directory of curve assets")
	only := fs.String("item", "", "print the build tree of this item only")
	rowTemplate := fs.String("template", "", "row template for the listing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *itemsDir == "" {
		return errors.New("-items is required")
	}

	cat, err := loadCatalog(*itemsDir, *curvesDir)
	if err != nil {
		return err
	}

	if *only != "" {
		item, err := cat.Get(storage.Identifier(*only))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, display.BuildTree(cat, item))
		return err
	}

	listing, err := display.Listing(cat, *rowTemplate)
	if err != nil {
		return fmt.Errorf("rendering listing: %w", err)
	}
	fmt.Fprintf(out, "%d items\n\n%s", cat.Len(), listing)

	for _, item := range cat.Items() {
		if len(cat.Required(item)) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s", display.BuildTree(cat, item))
	}
	return nil
}

func loadCatalog(itemsDir, curvesDir string) (*catalog.Catalog, error) {
	items, err := storage.NewFileStore[*catalog.Item](itemsDir)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	var curves storage.Storer[*catalog.Curve]
	if curvesDir != "" {
		store, err := storage.NewFileStore[*catalog.Curve](curvesDir)
		if err != nil {
			return nil, fmt.Errorf("loading curves: %w", err)
		}
		curves = store
	}

	return catalog.New(items, curves)
}
