package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-loadout/internal/catalog"
	"github.com/pixil98/go-loadout/internal/storage"
)

type StorageConfig struct {
	Items  AssetConfig[*catalog.Item]  `json:"items"`
	Curves AssetConfig[*catalog.Curve] `json:"curves"`
}

// BuildCatalog loads every item, and curves when configured, and links them.
func (c *StorageConfig) BuildCatalog() (*catalog.Catalog, error) {
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}

	var curves storage.Storer[*catalog.Curve]
	if c.Curves.Path != "" {
		store, err := c.Curves.BuildFileStore()
		if err != nil {
			return nil, fmt.Errorf("creating curve store: %w", err)
		}
		curves = store
	}

	cat, err := catalog.New(items, curves)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return cat, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Items.Validate("items"))
	if c.Curves.Path != "" {
		el.Add(c.Curves.Validate("curves"))
	}
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
