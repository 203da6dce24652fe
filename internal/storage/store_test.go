package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockStoreSpec implements ValidatingSpec for testing FileStore
type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, dir string, id Identifier, spec *mockStoreSpec) {
	t.Helper()

	data, err := json.Marshal(Asset[*mockStoreSpec]{
		Version:    1,
		Identifier: id,
		Spec:       spec,
	})
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	err = os.WriteFile(filepath.Join(dir, string(id)+".json"), data, 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_WithExistingAssets(t *testing.T) {
	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "item-1", &mockStoreSpec{Name: "First", Value: 1})
	writeAsset(t, tmpDir, "item-2", &mockStoreSpec{Name: "Second", Value: 2})

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.LoadAll()), 2)

	item1 := store.Get("item-1")
	if item1 == nil {
		t.Fatal("expected item-1 to be loaded")
	}
	testutil.AssertEqual(t, "item-1 name", item1.Name, "First")
	testutil.AssertEqual(t, "item-1 value", item1.Value, 1)
}

func TestNewFileStore_Errors(t *testing.T) {
	tests := map[string]struct {
		files  map[string]string
		expErr string
	}{
		"invalid json": {
			files:  map[string]string{"bad.json": `{"version": 1, "id":`},
			expErr: "unmarshalling asset",
		},
		"version missing": {
			files:  map[string]string{"test.json": `{"id": "test", "spec": {"name": "Test"}}`},
			expErr: "version must be set",
		},
		"spec missing": {
			files:  map[string]string{"test.json": `{"version": 1, "id": "test"}`},
			expErr: "spec must be set",
		},
		"duplicate key": {
			files: map[string]string{
				"file1.json": `{"version": 1, "id": "dup", "spec": {}}`,
				"file2.json": `{"version": 1, "id": "dup", "spec": {}}`,
			},
			expErr: "duplicate key detected: dup",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for file, content := range tt.files {
				err := os.WriteFile(filepath.Join(tmpDir, file), []byte(content), 0644)
				if err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			_, err := NewFileStore[*mockStoreSpec](tmpDir)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewFileStore_IgnoresNonJSONFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "valid", &mockStoreSpec{Name: "Valid", Value: 1})

	err := os.WriteFile(filepath.Join(tmpDir, "readme.txt"), []byte("ignore me"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	err = os.WriteFile(filepath.Join(tmpDir, "data.yaml"), []byte("ignore: me"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 1)
}

func TestNewFileStore_WalksSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "boots")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	writeAsset(t, tmpDir, "top", &mockStoreSpec{Name: "Top"})
	writeAsset(t, subDir, "nested", &mockStoreSpec{Name: "Nested"})

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 2)
	testutil.AssertEqual(t, "nested name", store.Get("nested").Name, "Nested")
}

func TestFileStore_Get(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[Identifier]*mockStoreSpec{
		"existing": {Name: "Test", Value: 42},
	}

	tests := map[string]struct {
		id       Identifier
		expNil   bool
		expName  string
		expValue int
	}{
		"get existing record": {
			id:       "existing",
			expName:  "Test",
			expValue: 42,
		},
		"get non-existing record": {
			id:     "nonexistent",
			expNil: true,
		},
		"get empty id": {
			id:     "",
			expNil: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := store.Get(tt.id)

			if tt.expNil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
				return
			}

			if result == nil {
				t.Fatalf("expected non-nil result")
			}
			testutil.AssertEqual(t, "name", result.Name, tt.expName)
			testutil.AssertEqual(t, "value", result.Value, tt.expValue)
		})
	}
}

func TestFileStore_GetAll_ReturnsCopy(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[Identifier]*mockStoreSpec{
		"one": {Name: "One", Value: 1},
		"two": {Name: "Two", Value: 2},
	}

	result := store.GetAll()
	testutil.AssertEqual(t, "count", len(result), 2)

	delete(result, "one")
	testutil.AssertEqual(t, "store count", len(store.records), 2)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(map[Identifier]*mockStoreSpec{
		"one": {Name: "One"},
	})

	testutil.AssertEqual(t, "name", store.Get("one").Name, "One")
	if store.Get("two") != nil {
		t.Errorf("expected nil for unknown id")
	}

	all := store.GetAll()
	delete(all, "one")
	testutil.AssertEqual(t, "count after delete on copy", len(store.GetAll()), 1)

	empty := NewMemoryStore[*mockStoreSpec](nil)
	testutil.AssertEqual(t, "empty count", len(empty.GetAll()), 0)
}
