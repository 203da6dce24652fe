package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func writeItems(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestRun(t *testing.T) {
	dir := writeItems(t, map[string]string{
		"dagger.json": `{"version":1,"id":"dagger","spec":{"name":"dagger","price":{"flat":300}}}`,
		"blade.json":  `{"version":1,"id":"blade","spec":{"name":"long blade","price":{"flat":400},"required_items":["dagger"]}}`,
	})

	tests := map[string]struct {
		args   []string
		exp    string
		expErr string
	}{
		"listing with trees": {
			args: []string{"-items", dir, "-template", "{{ .Key }} {{ .TotalCost }}"},
			exp: "2 items\n\n" +
				"dagger 300\n" +
				"blade 700\n" +
				"\nLong Blade (400, total 700)\n" +
				"└── Dagger (300)\n",
		},
		"single tree": {
			args: []string{"-items", dir, "-item", "dagger"},
			exp:  "Dagger (300)\n",
		},
		"unknown item": {
			args:   []string{"-items", dir, "-item", "sword"},
			expErr: "item unresolved",
		},
		"items required": {
			args:   []string{},
			expErr: "-items is required",
		},
		"bad directory": {
			args:   []string{"-items", "/nonexistent/items"},
			expErr: "loading items",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out strings.Builder
			err := run(tt.args, &out)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "output", out.String(), tt.exp)
		})
	}
}

func TestRun_InvalidCatalog(t *testing.T) {
	dir := writeItems(t, map[string]string{
		"a.json": `{"version":1,"id":"a","spec":{"name":"A","price":{"flat":1},"required_items":["b"]}}`,
		"b.json": `{"version":1,"id":"b","spec":{"name":"B","price":{"flat":1},"required_items":["a"]}}`,
	})

	err := run([]string{"-items", dir}, &strings.Builder{})
	testutil.AssertErrorContains(t, err, "a -> b -> a")
}
