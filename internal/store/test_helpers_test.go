package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/roach88/auxdata/internal/auxdata"
	"github.com/roach88/auxdata/internal/catalog"
	"github.com/roach88/auxdata/internal/schema"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestContainer builds a container with two catalogue entries and
// one entry of a schema the registry does not know.
func createTestContainer(t *testing.T, reg *schema.Registry, version string) *auxdata.Container {
	t.Helper()
	c := auxdata.New(reg)
	if err := catalog.Set(c, catalog.ArchInfo, map[string]string{"Arch": "X64"}); err != nil {
		t.Fatalf("set archInfo: %v", err)
	}
	c.SetRaw("functionNames", []byte{0xca, 0xfe})
	if err := catalog.Set(c, catalog.DdisasmVersion, version); err != nil {
		t.Fatalf("set ddisasmVersion: %v", err)
	}
	return c
}

func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}
