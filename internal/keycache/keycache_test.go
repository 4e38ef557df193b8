package keycache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mesh-intelligence/notional/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenCreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := Open(dataDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := os.Stat(filepath.Join(dataDir, fileName)); err != nil {
		t.Errorf("cache database missing: %v", err)
	}
}

func TestGetMissingEntry(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get("https://www.notion.so/acme/page")
	if !errors.Is(err, types.ErrKeyNotCached) {
		t.Errorf("Get() error = %v, want %v", err, types.ErrKeyNotCached)
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	keys := types.TableKeySet{CollectionID: "coll-1", CollectionViewID: "view-1"}
	if err := store.Put("url-1", keys); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get("url-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != keys {
		t.Errorf("Get() = %+v, want %+v", got, keys)
	}
}

func TestPutReplaces(t *testing.T) {
	store := openTestStore(t)

	if err := store.Put("url-1", types.TableKeySet{CollectionID: "old", CollectionViewID: "old-view"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	replacement := types.TableKeySet{CollectionID: "new", CollectionViewID: "new-view"}
	if err := store.Put("url-1", replacement); err != nil {
		t.Fatalf("Put() replacement error = %v", err)
	}

	got, err := store.Get("url-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != replacement {
		t.Errorf("Get() = %+v, want the replacement %+v", got, replacement)
	}
}

func TestAll(t *testing.T) {
	store := openTestStore(t)

	want := map[string]types.TableKeySet{
		"url-1": {CollectionID: "c1", CollectionViewID: "v1"},
		"url-2": {CollectionID: "c2", CollectionViewID: "v2"},
	}
	for url, keys := range want {
		if err := store.Put(url, keys); err != nil {
			t.Fatalf("Put(%s) error = %v", url, err)
		}
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("All() = %v, want %v", all, want)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dataDir := t.TempDir()

	store, err := Open(dataDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	keys := types.TableKeySet{CollectionID: "c1", CollectionViewID: "v1"}
	if err := store.Put("url-1", keys); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dataDir)
	if err != nil {
		t.Fatalf("Open() after close error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get("url-1")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got != keys {
		t.Errorf("Get() after reopen = %+v, want %+v", got, keys)
	}
}
