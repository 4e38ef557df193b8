// Package integration exercises the full client against an in-process fake
// of the backend API: URL resolution, row lifecycle, schema and user reads,
// and the CLI binary.
package integration

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// testPageID is the undashed page id used in every test URL.
const testPageID = "03a3b3e2f0f14e9185a0a08ab4c3a230"

const (
	testCollectionID = "11111111-1111-1111-1111-111111111111"
	testViewID       = "22222222-2222-2222-2222-222222222222"
)

// fakeBlock is one block record held by the fake backend.
type fakeBlock struct {
	alive      bool
	properties map[string]json.RawMessage
	fields     map[string]json.RawMessage
}

// fakeNotion is a stateful in-memory stand-in for the backend API. It
// serves one page holding one table and applies submitted transactions to
// its record store, so a read after a write observes the write.
type fakeNotion struct {
	mu     sync.Mutex
	schema types.RawSchema
	order  []string
	blocks map[string]*fakeBlock

	spaces map[string]types.SpaceRecord
	users  map[string]types.UserRecord
}

func newFakeNotion(schema types.RawSchema) *fakeNotion {
	return &fakeNotion{
		schema: schema,
		blocks: make(map[string]*fakeBlock),
		spaces: map[string]types.SpaceRecord{
			"space-1": {Value: types.SpaceValue{
				ID:          "space-1",
				Permissions: []types.Permission{{Role: "editor", UserID: "user-1"}},
			}},
		},
		users: map[string]types.UserRecord{
			"user-1": {Value: types.UserValue{ID: "user-1", GivenName: "Ada", FamilyName: "Lovelace"}},
		},
	}
}

// start serves the fake over httptest; the server stops with the test.
func (f *fakeNotion) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/queryCollection", f.handleQueryCollection)
	mux.HandleFunc("/submitTransaction", f.handleSubmitTransaction)
	mux.HandleFunc("/loadPageChunk", f.handleLoadPageChunk)
	mux.HandleFunc("/loadUserContent", f.handleLoadUserContent)
	mux.HandleFunc("/syncRecordValues", f.handleSyncRecordValues)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeNotion) block(id string) *fakeBlock {
	b, ok := f.blocks[id]
	if !ok {
		b = &fakeBlock{
			properties: make(map[string]json.RawMessage),
			fields:     make(map[string]json.RawMessage),
		}
		f.blocks[id] = b
	}
	return b
}

func (f *fakeNotion) handleQueryCollection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	blockIDs := []string{}
	blockMap := make(map[string]any)
	for _, id := range f.order {
		b, ok := f.blocks[id]
		if !ok || !b.alive {
			continue
		}
		blockIDs = append(blockIDs, id)

		value := map[string]any{"id": id, "alive": true}
		props := make(map[string]any, len(b.properties))
		for col, raw := range b.properties {
			props[col] = raw
		}
		value["properties"] = props
		for field, raw := range b.fields {
			value[field] = raw
		}
		blockMap[id] = map[string]any{"value": value}
	}

	writeJSON(w, map[string]any{
		"result": map[string]any{"type": "table", "blockIds": blockIDs},
		"recordMap": map[string]any{
			"block": blockMap,
			"collection": map[string]any{
				testCollectionID: map[string]any{
					"value": map[string]any{"id": testCollectionID, "schema": f.schema},
				},
			},
		},
	})
}

// wire shapes of a submitted transaction batch.
type wireOp struct {
	ID      string          `json:"id"`
	Table   string          `json:"table"`
	Path    []string        `json:"path"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
}

type wireTransaction struct {
	ID         string   `json:"id"`
	Operations []wireOp `json:"operations"`
}

func (f *fakeNotion) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequestID    string            `json:"requestId"`
		Transactions []wireTransaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range req.Transactions {
		for _, op := range tx.Operations {
			if err := f.apply(op); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
	}
	writeJSON(w, map[string]any{})
}

// apply mutates the record store with one operation, mirroring the small
// subset of commands the client emits.
func (f *fakeNotion) apply(op wireOp) error {
	switch op.Table {
	case types.TableBlock:
		b := f.block(op.ID)
		switch {
		case op.Command == types.CommandSet && len(op.Path) == 0:
			// Block stub; the record already exists after f.block.
			return nil
		case op.Command == types.CommandSet && len(op.Path) == 2 && op.Path[0] == "properties":
			b.properties[op.Path[1]] = op.Args
			return nil
		case op.Command == types.CommandSet && len(op.Path) == 1:
			b.fields[op.Path[0]] = op.Args
			return nil
		case op.Command == types.CommandUpdate && len(op.Path) == 0:
			var args struct {
				Alive bool `json:"alive"`
			}
			if err := json.Unmarshal(op.Args, &args); err != nil {
				return err
			}
			b.alive = args.Alive
			return nil
		}
	case types.TableCollectionView:
		if op.Command == types.CommandListAfter {
			var args struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(op.Args, &args); err != nil {
				return err
			}
			f.order = append(f.order, args.ID)
			return nil
		}
	case types.TableCollection:
		if op.Command == types.CommandUpdate {
			var args struct {
				Schema types.RawSchema `json:"schema"`
			}
			if err := json.Unmarshal(op.Args, &args); err != nil {
				return err
			}
			f.schema = args.Schema
			return nil
		}
	}
	return errors.New("unsupported operation: " + op.Table + "/" + op.Command)
}

func (f *fakeNotion) handleLoadPageChunk(w http.ResponseWriter, r *http.Request) {
	chunk := types.PageChunk{RecordMap: types.RecordMap{
		Block: map[string]types.BlockRecord{
			"cv-1": {Value: types.BlockValue{
				ID:           "cv-1",
				Type:         types.TableCollectionView,
				CollectionID: testCollectionID,
				ViewIDs:      []string{testViewID},
			}},
		},
	}}
	writeJSON(w, chunk)
}

func (f *fakeNotion) handleLoadUserContent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"recordMap": map[string]any{"space": f.spaces},
	})
}

func (f *fakeNotion) handleSyncRecordValues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"recordMap": map[string]any{"notion_user": f.users},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// taskSchema is the table schema shared by the lifecycle tests.
func taskSchema() types.RawSchema {
	return types.RawSchema{
		"title": {Name: "Name", Type: types.ColumnText},
		"done":  {Name: "Done", Type: types.ColumnCheckbox},
		"tags":  {Name: "Tags", Type: types.ColumnMultiSelect},
		"owner": {Name: "Owner", Type: types.ColumnUser},
	}
}

func testPageURL() string {
	return "https://www.notion.so/acme/" + testPageID
}

// findProjectRoot walks up from the working directory to the module root.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above " + dir)
		}
		dir = parent
	}
}
