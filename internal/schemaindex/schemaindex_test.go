package schemaindex

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mesh-intelligence/notional/pkg/types"
)

const collectionID = "coll-1"

func queryWithSchema(raw types.RawSchema) *types.CollectionQuery {
	q := &types.CollectionQuery{}
	q.RecordMap.Collection = map[string]types.CollectionRecord{
		collectionID: {Value: types.CollectionValue{ID: collectionID, Schema: raw}},
	}
	return q
}

func TestLoadMemoizes(t *testing.T) {
	calls := 0
	query := func(ctx context.Context) (*types.CollectionQuery, error) {
		calls++
		return queryWithSchema(types.RawSchema{
			"title": {Name: "Name", Type: types.ColumnText},
		}), nil
	}
	ix := New(query, collectionID)

	first, err := ix.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := ix.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() second call error = %v", err)
	}

	if calls != 1 {
		t.Errorf("query called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("memoized schema differs: %v vs %v", first, second)
	}
}

func TestLoadPropagatesQueryError(t *testing.T) {
	wantErr := errors.New("backend down")
	ix := New(func(ctx context.Context) (*types.CollectionQuery, error) {
		return nil, wantErr
	}, collectionID)

	if _, err := ix.Load(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Load() error = %v, want %v", err, wantErr)
	}
}

func TestResolve(t *testing.T) {
	ix := New(func(ctx context.Context) (*types.CollectionQuery, error) {
		return queryWithSchema(types.RawSchema{
			"title": {Name: "Name", Type: types.ColumnText},
			"abcd":  {Name: "Done", Type: types.ColumnCheckbox},
		}), nil
	}, collectionID)

	entry, err := ix.Resolve(context.Background(), "Done")
	if err != nil {
		t.Fatalf("Resolve(Done) error = %v", err)
	}
	if entry.ID != "abcd" || entry.Type != types.ColumnCheckbox {
		t.Errorf("Resolve(Done) = %+v, want {abcd checkbox}", entry)
	}

	if _, err := ix.Resolve(context.Background(), "Missing"); !errors.Is(err, types.ErrUnknownColumn) {
		t.Errorf("Resolve(Missing) error = %v, want %v", err, types.ErrUnknownColumn)
	}
}

func TestFromRawExcludesHiddenColumns(t *testing.T) {
	schema := FromRaw(types.RawSchema{
		"title":  {Name: "Name", Type: types.ColumnText},
		"hidden": {Name: "", Type: types.ColumnText},
		"tags":   {Name: "Tags", Type: types.ColumnMultiSelect},
	})

	want := types.Schema{
		"Name": {ID: "title", Type: types.ColumnText},
		"Tags": {ID: "tags", Type: types.ColumnMultiSelect},
	}
	if !reflect.DeepEqual(schema, want) {
		t.Errorf("FromRaw() = %v, want %v", schema, want)
	}
}
