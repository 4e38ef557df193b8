// Package schemaindex derives and caches the display-name view of a
// collection's raw schema.
package schemaindex

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// QueryFunc fetches the collection query the schema is read from. The
// table handle supplies its own (possibly snapshot-cached) query here so
// schema loads and row reads see the same data.
type QueryFunc func(ctx context.Context) (*types.CollectionQuery, error)

// Index memoizes a table's schema for the lifetime of the table handle.
// Like the table it belongs to, an Index is not safe for concurrent use
// from multiple call sites.
type Index struct {
	query        QueryFunc
	collectionID string
	schema       types.Schema
}

// New returns an Index over the given collection.
func New(query QueryFunc, collectionID string) *Index {
	return &Index{query: query, collectionID: collectionID}
}

// Load fetches the schema on first call and returns the memoized value
// afterwards without re-fetching.
func (ix *Index) Load(ctx context.Context) (types.Schema, error) {
	if ix.schema != nil {
		return ix.schema, nil
	}

	q, err := ix.query(ctx)
	if err != nil {
		return nil, err
	}

	ix.schema = FromQuery(q, ix.collectionID)
	return ix.schema, nil
}

// Resolve maps a display name to its schema entry. Unknown names fail with
// types.ErrUnknownColumn; write paths treat that as a per-field skip.
func (ix *Index) Resolve(ctx context.Context, displayName string) (types.SchemaEntry, error) {
	schema, err := ix.Load(ctx)
	if err != nil {
		return types.SchemaEntry{}, err
	}

	entry, ok := schema[displayName]
	if !ok {
		return types.SchemaEntry{}, fmt.Errorf("%w: %q", types.ErrUnknownColumn, displayName)
	}
	return entry, nil
}

// FromQuery builds the display-name schema from a query response. Raw
// entries without a name are hidden columns and are excluded.
func FromQuery(q *types.CollectionQuery, collectionID string) types.Schema {
	return FromRaw(q.RecordMap.Collection[collectionID].Value.Schema)
}

// FromRaw builds the display-name schema from a raw collection schema.
func FromRaw(raw types.RawSchema) types.Schema {
	schema := make(types.Schema, len(raw))
	for id, col := range raw {
		if col.Name == "" {
			continue
		}
		schema[col.Name] = types.SchemaEntry{ID: id, Type: col.Type}
	}
	return schema
}
