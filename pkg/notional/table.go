package notional

import (
	"context"
	"encoding/json"
	"log/slog"
	"reflect"
	"sort"

	"github.com/mesh-intelligence/notional/internal/codec"
	"github.com/mesh-intelligence/notional/internal/schemaindex"
	"github.com/mesh-intelligence/notional/internal/txn"
	"github.com/mesh-intelligence/notional/internal/userdir"
	"github.com/mesh-intelligence/notional/pkg/types"
)

// Backend is the transport capability a table consumes.
type Backend interface {
	QueryCollection(ctx context.Context, keys types.TableKeySet) (*types.CollectionQuery, error)
	SubmitTransaction(ctx context.Context, requestID string, transactions []types.Transaction) (json.RawMessage, error)
	LoadUserContent(ctx context.Context) (map[string]types.SpaceRecord, error)
	SyncRecordValues(ctx context.Context, userIDs []string) (map[string]types.UserRecord, error)
}

// Row is a decoded table row: display name → application value, plus a
// synthetic "id" key carrying the row's block id.
type Row map[string]any

// Predicate gates a row on its decoded value for one column.
type Predicate func(value any) bool

// Filters selects rows. Every entry must match: a plain value by deep
// equality against the decoded column value, a Predicate by returning
// true. An empty filter set matches every row.
type Filters map[string]any

// Table is a handle on one resolved table. A Table owns private cache
// state (schema, users, query snapshot) and is not safe for concurrent use
// from multiple call sites.
type Table struct {
	keys    types.TableKeySet
	backend Backend
	userID  string
	logger  *slog.Logger

	builder *txn.Builder
	schema  *schemaindex.Index
	users   *userdir.Directory

	// Request-scoped query snapshot, held only across a read-then-write
	// sequence. See withSnapshot.
	queryCaching bool
	cachedQuery  *types.CollectionQuery
}

// NewTable returns a handle on the table identified by keys. A nil logger
// means slog.Default().
func NewTable(backend Backend, keys types.TableKeySet, userID string, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Table{
		keys:    keys,
		backend: backend,
		userID:  userID,
		logger:  logger,
		builder: txn.New(backend, userID, keys),
		users:   userdir.New(backend),
	}
	t.schema = schemaindex.New(t.queryCollection, keys.CollectionID)
	return t
}

// Keys returns the table's key set.
func (t *Table) Keys() types.TableKeySet {
	return t.keys
}

// queryCollection fetches one page of the table's view, or returns the
// held snapshot while one is active.
func (t *Table) queryCollection(ctx context.Context) (*types.CollectionQuery, error) {
	if t.queryCaching && t.cachedQuery != nil {
		return t.cachedQuery, nil
	}

	q, err := t.backend.QueryCollection(ctx, t.keys)
	if err != nil {
		return nil, err
	}
	if t.queryCaching {
		t.cachedQuery = q
	}
	return q, nil
}

// withSnapshot runs body with query caching enabled so a read-then-write
// sequence sees one consistent response. The snapshot is discarded on
// every exit path, errors included, so it cannot leak into a later read.
func (t *Table) withSnapshot(body func() error) error {
	t.queryCaching = true
	defer func() {
		t.queryCaching = false
		t.cachedQuery = nil
	}()
	return body()
}

// Schema returns the display-name schema, fetched once and memoized for
// the lifetime of the handle.
func (t *Table) Schema(ctx context.Context) (types.Schema, error) {
	return t.schema.Load(ctx)
}

// Users returns the workspace member list, fetched once and memoized.
func (t *Table) Users(ctx context.Context) ([]types.User, error) {
	return t.users.List(ctx)
}

// GetRows fetches the table's rows, decodes them, and returns those
// matching filters.
func (t *Table) GetRows(ctx context.Context, filters Filters) ([]Row, error) {
	q, err := t.queryCollection(ctx)
	if err != nil {
		return nil, err
	}
	schema := schemaindex.FromQuery(q, t.keys.CollectionID)

	rows := make([]Row, 0, len(q.Result.BlockIDs))
	for _, blockID := range q.Result.BlockIDs {
		block, ok := q.RecordMap.Block[blockID]
		if !ok {
			continue
		}
		row := decodeRow(block.Value, schema)
		if matchRow(row, filters) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// InsertRows creates one new row per entry. Field names not present in the
// schema are dropped with a warning; the remaining fields still insert.
func (t *Table) InsertRows(ctx context.Context, rows []map[string]any) (json.RawMessage, error) {
	schema, err := t.schema.Load(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([][]txn.ColumnValue, 0, len(rows))
	for _, row := range rows {
		values := make([]txn.ColumnValue, 0, len(row))
		for _, name := range sortedKeys(row) {
			entry, ok := schema[name]
			if !ok {
				t.logger.Warn("unrecognised column, ignoring", "column", name)
				continue
			}
			values = append(values, txn.ColumnValue{ID: entry.ID, Type: entry.Type, Value: row[name]})
		}
		entries = append(entries, values)
	}

	return t.builder.Insert(ctx, entries)
}

// UpdateRows applies data to every row matching filters, using one
// consistent snapshot for the read and the write. Rows for which data
// supplies no column are excluded entirely; when nothing matches, no
// submission happens and the result is empty.
func (t *Table) UpdateRows(ctx context.Context, data map[string]any, filters Filters) (json.RawMessage, error) {
	var result json.RawMessage
	err := t.withSnapshot(func() error {
		rows, err := t.filteredRowData(ctx, filters, data)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		result, err = t.builder.Update(ctx, rows)
		return err
	})
	return result, err
}

// DeleteRows soft-deletes every row matching filters. When nothing
// matches, no submission happens.
func (t *Table) DeleteRows(ctx context.Context, filters Filters) (json.RawMessage, error) {
	var result json.RawMessage
	err := t.withSnapshot(func() error {
		rows, err := t.filteredRowData(ctx, filters, nil)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		blockIDs := make([]string, len(rows))
		for i, row := range rows {
			blockIDs[i] = row.BlockID
		}
		result, err = t.builder.Delete(ctx, blockIDs)
		return err
	})
	return result, err
}

// SetSchema atomically replaces the collection's entire schema. Escape
// hatch; the row operations never touch the schema.
func (t *Table) SetSchema(ctx context.Context, schema types.RawSchema) (json.RawMessage, error) {
	return t.builder.SetSchema(ctx, schema)
}

// Where returns a view of the table bound to filters.
func (t *Table) Where(filters Filters) *View {
	return &View{table: t, filters: filters}
}

// View is a table scoped to a fixed filter set.
type View struct {
	table   *Table
	filters Filters
}

// Get returns the matching rows.
func (v *View) Get(ctx context.Context) ([]Row, error) {
	return v.table.GetRows(ctx, v.filters)
}

// Update applies data to the matching rows.
func (v *View) Update(ctx context.Context, data map[string]any) (json.RawMessage, error) {
	return v.table.UpdateRows(ctx, data, v.filters)
}

// Delete soft-deletes the matching rows.
func (v *View) Delete(ctx context.Context) (json.RawMessage, error) {
	return v.table.DeleteRows(ctx, v.filters)
}

// filteredRowData decodes the current query page and returns, for each row
// matching filters, the column values a row-level write needs: the value
// from data when supplied (user references resolved to ids), the row's
// existing decoded value otherwise. When data is non-nil, rows it supplies
// no column for are dropped.
func (t *Table) filteredRowData(ctx context.Context, filters Filters, data map[string]any) ([]txn.RowUpdate, error) {
	q, err := t.queryCollection(ctx)
	if err != nil {
		return nil, err
	}
	schema := schemaindex.FromQuery(q, t.keys.CollectionID)
	names := sortedNames(schema)

	var rows []txn.RowUpdate
	for _, blockID := range q.Result.BlockIDs {
		block, ok := q.RecordMap.Block[blockID]
		if !ok {
			continue
		}
		decoded := decodeRow(block.Value, schema)
		if !matchRow(decoded, filters) {
			continue
		}

		supplied := false
		values := make([]txn.ColumnValue, 0, len(names))
		for _, name := range names {
			entry := schema[name]

			if newValue, ok := data[name]; ok {
				if entry.Type == types.ColumnUser || entry.Type == types.ColumnPerson {
					newValue = t.resolveUserValue(newValue)
				}
				supplied = true
				values = append(values, txn.ColumnValue{ID: entry.ID, Type: entry.Type, Value: newValue})
				continue
			}

			// Carry the existing value. Bookkeeping columns live outside
			// the property bag and columns still at their type default
			// have nothing to write back.
			if codec.MetadataSourced(entry.Type) || reflect.DeepEqual(decoded[name], types.DefaultValue(entry.Type)) {
				continue
			}
			values = append(values, txn.ColumnValue{ID: entry.ID, Type: entry.Type, Value: decoded[name]})
		}

		if data != nil && !supplied {
			continue
		}
		rows = append(rows, txn.RowUpdate{BlockID: block.Value.ID, Values: values})
	}
	return rows, nil
}

// resolveUserValue maps user references in a write payload to internal
// ids via the cached directory; unresolved references pass through.
func (t *Table) resolveUserValue(value any) any {
	switch v := value.(type) {
	case string:
		return t.users.ResolveID(v)
	case []string:
		resolved := make([]string, len(v))
		for i, s := range v {
			resolved[i] = t.users.ResolveID(s)
		}
		return resolved
	default:
		return value
	}
}

// decodeRow decodes one block's properties through the schema, attaching
// the synthetic id.
func decodeRow(block types.BlockValue, schema types.Schema) Row {
	meta := codec.RowMeta{
		CreatedByID:    block.CreatedByID,
		LastEditedByID: block.LastEditedByID,
		CreatedTime:    block.CreatedTime,
		LastEditedTime: block.LastEditedTime,
	}

	row := make(Row, len(schema)+1)
	for name, entry := range schema {
		row[name] = codec.Decode(entry.Type, block.Properties[entry.ID], meta)
	}
	row["id"] = block.ID
	return row
}

// matchRow reports whether row satisfies every filter entry. Keys absent
// from the row are ignored; equality on slices is structural.
func matchRow(row Row, filters Filters) bool {
	for name, want := range filters {
		got, ok := row[name]
		if !ok {
			continue
		}
		switch pred := want.(type) {
		case Predicate:
			if !pred(got) {
				return false
			}
		case func(any) bool:
			if !pred(got) {
				return false
			}
		default:
			if !reflect.DeepEqual(want, got) {
				return false
			}
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNames(schema types.Schema) []string {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
