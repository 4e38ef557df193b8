package types

// RawColumn is one entry of a collection's raw schema, keyed by internal
// column id. Hidden or internal columns have an empty name.
type RawColumn struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// RawSchema is the collection schema as the backend stores it: a mapping
// from internal column id to column definition.
type RawSchema map[string]RawColumn

// SchemaEntry describes one visible column of a table, resolved by display
// name.
type SchemaEntry struct {
	ID   string     `json:"id"`
	Type ColumnType `json:"type"`
}

// Schema maps a column's display name to its internal id and type. Entries
// with no display name are excluded; they represent hidden columns.
type Schema map[string]SchemaEntry

// TableKeySet identifies one table view: the backing collection and the
// view whose ordering new rows are appended to. Immutable once resolved.
type TableKeySet struct {
	CollectionID     string `json:"collection_id"`
	CollectionViewID string `json:"collection_view_id"`
}
