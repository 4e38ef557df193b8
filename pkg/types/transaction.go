package types

// Operation targets on the backend.
const (
	TableBlock          = "block"
	TableCollection     = "collection"
	TableCollectionView = "collection_view"
)

// Operation commands.
const (
	CommandSet       = "set"
	CommandUpdate    = "update"
	CommandListAfter = "listAfter"
)

// Operation is a single field-level mutation of one record.
type Operation struct {
	ID      string   `json:"id"`
	Table   string   `json:"table"`
	Path    []string `json:"path"`
	Command string   `json:"command"`
	Args    any      `json:"args"`
}

// Transaction is an ordered group of operations applied atomically.
type Transaction struct {
	ID         string      `json:"id"`
	Operations []Operation `json:"operations"`
}
