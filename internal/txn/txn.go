// Package txn assembles and submits ordered operation batches for row
// inserts, updates, soft deletes, and schema replacement.
//
// Submission is fire and forget: the builder returns whatever the transport
// returns and performs no retry or verification of application.
package txn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/notional/internal/codec"
	"github.com/mesh-intelligence/notional/pkg/types"
)

// Submitter is the transaction-submission capability the builder writes
// through.
type Submitter interface {
	SubmitTransaction(ctx context.Context, requestID string, transactions []types.Transaction) (json.RawMessage, error)
}

// ColumnValue is one field of a row write, resolved to its internal column
// id and type.
type ColumnValue struct {
	ID    string
	Type  types.ColumnType
	Value any
}

// RowUpdate is one row's worth of property writes, targeting an existing
// block.
type RowUpdate struct {
	BlockID string
	Values  []ColumnValue
}

// Builder constructs operation batches against one table.
type Builder struct {
	submitter Submitter
	userID    string
	keys      types.TableKeySet

	// Overridable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// New returns a Builder for the given table. keys may be zero-valued when
// the builder only ever updates blocks by id (the single-block handle does
// this).
func New(submitter Submitter, userID string, keys types.TableKeySet) *Builder {
	return &Builder{
		submitter: submitter,
		userID:    userID,
		keys:      keys,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Args payloads for the block lifecycle operations.

type blockStub struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Version int    `json:"version"`
}

type parentArgs struct {
	ParentID    string `json:"parent_id"`
	ParentTable string `json:"parent_table"`
	Alive       bool   `json:"alive"`
}

type listAfterArgs struct {
	ID string `json:"id"`
}

type schemaArgs struct {
	Schema types.RawSchema `json:"schema"`
}

// Insert creates one block per row and writes its properties. The batch
// opens with a single transaction establishing every new block's lifecycle,
// in fixed order per block: the block stub, the view's page-sort append,
// the parent linkage marking it alive, then the created/last-edited
// bookkeeping stamps. One further transaction per row carries its encoded
// property writes, so the lifecycle lands before or with every property.
func (b *Builder) Insert(ctx context.Context, rows [][]ColumnValue) (json.RawMessage, error) {
	now := b.now().UnixMilli()

	blockIDs := make([]string, len(rows))
	for i := range rows {
		blockIDs[i] = b.newID()
	}

	lifecycle := types.Transaction{ID: b.newID()}
	for _, blockID := range blockIDs {
		lifecycle.Operations = append(lifecycle.Operations,
			types.Operation{
				ID:      blockID,
				Table:   types.TableBlock,
				Path:    []string{},
				Command: types.CommandSet,
				Args:    blockStub{Type: "page", ID: blockID, Version: 1},
			},
			types.Operation{
				ID:      b.keys.CollectionViewID,
				Table:   types.TableCollectionView,
				Path:    []string{"page_sort"},
				Command: types.CommandListAfter,
				Args:    listAfterArgs{ID: blockID},
			},
			types.Operation{
				ID:      blockID,
				Table:   types.TableBlock,
				Path:    []string{},
				Command: types.CommandUpdate,
				Args:    parentArgs{ParentID: b.keys.CollectionID, ParentTable: types.TableCollection, Alive: true},
			},
			b.setOp(blockID, "created_by_id", b.userID),
			b.setOp(blockID, "created_by_table", "notion_user"),
			b.setOp(blockID, "created_time", now),
			b.setOp(blockID, "last_edited_time", now),
			b.setOp(blockID, "last_edited_by_id", b.userID),
			b.setOp(blockID, "last_edited_by_table", "notion_user"),
		)
	}

	transactions := []types.Transaction{lifecycle}
	for i, row := range rows {
		tx := types.Transaction{ID: b.newID()}
		ops, err := b.propertyOps(blockIDs[i], row)
		if err != nil {
			return nil, err
		}
		tx.Operations = ops
		transactions = append(transactions, tx)
	}

	return b.submit(ctx, transactions)
}

// Update writes each row's property values followed by its
// last_edited_time stamp, one transaction per row. Property writes always
// precede the stamp for the same block.
func (b *Builder) Update(ctx context.Context, rows []RowUpdate) (json.RawMessage, error) {
	now := b.now().UnixMilli()

	transactions := make([]types.Transaction, 0, len(rows))
	for _, row := range rows {
		ops, err := b.propertyOps(row.BlockID, row.Values)
		if err != nil {
			return nil, err
		}
		ops = append(ops, b.setOp(row.BlockID, "last_edited_time", now))
		transactions = append(transactions, types.Transaction{ID: b.newID(), Operations: ops})
	}

	return b.submit(ctx, transactions)
}

// Delete soft-deletes each block: alive becomes false while the parent
// linkage is preserved, then the last_edited_time stamp lands. One
// transaction per block.
func (b *Builder) Delete(ctx context.Context, blockIDs []string) (json.RawMessage, error) {
	now := b.now().UnixMilli()

	transactions := make([]types.Transaction, 0, len(blockIDs))
	for _, blockID := range blockIDs {
		transactions = append(transactions, types.Transaction{
			ID: b.newID(),
			Operations: []types.Operation{
				{
					ID:      blockID,
					Table:   types.TableBlock,
					Path:    []string{},
					Command: types.CommandUpdate,
					Args:    parentArgs{ParentID: b.keys.CollectionID, ParentTable: types.TableCollection, Alive: false},
				},
				b.setOp(blockID, "last_edited_time", now),
			},
		})
	}

	return b.submit(ctx, transactions)
}

// SetSchema overwrites the collection's entire schema object in a single
// transaction. Escape hatch only; the row paths never call it.
func (b *Builder) SetSchema(ctx context.Context, schema types.RawSchema) (json.RawMessage, error) {
	transactions := []types.Transaction{{
		ID: b.newID(),
		Operations: []types.Operation{{
			ID:      b.keys.CollectionID,
			Table:   types.TableCollection,
			Path:    []string{},
			Command: types.CommandUpdate,
			Args:    schemaArgs{Schema: schema},
		}},
	}}

	return b.submit(ctx, transactions)
}

// propertyOps encodes one row's column values into property-set operations.
func (b *Builder) propertyOps(blockID string, values []ColumnValue) ([]types.Operation, error) {
	ops := make([]types.Operation, 0, len(values))
	for _, cv := range values {
		args, err := codec.Encode(cv.Type, cv.Value)
		if err != nil {
			return nil, fmt.Errorf("encode column %s: %w", cv.ID, err)
		}
		ops = append(ops, types.Operation{
			ID:      blockID,
			Table:   types.TableBlock,
			Path:    []string{"properties", cv.ID},
			Command: types.CommandSet,
			Args:    args,
		})
	}
	return ops, nil
}

func (b *Builder) setOp(blockID, field string, args any) types.Operation {
	return types.Operation{
		ID:      blockID,
		Table:   types.TableBlock,
		Path:    []string{field},
		Command: types.CommandSet,
		Args:    args,
	}
}

func (b *Builder) submit(ctx context.Context, transactions []types.Transaction) (json.RawMessage, error) {
	return b.submitter.SubmitTransaction(ctx, b.newID(), transactions)
}
