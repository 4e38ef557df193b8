package notional

import (
	"context"
	"encoding/json"

	"github.com/mesh-intelligence/notional/internal/txn"
	"github.com/mesh-intelligence/notional/pkg/types"
)

// Block is a handle on a single content block, outside any table.
type Block struct {
	id      string
	builder *txn.Builder
}

func newBlock(submitter txn.Submitter, blockID, userID string) *Block {
	return &Block{
		id: blockID,
		// No table keys: block writes target the block id alone.
		builder: txn.New(submitter, userID, types.TableKeySet{}),
	}
}

// ID returns the block's id.
func (b *Block) ID() string {
	return b.id
}

// Update replaces the block's title with content, written pre-formatted:
// the text passes through verbatim, newlines included.
func (b *Block) Update(ctx context.Context, content string) (json.RawMessage, error) {
	return b.builder.Update(ctx, []txn.RowUpdate{{
		BlockID: b.id,
		Values: []txn.ColumnValue{
			{ID: "title", Type: types.ColumnText, Value: content},
		},
	}})
}
