package sheets

import (
	"context"

	"fitlog/internal/core"
)

// Ports for outbound adapters.
type (
	// CellReader returns the value stored at addr, or "" when the cell is empty.
	CellReader interface {
		Get(ctx context.Context, addr core.CellAddress) (string, error)
	}

	CellWriter interface {
		Set(ctx context.Context, addr core.CellAddress, value string) error
	}

	// CellStore is the key-value view of the tracking sheet the reconciler needs.
	CellStore interface {
		CellReader
		CellWriter
	}
)
