package sheets

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound mirror adapters.
type (
	EntryWriter interface {
		// AppendEntry writes e as the next mirror row.
		AppendEntry(ctx context.Context, e core.Entry) (rowRef string, err error)
	}

	// MirrorCounter reports how many entries a mirror already holds.
	MirrorCounter interface {
		MirroredCount(ctx context.Context) (int, error)
	}

	Mirror interface {
		EntryWriter
		MirrorCounter
	}
)
