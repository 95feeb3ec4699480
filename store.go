package surgdb

import "context"

// Record is one stored document with its storage identity.
type Record struct {
	ID  string
	Doc map[string]any
}

// RecordStore is the document-oriented storage collaborator the backfill
// migrator runs against. Implementations must return ScanBatch results in a
// stable ID order so a run can resume from the last seen ID after a crash;
// re-scanning already-processed records is always safe because the migrator
// is idempotent.
//
// sqlitestore provides the reference implementation.
type RecordStore interface {
	// ScanBatch returns up to limit records with ID greater than afterID,
	// in ascending ID order. An empty batch ends the scan.
	ScanBatch(ctx context.Context, afterID string, limit int) ([]Record, error)

	// UpdateDocument replaces the stored document for id.
	UpdateDocument(ctx context.Context, id string, doc map[string]any) error
}
