package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"fieldmap/internal/fielddef"
)

// LoadCatalog writes the normalized definitions of one object/variant into
// repo in batches of batchSize rows, aligned to CatalogColumns. It returns
// the total number of rows the backend reported inserted and the first error
// encountered. A progress line with running totals and rows/sec is logged
// after each batch.
//
// Cancellation is checked between batches; a canceled context returns the
// partial total with ctx.Err().
func LoadCatalog(
	ctx context.Context,
	repo Repository,
	object, variant string,
	defs []fielddef.Definition,
	fingerprint string,
	batchSize int,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if repo == nil {
		return 0, fmt.Errorf("repo must not be nil")
	}

	rows := CatalogRows(object, variant, defs, fingerprint)

	var (
		total   int64
		batches int64
		start   = time.Now()
	)

	for len(rows) > 0 {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n := batchSize
		if n > len(rows) {
			n = len(rows)
		}
		batch := rows[:n]
		rows = rows[n:]

		flushStart := time.Now()
		inserted, err := repo.CopyFrom(ctx, CatalogColumns, batch)
		total += inserted
		if err != nil {
			log.Printf("catalog load: object=%s variant=%s failed after %d rows: %v",
				object, variant, total, err)
			return total, err
		}

		batches++
		rps := float64(0)
		if d := time.Since(flushStart); d > 0 {
			rps = float64(inserted) / d.Seconds()
		}
		log.Printf("catalog load: object=%s batch=%d rows=%d total=%d rps=%.0f elapsed=%s",
			object, batches, inserted, total, rps,
			time.Since(start).Truncate(time.Millisecond))
	}

	return total, nil
}
