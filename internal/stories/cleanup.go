// internal/stories/cleanup.go
// Background removal of expired stories

package stories

import (
	"context"
	"log"
	"time"
)

// StartCleanupJob deletes expired stories on a fixed interval until ctx
// is cancelled. Reads already filter on expires_at, this job just keeps
// the table from growing without bound.
func StartCleanupJob(ctx context.Context, service Service, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := service.CleanupExpired(ctx)
				if err != nil {
					log.Printf("story cleanup failed: %v", err)
					continue
				}
				if deleted > 0 {
					log.Printf("story cleanup removed %d expired stories", deleted)
				}
			}
		}
	}()
}
