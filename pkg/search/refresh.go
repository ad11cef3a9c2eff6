package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"coursedash/pkg/models"
)

const refreshTimeout = 30 * time.Second

// Refresh reindexes c in the background. A nil idx does nothing.
func Refresh(idx Indexer, c models.Course, log zerolog.Logger) {
	if idx == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := idx.SyncCourse(ctx, c); err != nil {
			log.Error().Err(err).Str("course_id", c.ID).Msg("course not reindexed")
		}
	}()
}

// Forget drops a deleted course from the index in the background.
func Forget(idx Indexer, courseID string, log zerolog.Logger) {
	if idx == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := idx.RemoveCourse(ctx, courseID); err != nil {
			log.Error().Err(err).Str("course_id", courseID).Msg("course not removed from index")
		}
	}()
}
