// Package store owns the courses and the per-course progress of the single
// dashboard user. Both collections are loaded once from their storage slots and
// written back in full after every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"coursedash/pkg/models"
	"coursedash/pkg/storage"
)

const (
	SlotCourses  = "courses"
	SlotProgress = "userProgress"
)

var (
	ErrContentMismatch = errors.New("item content does not match its type")
	ErrMissingContent  = errors.New("item has no content")
	ErrNotMCQ          = errors.New("item is not a multiple choice question")
)

type Store struct {
	mu       sync.Mutex
	slots    storage.SlotStore
	courses  []models.Course
	progress []models.UserProgress

	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open loads both collections from slots. A slot that was never written is an
// empty collection; a slot that cannot be decoded is an error.
func Open(ctx context.Context, slots storage.SlotStore, opts ...Option) (*Store, error) {
	s := &Store{
		slots: slots,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := load(ctx, slots, SlotCourses, &s.courses); err != nil {
		return nil, err
	}
	if err := load(ctx, slots, SlotProgress, &s.progress); err != nil {
		return nil, err
	}
	s.log.Info().
		Int("courses", len(s.courses)).
		Int("progress", len(s.progress)).
		Msg("store loaded")
	return s, nil
}

func load[T any](ctx context.Context, slots storage.SlotStore, name string, into *[]T) error {
	blob, err := slots.Get(ctx, name)
	if errors.Is(err, storage.ErrSlotNotFound) {
		*into = []T{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}
	var out []T
	if err := json.Unmarshal(blob, &out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	if out == nil {
		out = []T{}
	}
	*into = out
	return nil
}

func put[T any](ctx context.Context, slots storage.SlotStore, name string, v []T) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := slots.Put(ctx, name, blob); err != nil {
		return fmt.Errorf("persisting %s: %w", name, err)
	}
	return nil
}

// saveCourses persists next and, once that succeeded, makes it current.
func (s *Store) saveCourses(ctx context.Context, next []models.Course) error {
	if err := put(ctx, s.slots, SlotCourses, next); err != nil {
		s.log.Error().Err(err).Msg("courses not saved")
		return err
	}
	s.courses = next
	return nil
}

func (s *Store) saveProgress(ctx context.Context, next []models.UserProgress) error {
	if err := put(ctx, s.slots, SlotProgress, next); err != nil {
		s.log.Error().Err(err).Msg("progress not saved")
		return err
	}
	s.progress = next
	return nil
}

func (s *Store) courseIndex(id string) int {
	for i := range s.courses {
		if s.courses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) progressIndex(courseID string) int {
	for i := range s.progress {
		if s.progress[i].CourseID == courseID {
			return i
		}
	}
	return -1
}
