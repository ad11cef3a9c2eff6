// Package storage holds the durable key-value slots the course store writes
// its collections to. Each slot keeps one serialized blob that is replaced
// wholesale on every write.
package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrSlotNotFound = errors.New("slot not found")

type SlotStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, blob []byte) error
	Close() error
}

// Memory keeps slots in process memory.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Put(_ context.Context, name string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = append([]byte(nil), blob...)
	return nil
}

func (m *Memory) Close() error { return nil }
