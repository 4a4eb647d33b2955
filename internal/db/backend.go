package db

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("not found")

// Namespace is one independently stored piece of a user's state.
type Namespace string

const (
	NSProfile         Namespace = "profile"
	NSPlan            Namespace = "plan"
	NSProgressEntries Namespace = "progressEntries"
	NSCompletedMeals  Namespace = "completedMeals"
	NSActiveWorkout   Namespace = "activeWorkout"
	NSWorkoutHistory  Namespace = "workoutHistory"
)

// Backend stores one JSON document per (user, namespace).
type Backend interface {
	// Get returns ErrNotFound when nothing was stored yet.
	Get(ctx context.Context, userID int64, ns Namespace) ([]byte, error)
	Put(ctx context.Context, userID int64, ns Namespace, data []byte) error
	Close() error
}

type memoryKey struct {
	userID int64
	ns     Namespace
}

// MemoryBackend keeps everything in process. Used by tests and the "memory" driver.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[memoryKey][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[memoryKey][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, userID int64, ns Namespace) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[memoryKey{userID, ns}]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Put(_ context.Context, userID int64, ns Namespace, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memoryKey{userID, ns}] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
