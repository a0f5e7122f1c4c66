// Package persist mirrors the workout store to a single string-keyed blob in
// an external key-value substrate. The whole list is rewritten on every save;
// there is no merge and no versioning.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/claude/maptrack/internal/models"
)

// storeKey is the fixed key the serialized workout list lives under.
const storeKey = "workouts"

// ErrCorrupt marks a blob that is present but not parseable. There is no
// recovery path; callers should treat it as a fatal startup error.
var ErrCorrupt = errors.New("persisted workout data is corrupt")

// Blob is an opaque get/set-string store holding one value per key.
type Blob interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Bridge serializes the workout list to and from a Blob.
type Bridge struct {
	blob Blob
}

// NewBridge returns a bridge over the given substrate.
func NewBridge(blob Blob) *Bridge {
	return &Bridge{blob: blob}
}

// Save overwrites the blob with the full ordered workout list, derived
// fields included.
func (b *Bridge) Save(ctx context.Context, workouts []*models.Workout) error {
	if workouts == nil {
		workouts = []*models.Workout{}
	}
	data, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("serializing workouts: %w", err)
	}
	if err := b.blob.Set(ctx, storeKey, string(data)); err != nil {
		return fmt.Errorf("writing workout blob: %w", err)
	}
	return nil
}

// Load reads the blob back. An absent key means no prior data and returns
// (nil, nil). Records come back as data bags: every serialized field is
// restored verbatim, and derived metrics are not recomputed.
func (b *Bridge) Load(ctx context.Context) ([]*models.Workout, error) {
	data, ok, err := b.blob.Get(ctx, storeKey)
	if err != nil {
		return nil, fmt.Errorf("reading workout blob: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var workouts []*models.Workout
	if err := json.Unmarshal([]byte(data), &workouts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return workouts, nil
}

// Reset deletes the blob key entirely, unlike Save with an empty list. The
// next Load reports no prior data.
func (b *Bridge) Reset(ctx context.Context) error {
	return b.blob.Delete(ctx, storeKey)
}

// Memory is an in-process Blob for tests and ephemeral runs.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory substrate.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }
