// Package timetabletest provides an in-memory DocumentStore for tests.
package timetabletest

import (
	"context"
	"sync"

	timetableRepo "timetable/database/repository/timetable"
)

// MemoryStore keeps documents in maps and can be told to fail chosen keys.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]map[string]any
	setCalls int
	getCalls int

	// FailKeys makes Set return the mapped error for that key.
	FailKeys map[string]error
	// GetErr, when set, is returned by every Get.
	GetErr error
	// PingErr is returned by Ping.
	PingErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]map[string]map[string]any),
		FailKeys: make(map[string]error),
	}
}

func (m *MemoryStore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := timetableRepo.ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailKeys[key]; ok {
		return err
	}
	m.setCalls++
	m.put(collection, key, fields)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, key string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	doc, ok := m.docs[collection][key]
	if !ok {
		return nil, timetableRepo.ErrNotFound
	}
	return copyFields(doc), nil
}

func (m *MemoryStore) Ping(context.Context) error { return m.PingErr }

func (m *MemoryStore) Close(context.Context) error { return nil }

// Put seeds a document without counting it as a write.
func (m *MemoryStore) Put(collection, key string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(collection, key, fields)
}

func (m *MemoryStore) put(collection, key string, fields map[string]any) {
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	m.docs[collection][key] = copyFields(fields)
}

// Docs returns a snapshot of collection.
func (m *MemoryStore) Docs(collection string) map[string]map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]map[string]any, len(m.docs[collection]))
	for k, v := range m.docs[collection] {
		out[k] = copyFields(v)
	}
	return out
}

// SetCalls counts successful writes.
func (m *MemoryStore) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

// GetCalls counts reads.
func (m *MemoryStore) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
