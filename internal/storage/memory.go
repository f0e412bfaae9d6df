package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Adapter. ReadErr and WriteErr, when set, are
// returned instead of touching the map, which lets tests simulate a broken
// device.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	writes   int
	ReadErr  error
	WriteErr error
}

// NewMemory returns an empty Memory adapter.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Read implements Adapter.
func (m *Memory) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, false, m.ReadErr
	}
	blob, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

// Write implements Adapter.
func (m *Memory) Write(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data[key] = append([]byte(nil), blob...)
	m.writes++
	return nil
}

// Writes returns how many writes succeeded.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// SetReadErr changes the injected read error.
func (m *Memory) SetReadErr(err error) {
	m.mu.Lock()
	m.ReadErr = err
	m.mu.Unlock()
}

// SetWriteErr changes the injected write error.
func (m *Memory) SetWriteErr(err error) {
	m.mu.Lock()
	m.WriteErr = err
	m.mu.Unlock()
}
