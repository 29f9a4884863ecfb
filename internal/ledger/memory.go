package ledger

import (
	"context"
	"sync"
)

// MemoryBackend keeps the ledger in process. It goes through the same
// read-clear-write cycle as a spreadsheet.
type MemoryBackend struct {
	mu      sync.Mutex
	records [][]string
	url     string
}

// NewMemoryBackend returns a ledger seeded with records (header first).
func NewMemoryBackend(records ...[]string) *MemoryBackend {
	return &MemoryBackend{records: cloneRecords(records), url: "memory://ledger"}
}

// Open returns the single worksheet.
func (m *MemoryBackend) Open(ctx context.Context) (Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return memorySheet{m}, nil
}

// Snapshot returns a copy of the stored records.
func (m *MemoryBackend) Snapshot() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRecords(m.records)
}

type memorySheet struct{ m *MemoryBackend }

func (s memorySheet) Records(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.m.Snapshot(), nil
}

func (s memorySheet) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.mu.Lock()
	s.m.records = nil
	s.m.mu.Unlock()
	return nil
}

func (s memorySheet) Write(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.m.mu.Lock()
	s.m.records = cloneRecords(rows)
	s.m.mu.Unlock()
	return nil
}

func (s memorySheet) URL() string { return s.m.url }

func cloneRecords(in [][]string) [][]string {
	if len(in) == 0 {
		return nil
	}
	out := make([][]string, len(in))
	for i, r := range in {
		out[i] = append([]string(nil), r...)
	}
	return out
}
