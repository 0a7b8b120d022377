package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"fitlog/internal/core"
	ports "fitlog/internal/sheets"
)

var _ ports.CellStore = (*Store)(nil)

// Write records one Set call.
type Write struct {
	Address core.CellAddress
	Value   string
}

type Store struct {
	mu     sync.Mutex
	cells  map[string]string
	writes []Write
}

func New(cells map[string]string) *Store {
	s := &Store{cells: make(map[string]string, len(cells))}
	for k, v := range cells {
		addr, err := core.ParseCellAddress(k)
		if err != nil {
			continue
		}
		s.cells[addr.String()] = v
	}
	return s
}

// NewFromFile seeds the store from lines of the form "C6=150". Blank lines
// and lines starting with # are ignored. A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	cells, err := readCells(path)
	if err != nil {
		return nil, err
	}
	return New(cells), nil
}

// Get returns the stored value, "" when the cell was never set.
func (s *Store) Get(_ context.Context, addr core.CellAddress) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[addr.String()], nil
}

func (s *Store) Set(_ context.Context, addr core.CellAddress, value string) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[addr.String()] = value
	s.writes = append(s.writes, Write{Address: addr, Value: value})
	return nil
}

// Writes returns every Set call in order.
func (s *Store) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Snapshot returns a copy of all non-empty cells keyed by A1 address.
func (s *Store) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.cells))
	for k, v := range s.cells {
		out[k] = v
	}
	return out
}

func readCells(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	out := map[string]string{}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected CELL=VALUE", path, lineNo)
		}
		addr, err := core.ParseCellAddress(key)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		out[addr.String()] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return out, nil
}
