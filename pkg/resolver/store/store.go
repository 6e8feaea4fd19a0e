// Package store holds resolved cell values for a single resolution run.
package store

// Store maps sheet-qualified coordinates to resolved values. A key is only
// written once per run; absence means "not yet resolved", not "resolved to
// empty". The store is owned by one run and never shared.
type Store struct {
	values map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

func key(sheet, coord string) string {
	return sheet + "!" + coord
}

// Get returns the resolved value for (sheet, coord).
func (s *Store) Get(sheet, coord string) (string, bool) {
	v, ok := s.values[key(sheet, coord)]
	return v, ok
}

// Set records a resolved value. The first write for a key wins; later writes
// for the same key are ignored so a pass can never overwrite an
// already-resolved cell. Reports whether the value was stored.
func (s *Store) Set(sheet, coord, value string) bool {
	k := key(sheet, coord)
	if _, exists := s.values[k]; exists {
		return false
	}
	s.values[k] = value
	return true
}

// Len returns the number of resolved cells.
func (s *Store) Len() int {
	return len(s.values)
}
