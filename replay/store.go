package replay

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Store is the in-memory table of computed feature values, keyed by FQN and
// key tuple, ordered by timestamp.
type Store struct {
	mu     sync.RWMutex
	series map[string][]entry // keyed by fqn + key tuple
}

type entry struct {
	ts  time.Time
	val cty.Value
}

// NewStore creates an empty value store.
func NewStore() *Store {
	return &Store{series: make(map[string][]entry)}
}

// Put records a computed value.
func (s *Store) Put(fqn string, keys map[string]string, ts time.Time, val cty.Value) {
	id := seriesID(fqn, keys)

	s.mu.Lock()
	defer s.mu.Unlock()
	series := s.series[id]
	series = append(series, entry{ts: ts, val: val})
	sort.Slice(series, func(i, j int) bool { return series[i].ts.Before(series[j].ts) })
	s.series[id] = series
}

// Get returns the latest value recorded at or before the given timestamp.
func (s *Store) Get(fqn string, keys map[string]string, at time.Time) (cty.Value, bool) {
	id := seriesID(fqn, keys)

	s.mu.RLock()
	defer s.mu.RUnlock()
	series := s.series[id]
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].ts.After(at) {
			return series[i].val, true
		}
	}
	return cty.NilVal, false
}

// seriesID builds a stable identifier for one feature/key-tuple series.
func seriesID(fqn string, keys map[string]string) string {
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(fqn)
	for _, k := range names {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(keys[k])
	}
	return b.String()
}
