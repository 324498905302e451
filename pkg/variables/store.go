package variables

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/flowbench/pkg/domain"
)

// Store is a concurrency-safe variable table.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	listeners map[int]func(name string)
	nextID    int

	lookupEnv func(string) (string, bool)
}

// New creates a store seeded with initial values.
func New(initial map[string]string) *Store {
	s := &Store{
		values:    make(map[string]string, len(initial)),
		listeners: make(map[int]func(string)),
		lookupEnv: os.LookupEnv,
	}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

// Get returns the value of name. "env." names are read from the environment.
func (s *Store) Get(name string) (string, bool) {
	if env, ok := strings.CutPrefix(name, domain.EnvironmentPrefix); ok {
		return s.lookupEnv(env)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Set assigns value to name. Listeners run only when the value changed,
// after the store lock has been released.
func (s *Store) Set(name, value string) {
	s.mu.Lock()
	old, existed := s.values[name]
	if existed && old == value {
		s.mu.Unlock()
		return
	}
	s.values[name] = value
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(name)
	}
}

// Remove deletes name, notifying listeners if it existed.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	if _, ok := s.values[name]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.values, name)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(name)
	}
}

// Names lists the defined variables (environment variables excluded) in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the variable table.
func (s *Store) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Subscribe registers fn for change notifications.
func (s *Store) Subscribe(fn func(name string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// snapshotListeners must be called with s.mu held.
func (s *Store) snapshotListeners() []func(string) {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(string), len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}

// Expand replaces the "@{name}" placeholders of str. Unknown variables are left as written.
func (s *Store) Expand(str string) string {
	var b strings.Builder
	rest := str
	for {
		start := strings.Index(rest, domain.VariableStart)
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end := strings.Index(rest[start+len(domain.VariableStart):], domain.VariableEnd)
		if end < 0 {
			b.WriteString(rest)
			return b.String()
		}
		end += start + len(domain.VariableStart)

		name := rest[start+len(domain.VariableStart) : end]
		b.WriteString(rest[:start])
		if v, ok := s.Get(name); ok {
			b.WriteString(v)
		} else {
			b.WriteString(rest[start : end+len(domain.VariableEnd)])
		}
		rest = rest[end+len(domain.VariableEnd):]
	}
}

// Detect returns the variable names referenced in str, in order of appearance and without duplicates.
func Detect(str string) []string {
	var names []string
	seen := map[string]bool{}
	rest := str
	for {
		start := strings.Index(rest, domain.VariableStart)
		if start < 0 {
			return names
		}
		rest = rest[start+len(domain.VariableStart):]
		end := strings.Index(rest, domain.VariableEnd)
		if end < 0 {
			return names
		}
		name := rest[:end]
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = rest[end+len(domain.VariableEnd):]
	}
}
