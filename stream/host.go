package stream

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates the filter instance for a concrete filter name.
// The name is the full name passed to Stream.Append, which lets one
// wildcard registration serve many independent filters.
type Factory func(name string) (Filter, error)

// Host stores filter factories by name or wildcard pattern.
// A pattern ending in ".*" matches every name sharing its prefix.
// It is safe for concurrent use.
type Host struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{factories: make(map[string]Factory)}
}

var (
	defaultHostOnce sync.Once
	defaultHost     *Host
)

// DefaultHost returns the process-wide host used by streams created without
// WithHost, including Stdout and Stderr.
func DefaultHost() *Host {
	defaultHostOnce.Do(func() {
		defaultHost = NewHost()
	})
	return defaultHost
}

// Register adds a factory under pattern. Registering an already registered
// pattern is a no-op and returns false; the first factory wins.
//
// Example:
//
//	host.Register("capture.*", func(name string) (stream.Filter, error) {
//	    return newCaptureFilter(name), nil
//	})
func (h *Host) Register(pattern string, factory Factory) bool {
	if pattern == "" || factory == nil {
		panic("stream: Register requires a pattern and a factory")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.factories[pattern]; exists {
		return false
	}
	h.factories[pattern] = factory
	return true
}

// IsRegistered checks if pattern itself is registered.
func (h *Host) IsRegistered(pattern string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.factories[pattern]
	return ok
}

// Patterns returns all registered patterns, sorted alphabetically.
func (h *Host) Patterns() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	patterns := make([]string, 0, len(h.factories))
	for p := range h.factories {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}

// Unregister removes a pattern. Streams keep any filters already created
// from it.
func (h *Host) Unregister(pattern string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.factories, pattern)
}

// Clear removes all registered patterns.
// This is primarily useful for testing.
func (h *Host) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.factories = make(map[string]Factory)
}

// newFilter resolves name to a factory and creates the filter.
// Exact registrations take precedence over wildcard patterns; among
// wildcards the longest prefix wins.
func (h *Host) newFilter(name string) (Filter, error) {
	h.mu.RLock()
	factory, ok := h.factories[name]
	if !ok {
		best := -1
		for pattern, f := range h.factories {
			prefix, isWildcard := strings.CutSuffix(pattern, "*")
			if !isWildcard || !strings.HasPrefix(name, prefix) {
				continue
			}
			if len(prefix) > best {
				best = len(prefix)
				factory = f
			}
		}
		ok = best >= 0
	}
	h.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFilterNotRegistered, name)
	}

	filter, err := factory(name)
	if err != nil {
		return nil, fmt.Errorf("create filter %s: %w", name, err)
	}
	return filter, nil
}
