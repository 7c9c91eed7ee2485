package testing

import (
	"slices"
	"sync"
)

// CallJournal records remote calls in invocation order. A single journal
// shared by both client mocks makes cross-client ordering assertable.
type CallJournal struct {
	mu    sync.Mutex
	calls []string
}

// Record appends a call name to the journal.
func (j *CallJournal) Record(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, name)
}

// Calls returns a copy of the recorded call names in order.
func (j *CallJournal) Calls() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.calls)
}

// IndexOf returns the position of the first call with the given name,
// or -1 when it was never recorded.
func (j *CallJournal) IndexOf(name string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Index(j.calls, name)
}

// Contains reports whether the named call was recorded.
func (j *CallJournal) Contains(name string) bool {
	return j.IndexOf(name) >= 0
}

// ContainsAny reports whether any of the named calls was recorded.
func (j *CallJournal) ContainsAny(names ...string) bool {
	for _, name := range names {
		if j.Contains(name) {
			return true
		}
	}
	return false
}
