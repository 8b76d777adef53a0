// Package workspace tracks the jobs a user has open or minimized: persisted
// records known to Corral and unsaved drafts that exist only in this
// session.
package workspace

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Kind distinguishes persisted jobs from session-only drafts.
type Kind int

const (
	Persisted Kind = iota
	Draft
)

// Meta is the summary shown on a workspace chip.
type Meta struct {
	CustomerName  string
	TrailerColor  string
	CalendarColor string
}

// Entry is one open or minimized job. A Draft entry never carries a server
// ID; its ID is a session token from NewDraftID. CachedHTML holds the
// serialized form for restoration when the entry is unsaved.
type Entry struct {
	ID         string
	Kind       Kind
	Meta       Meta
	Unsaved    bool
	CachedHTML string
}

// NewDraftID returns a fresh session token for an unsaved job.
func NewDraftID() string {
	return "draft-" + uuid.New().String()
}

// Store is the session-wide registry of workspace entries, in insertion
// order. Safe for the UI loop and background save completions to share.
type Store struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Put inserts or replaces an entry, keeping its position when it already
// exists.
func (s *Store) Put(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	copied := e
	s.entries[e.ID] = &copied
}

// Get returns a copy of the entry with the given ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Remove deletes the entry with the given ID, if present.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

func (s *Store) removeLocked(id string) {
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// List returns copies of all entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.entries[id])
	}
	return out
}

// SetUnsaved flips the unsaved marker and, when html is non-empty, refreshes
// the cached form content used for recovery.
func (s *Store) SetUnsaved(id string, unsaved bool, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return
	}
	e.Unsaved = unsaved
	if html != "" {
		e.CachedHTML = html
	}
	if !unsaved {
		e.CachedHTML = ""
	}
}

// SetMeta refreshes the chip summary for an entry.
func (s *Store) SetMeta(id string, meta Meta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.Meta = meta
	}
}

// Promote converts a draft into a persisted entry under its server-assigned
// ID, keeping the draft's position in the workspace bar. The draft entry is
// gone afterward.
func (s *Store) Promote(draftID, jobID string, meta Meta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.entries[draftID]
	if !ok {
		return fmt.Errorf("no workspace entry for draft %s", draftID)
	}
	if draft.Kind != Draft {
		return fmt.Errorf("workspace entry %s is not a draft", draftID)
	}

	delete(s.entries, draftID)
	promoted := &Entry{ID: jobID, Kind: Persisted, Meta: meta}
	s.entries[jobID] = promoted
	for i, id := range s.order {
		if id == draftID {
			s.order[i] = jobID
			return nil
		}
	}
	s.order = append(s.order, jobID)
	return nil
}
