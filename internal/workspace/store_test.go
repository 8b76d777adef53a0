package workspace

import (
	"strings"
	"testing"
)

func TestNewDraftID_Unique(t *testing.T) {
	a, b := NewDraftID(), NewDraftID()
	if a == b {
		t.Fatalf("NewDraftID returned duplicate %q", a)
	}
	if !strings.HasPrefix(a, "draft-") {
		t.Fatalf("NewDraftID() = %q, want draft- prefix", a)
	}
}

func TestStore_PutGetRemove(t *testing.T) {
	s := NewStore()
	s.Put(Entry{ID: "7", Kind: Persisted, Meta: Meta{CustomerName: "Acme"}})

	e, ok := s.Get("7")
	if !ok || e.Meta.CustomerName != "Acme" {
		t.Fatalf("Get(7) = %#v, %v", e, ok)
	}

	// Replacing keeps position; a second entry lands after it.
	s.Put(Entry{ID: "9", Kind: Persisted})
	s.Put(Entry{ID: "7", Kind: Persisted, Unsaved: true})
	list := s.List()
	if len(list) != 2 || list[0].ID != "7" || !list[0].Unsaved {
		t.Fatalf("List() = %#v, want updated 7 first", list)
	}

	s.Remove("7")
	if _, ok := s.Get("7"); ok {
		t.Fatal("entry 7 still present after Remove")
	}
	if got := len(s.List()); got != 1 {
		t.Fatalf("len(List()) = %d, want 1", got)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Put(Entry{ID: "7", Meta: Meta{CustomerName: "Acme"}})

	e, _ := s.Get("7")
	e.Meta.CustomerName = "changed"

	again, _ := s.Get("7")
	if again.Meta.CustomerName != "Acme" {
		t.Fatalf("stored entry mutated through copy: %q", again.Meta.CustomerName)
	}
}

func TestStore_SetUnsaved(t *testing.T) {
	s := NewStore()
	s.Put(Entry{ID: "7", Kind: Persisted})

	s.SetUnsaved("7", true, "<form></form>")
	e, _ := s.Get("7")
	if !e.Unsaved || e.CachedHTML == "" {
		t.Fatalf("entry = %#v, want unsaved with cached html", e)
	}

	s.SetUnsaved("7", false, "")
	e, _ = s.Get("7")
	if e.Unsaved || e.CachedHTML != "" {
		t.Fatalf("entry = %#v, want saved with cache cleared", e)
	}
}

func TestStore_Promote(t *testing.T) {
	s := NewStore()
	draftID := NewDraftID()
	s.Put(Entry{ID: "3", Kind: Persisted})
	s.Put(Entry{ID: draftID, Kind: Draft, Unsaved: true, CachedHTML: "<form></form>"})
	s.Put(Entry{ID: "5", Kind: Persisted})

	if err := s.Promote(draftID, "42", Meta{CustomerName: "Acme"}); err != nil {
		t.Fatalf("Promote: %v", err)
	}

	if _, ok := s.Get(draftID); ok {
		t.Fatal("draft entry survived promotion")
	}
	e, ok := s.Get("42")
	if !ok || e.Kind != Persisted || e.Unsaved {
		t.Fatalf("promoted entry = %#v, %v", e, ok)
	}

	// Position in the bar is preserved.
	list := s.List()
	if list[1].ID != "42" {
		t.Fatalf("List() order = %v, want 42 in the middle", []string{list[0].ID, list[1].ID, list[2].ID})
	}
}

func TestStore_PromoteMissingDraft(t *testing.T) {
	s := NewStore()
	if err := s.Promote("draft-nope", "42", Meta{}); err == nil {
		t.Fatal("Promote of missing draft succeeded")
	}

	s.Put(Entry{ID: "7", Kind: Persisted})
	if err := s.Promote("7", "42", Meta{}); err == nil {
		t.Fatal("Promote of persisted entry succeeded")
	}
}
