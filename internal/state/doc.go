// Package state provides thread-safe schedule state for the Hitch UI.
//
// # Overview
//
// This package implements a simple but thread-safe store for sharing the
// latest job schedule between the background poller and the UI. It acts
// as the coordination point where polling updates meet rendering.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ FetchSchedule()│            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│  repeat...     │            │  render UI      │
//	└────────────────┘            └─────────────────┘
//
// # Update Semantics
//
// The Update method has special error handling behavior:
//
//	// Success case: replace the job list, reset the failure streak
//	store.Update(jobs, nil)
//
//	// Error case: keep old data, record the error, bump the streak
//	store.Update(nil, err)
//
// This ensures the UI always has the most recent successful schedule to
// display while also knowing the backend is struggling. Snapshot.IsOffline
// reports true once failures accumulate, which the header uses for the
// offline banner and the poller uses to back off.
//
// # Defensive Copying
//
// Both Update and Snapshot clone the job slice and the error value, so
// the poller and the UI never share mutable state. The cost is a few
// hundred small structs per copy, which is negligible.
//
// # Testing Considerations
//
// The Store is safe to construct with zero value:
//
//	store := &state.Store{}  // Ready to use immediately
package state
