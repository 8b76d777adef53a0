// Package app provides the orchestration layer for the Hitch application.
//
// # Overview
//
// This package wires together configuration, the Corral HTTP client, the
// panel controller, polling, and the UI to create the complete Hitch TUI
// experience. It is the composition root: every dependency is constructed
// and connected here, and nothing holds package-level state.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load Corral connection settings from ~/.config/hitch/config.toml
//  2. Load user preferences (theme, panel geometry, seen warnings)
//  3. Initialize the HTTP client and the save gateway
//  4. Create the shared state.Store and workspace.Store
//  5. Build the panel controller and register collaborators
//  6. Launch the background poller goroutine
//  7. Start the TUI and block until user exits or context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read Corral config
//	       ├─────> prefs.Load()         Read user prefs
//	       ├─────> corral.NewClient()   Create HTTP client
//	       ├─────> state.Store{}        Shared schedule snapshots
//	       ├─────> workspace.NewStore() Open/minimized job records
//	       ├─────> panel.NewController() Panel state machine
//	       ├─────> StartPoller()        Launch background updates
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> FetchSchedule()                    │
//	│  └─> store.Update()  (atomic)           │
//	│      └─> UI reads store.Snapshot()      │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller runs continuously at a configurable interval (default: 2
// seconds). While the backend is unreachable the interval doubles per
// consecutive failure, capped at 30 seconds, so a down server is not
// hammered. A successful panel save kicks an immediate refresh through
// the collaborator interface so the saved job appears without waiting
// for the next tick.
package app
