// Package ui provides the terminal user interface for Hitch.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program: a single root Model holds all view
// state, messages drive every update, and all rendering happens in View.
// The schedule table is the home surface; the job panel slides in docked
// on the right or floats over the table, and the workspace bar along the
// bottom tracks every open and minimized job.
//
// # Package Structure
//
// The package is organized into focused modules:
//
//   - app.go: Root model, message routing, commands, and the Run function
//   - schedule.go: Job table rendering, filtering, and row selection
//   - panel_view.go: Job panel rendering and form field editing
//   - workspace_bar.go: Bottom bar of open/minimized jobs with unsaved markers
//   - header.go: Status bar, command hints, and notice rendering
//   - theme.go: Color themes and Lipgloss style generation
//   - layout.go: Pane joining and floating-panel overlay compositing
//
// # Event Flow
//
//  1. Run() starts the Bubble Tea program
//  2. A tick message fetches the latest schedule snapshot from state.Store
//  3. Opening a job runs as a command; the parsed form lands in the panel
//  4. Panel transitions (save, close, minimize) apply their UI effect
//     synchronously and run any background save as a command, so the
//     event loop never blocks on the network
//  5. Transition outcomes surface as transient notices
//
// # Filtering
//
// The schedule filter is debounced on the trailing edge: each keystroke
// restarts a 300ms window and only the final value is applied, so typing
// never causes intermediate re-filters.
//
// # Key Bindings
//
//   - enter: Open selected job
//   - n: New job
//   - /: Filter schedule by customer
//   - [ / ] and o: Select and reopen workspace entries
//   - ctrl+s: Save (panel)
//   - ctrl+b: Minimize to workspace (panel)
//   - ctrl+g: Toggle docked/floating (panel)
//   - esc: Close panel (autosaves dirty complete forms)
//   - T: Cycle theme
//   - q or Ctrl+C: Exit
//
// # Design Principles
//
//   - The panel closes first, saves second: a slow or failed save never
//     holds the UI hostage
//   - Single operator: no multi-user or authentication support
//   - Every backend failure degrades to a workspace marker, not a modal
package ui
