// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for artifact extraction:
//  1. [ProjectListView] : Browse stored Azure DevOps projects
//  2. [ArtifactListView] : Pick an artifact type, or select all of them
//  3. [ConfirmView] : Confirm the extraction run
//  4. [ExtractView] : Monitor real-time progress updates
//  5. [ResultView] : Display per-artifact outcomes and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ExtractionEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
