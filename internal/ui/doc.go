// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for contact syncing:
//  1. [PlanView] : Watch the plan phase fetch and filter contacts
//  2. [ContactListView] : Browse the candidate contacts before writing
//  3. [ConfirmView] : Confirm the batch with an explicit candidate count
//  4. [PushView] : Monitor real-time create progress
//  5. [ResultView] : Display created/failed totals and per-contact errors
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the ContactEngine, providing non-blocking status reporting during the run.
//
// Declining the confirmation quits without touching the PSA: Push is only
// started from the y key handler.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
