// Package tasks orchestrates the contact sync pipeline between the
// directory service and the PSA with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines two operations:
//
//  1. [SyncEngine.Plan] : Fetch and filter
//     - Fetches dual-sync organizations from the directory service
//     - Fetches existing PSA companies and contact emails
//     - Applies the operator's organization exclusions and license filter
//     - Drops contacts missing required fields or already present on the PSA
//     - Returns the candidate list with per-reason skip counts
//
//  2. [SyncEngine.Push] : Write
//     - Creates each candidate contact under its PSA company
//     - Skips and records individual failures, continuing the batch
//     - Aborts only on an authentication failure
//
// Plan never writes; Push writes exactly the candidates it is handed. The
// confirmation gate between the two lives in the CLI/UI layer, so declining
// it simply means Push is never called.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages
// for display. Updates use select with default to prevent blocking.
package tasks
