// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CommitSource: Lists commits and fetches commit details from the hosting API
//   - ChangeSetParser: Turns a commit's raw file list into a change table
//   - CommitStore: Per-commit artifact persistence
//   - IndexStore: Per-repository commit index persistence
//   - ConfigStore: Application configuration
//   - TokenProvider: API credential lookup
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Download history. Without it, runs are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
