// Package models defines domain entities and persistence interfaces for the Azure DevOps migration service.
//
// The package contains two categories of types:
//
// 1. Value types describing extraction outcomes:
//   - [ArtifactType] : The fixed enumeration of extractable artifact categories
//   - [ArtifactSummary] : Per-artifact-type extraction outcome with a bounded item preview
//   - [ArtifactItem] : One preview entry within a summary
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Connection] : Azure DevOps organization credentials (source or target)
//   - [Project] : A tracked project owning summaries and extraction history
//   - [ExtractionJob] : One extraction attempt with a monotonic status lifecycle
//
// All persistent entities embed [Record] and implement the [Model] interface providing
// ID generation, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
//
// The [ExtractionJob] lifecycle is enforced by the entity itself: [ExtractionJob.Begin],
// [ExtractionJob.Complete], and [ExtractionJob.Fail] refuse transitions out of a terminal state.
package models
