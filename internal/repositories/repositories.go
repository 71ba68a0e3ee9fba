// package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type.
// MediaRepository additionally exposes the two narrow operations the
// enrichment pipeline depends on: locator reads and single-row metadata
// writes.
package repositories
