// Package models defines domain entities and persistence interfaces for the discotag enrichment service.
//
// The package contains two categories of types:
//
// 1. Ephemeral values scoped to a single enrichment run:
//   - [Batch] : An ordered list of record identifiers with an active position
//   - [MetadataUpdate] : The normalized field set written for one record
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [MediaRecord] : A media library entry with locator and descriptive metadata
//
// Persistent entities implement the [Model] interface providing identity, timestamps, and validation.
// The [Repository] interface defines standard CRUD operations for database access.
//
// Descriptive fields that could not be extracted hold the [UnknownString] or
// [UnknownInteger] sentinels rather than NULLs, so a record is either entirely
// unenriched or uniformly normalized.
package models
