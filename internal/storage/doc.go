// Package storage defines the persistence interfaces for studyhall.
//
// It provides a high-level abstraction for storing members, courses,
// sessions, and attendance records with their event logs. Implementations
// of these interfaces (e.g., using SQLite) can be found in subpackages.
//
// # Error Types
//
// The package defines common error types used across storage implementations:
//   - ErrNotFound: Indicates a requested record is missing.
//   - ErrAlreadyExists: Indicates a uniqueness-constrained record already exists.
package storage
