// Package store defines the persistence interfaces consumed by the
// service layer, along with the shared error taxonomy for storage
// failures. Concrete implementations live in internal/platform/postgres.
package store
