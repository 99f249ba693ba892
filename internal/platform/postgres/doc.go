// Package postgres provides PostgreSQL implementations of the store
// interfaces, using database/sql with the pgx stdlib driver. All stores
// map driver errors through MapError so the service layer only sees the
// store error taxonomy.
package postgres
