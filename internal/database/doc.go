// Package database provides the PostgreSQL connection pool used for price history.
//
// The pool is only opened when database.enabled is set; the ticker itself never
// depends on it.
package database
