// Package qlite is a resource-safe access layer over an embedded SQLite
// database file.
//
// Three types with asymmetric lifetimes make up the model. A Database
// owns one connection. A Statement owns one compiled query and carries a
// non-owning reference to its Database for diagnostics. A Value owns an
// independent snapshot of one scalar cell, duplicated at extraction time
// so it stays valid after the row, statement, or connection that
// produced it is gone.
//
// Only Open returns an error. Every other failure is a boolean return
// plus a line on the diagnostic channel, a zerolog.Logger injectable via
// WithLogger.
package qlite
