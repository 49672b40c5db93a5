// Package storage provides the local key-value storage interface and
// in-memory implementation. Each entry carries the version the leader
// stamped it with; apply discards stale versions (last-write-wins).
package storage
