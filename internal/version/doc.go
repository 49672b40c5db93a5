// Package version allocates the monotonically increasing write versions
// that order entries across the cluster. Only the leader holds an allocator.
package version
