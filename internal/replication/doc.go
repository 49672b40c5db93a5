// Package replication provides the leader-side write coordinator: version
// allocation, local apply, and the quorum-acknowledged fan-out to followers.
package replication
