// Package cache persists the last-known latest version of a package to a
// single small JSON file so repeated update checks within the TTL window
// skip the network entirely.
//
// The cache is strictly best-effort: a missing, unreadable, or corrupt
// file degrades to a miss and a failed write never invalidates the result
// already computed for the current call. Concurrent invocations from one
// host process are not coordinated; a lost update or a redundant fetch is
// acceptable.
package cache
