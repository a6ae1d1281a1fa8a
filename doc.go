// Package updatecheck tells a CLI whether a newer version of itself has
// been published. It asks the registry's latest-version endpoint at most
// once per TTL window, persisting the answer to a small cache file so
// repeated invocations (typically one per program startup) stay off the
// network. Key properties:
//   - One blocking call, bounded by a configurable timeout (default 5s)
//   - File-based caching with a configurable TTL (default 24 hours)
//   - Cache corruption degrades to a refetch, never to a failure
//   - An environment opt-out (UPDATECHECK_DISABLE) that skips all file
//     and network I/O
//
// Errors are typed and never fatal by design: the host application is
// expected to treat any error as "could not determine update status" and
// carry on.
//
// Basic use:
//
//	if update, err := updatecheck.Check("demo", "1.0.0"); err == nil && update != nil {
//		fmt.Fprintf(os.Stderr, "update available: %s -> %s\n", update.Current, update.Latest)
//	}
package updatecheck
