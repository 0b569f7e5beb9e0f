// Package registry provides a generic thread-safe registry for values
// indexed by key, with optional least-recently-used eviction.
//
// The engine uses a bounded registry as its compiled-expression cache,
// keyed by source text:
//
//	cache := registry.NewBounded[string, *expr.Expression](1024)
//	e, hit, err := cache.GetOrLoad(src, func() (*expr.Expression, error) {
//	    return expr.Compile(src)
//	})
//
// Failed loads are not cached. An unbounded registry (New) never evicts and
// suits fixed sets such as named rules.
//
// # Thread Safety
//
// All methods are safe for concurrent use. GetOrLoad runs the load
// function outside the registry lock, so a slow load does not block reads
// or loads of other keys. Concurrent loads of one key are collapsed into a
// single call.
package registry
