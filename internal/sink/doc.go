// Package sink delivers finished artifacts. DirSink writes files atomically
// into an output directory guarded by a cross-process lock; MemorySink keeps
// artifacts in memory for dry runs and tests.
package sink
