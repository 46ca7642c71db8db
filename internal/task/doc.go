// Package task runs the asynchronous enrichment and validation pipeline.
//
// Every unit of background work is persisted in the task table before it is
// queued, executed by a bounded worker pool, and retried according to the
// policy registered for its type. Terminal outcomes are written into the
// entity the task operates on; the task row only records status, attempts
// and the structured Result.
package task
