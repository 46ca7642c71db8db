// Package events carries task requests from the code that persists an
// entity to the code that runs background work, without either side
// importing the other.
//
// Services schedule work through a Scheduler, which wraps the request in a
// TaskRequestEvent and emits it. The task package registers a handler that
// turns each event into a persisted, queued task. The event id becomes the
// task id, so the handle returned to the caller can be polled later.
package events
