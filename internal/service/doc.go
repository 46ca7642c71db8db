// Package service contains the synchronous use cases of the API: managing
// lexical units, translation links, phrases and users, and queueing the
// enrichment tasks users trigger explicitly.
//
// Services orchestrate domain objects and the repositories defined in
// internal/store. Multi-row writes run inside a store.UnitOfWork; the
// background tasks a write implies (validating a new unit, verifying a new
// translation link, enriching a new phrase) are scheduled only after the
// write has committed, and a scheduling failure never fails the write.
//
// Errors are returned as *ServiceError values wrapping either a store
// sentinel (store.ErrNotFound, store.ErrDuplicate) or one of this package's
// sentinels, so the API layer can map them with errors.Is.
package service
