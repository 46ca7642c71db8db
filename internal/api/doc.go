// Package api is the HTTP adapter over the service layer. It decodes and
// validates JSON requests, maps service and store errors to status codes
// with client-safe messages, and answers task triggers with 202 and the
// queued task's ID.
package api
