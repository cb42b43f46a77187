// Package backend is the client for the DDALAB manager HTTP API.
//
// Every user-facing operation in ddalabctl is a single call on Client; the
// package holds no state beyond the base URL and the HTTP client. Errors are
// split in two classes: *TransportError for network failures, non-2xx
// answers and undecodable bodies, and domain rejections that arrive as a
// well-formed body with valid=false (ValidationResult, PathValidationResult).
package backend
