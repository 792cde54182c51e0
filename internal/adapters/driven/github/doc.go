// Package github publishes hosted releases through the GitHub REST API.
//
// The Publisher wraps go-github with an oauth2 token transport and a
// rate limiter fed from the X-RateLimit-* response headers. A duplicate
// release for a tag is reported as domain.ErrAlreadyExists so callers can
// treat re-publishing as a no-op.
package github
