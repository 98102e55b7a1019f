// Package client talks to the Board HTTP API.
//
// # Overview
//
// HTTPClient is the single choke point for outbound calls. Every request
// goes through HTTPClient.Do, which:
//  1. attaches "Authorization: Bearer <token>" when its TokenSource has a token,
//  2. tags the request with a fresh X-Request-ID,
//  3. decodes JSON responses, or turns non-2xx responses into *APIError,
//  4. on 401 notifies every subscribed Invalidator before returning the error.
//
// The login call opts out of step 4 with WithoutInvalidation: wrong
// credentials are an ordinary failure, not a dead session.
//
// # Error Handling
//
// Failures match the sentinels with errors.Is: ErrUnauthorized, ErrForbidden,
// ErrNotFound, ErrUnavailable. Detail and Message extract the server's
// "detail" text for display.
package client
