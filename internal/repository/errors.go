// Package repository holds the data access logic for owners and listings.
// Repositories receive the backend chosen at startup and speak its dialect;
// they never look at process-wide state. Sentinel errors let handlers tell
// a missing row apart from a failed query.
package repository

import "errors"

// ErrOwnerNotFound is returned when no owner has the requested phone.
// Handlers translate it into an HTTP 404 response.
var ErrOwnerNotFound = errors.New("owner not found")
