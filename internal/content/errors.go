// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content implements the article and category lifecycle: create,
// update, archive (soft delete), restore, and purge (hard delete), together
// with the role gate protecting the admin operations. Every operation takes
// the acting principal explicitly; nothing is read from ambient state.
package content

import (
	"errors"
	"fmt"
	"strings"

	"lagazette/internal/models"
)

var (
	// ErrAccessDenied means the principal lacks the required role. Callers
	// redirect to a public page with a warning notice, never an error page.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound means the entity identifier did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrCategoryInUse rejects a category purge while article rows still
	// reference it.
	ErrCategoryInUse = errors.New("category still referenced by articles")

	// ErrPhotoNotStored marks a partial success: the article was persisted
	// but its photo could not be stored. Callers surface it as a warning
	// ("article saved without photo"), not as a failure.
	ErrPhotoNotStored = errors.New("photo not stored")
)

// ValidationError carries field-level messages for re-rendering a form.
// No state is mutated when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps a ValidationError from err, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// requireRole is the access gate for admin lifecycle operations. A nil
// actor is an anonymous visitor.
func requireRole(actor *models.User, role models.Role) error {
	if actor == nil || !actor.Roles.Has(role) {
		return fmt.Errorf("%w: role %q required", ErrAccessDenied, role)
	}
	return nil
}
