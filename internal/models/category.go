// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups articles under a human label. The alias is derived from
// the name and is used to build public URLs; it is regenerated whenever the
// name changes.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Alias     string     `json:"alias"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Virtual field populated by list queries.
	ArticleCount int `json:"article_count"`
}

// IsDeleted returns true if the category has been archived.
func (c Category) IsDeleted() bool {
	return c.DeletedAt != nil
}
