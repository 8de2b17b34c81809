// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Article is a news entry. The alias is derived from the title and used in
// the public URL; Photo references a file in the upload directory and is
// owned exclusively by this article. DeletedAt nil means the article is
// visible; a set timestamp means it sits in the trash until restored or
// purged.
type Article struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Alias      string     `json:"alias"`
	Photo      *string    `json:"photo,omitempty"`
	CategoryID uuid.UUID  `json:"category_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// Virtual fields populated by list queries.
	CategoryAlias string `json:"category_alias,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	AuthorEmail   string `json:"author_email,omitempty"`
}

// IsDeleted returns true if the article has been archived.
func (a Article) IsDeleted() bool {
	return a.DeletedAt != nil
}

// PublicPath builds the public URL path {category_alias}/{alias}_{id}.
func (a Article) PublicPath() string {
	return fmt.Sprintf("/%s/%s_%s", a.CategoryAlias, a.Alias, a.ID)
}
