package model

import (
	"time"
)

// GridConfig is the column layout of a board canvas.
type GridConfig struct {
	Columns int `json:"columns"`
	Gap     int `json:"gap"`
}

// DefaultGridConfig is used when a board is stored without a grid configuration.
var DefaultGridConfig = GridConfig{Columns: 4, Gap: 16}

// Board is a page layout owned by one user.
type Board struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	GridConfig   GridConfig `json:"grid_config"`
	Blocks       []Block    `json:"blocks"`
	TemplateID   *string    `json:"template_id,omitempty"`
	IsTemplate   bool       `json:"is_template"`
	PasswordHash *string    `json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// HasPassword reports whether the board is password protected.
func (b *Board) HasPassword() bool {
	return b.PasswordHash != nil && *b.PasswordHash != ""
}

// BoardPatch is a partial board. Nil fields are absent; Blocks is absent when nil
// and present-but-empty when it is a non-nil empty slice.
type BoardPatch struct {
	ID           *string     `json:"id,omitempty"`
	UserID       *string     `json:"user_id,omitempty"`
	Title        *string     `json:"title,omitempty"`
	Slug         *string     `json:"slug,omitempty"`
	GridConfig   *GridConfig `json:"grid_config,omitempty"`
	Blocks       []Block     `json:"blocks,omitempty"`
	TemplateID   *string     `json:"template_id,omitempty"`
	IsTemplate   *bool       `json:"is_template,omitempty"`
	PasswordHash *string     `json:"-"`
	ExpiresAt    *time.Time  `json:"expires_at,omitempty"`
	PublishedAt  *time.Time  `json:"published_at,omitempty"`
}
