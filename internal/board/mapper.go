package board

import (
	"encoding/json"
	"fmt"
	"time"

	"lemonspace/internal/model"
	"lemonspace/internal/store"
)

// Document attribute names.
const (
	fieldUserID       = "user_id"
	fieldTitle        = "title"
	fieldSlug         = "slug"
	fieldGridConfig   = "grid_config"
	fieldBlocks       = "blocks"
	fieldTemplateID   = "template_id"
	fieldIsTemplate   = "is_template"
	fieldPasswordHash = "password_hash"
	fieldExpiresAt    = "expires_at"
	fieldPublishedAt  = "published_at"
)

// ToDocument encodes a board for storage. grid_config and blocks are always written,
// as JSON text, falling back to the default grid and an empty block list.
func ToDocument(p model.BoardPatch) (map[string]any, error) {
	if p.GridConfig == nil {
		grid := model.DefaultGridConfig
		p.GridConfig = &grid
	}
	if p.Blocks == nil {
		p.Blocks = []model.Block{}
	}
	return EncodeFields(p)
}

// EncodeFields encodes only the fields present in p.
func EncodeFields(p model.BoardPatch) (map[string]any, error) {
	data := make(map[string]any)

	if p.UserID != nil {
		data[fieldUserID] = *p.UserID
	}
	if p.Title != nil {
		data[fieldTitle] = *p.Title
	}
	if p.Slug != nil {
		data[fieldSlug] = *p.Slug
	}
	if p.GridConfig != nil {
		encoded, err := json.Marshal(p.GridConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to encode grid_config: %w", err)
		}
		data[fieldGridConfig] = string(encoded)
	}
	if p.Blocks != nil {
		encoded, err := json.Marshal(p.Blocks)
		if err != nil {
			return nil, fmt.Errorf("failed to encode blocks: %w", err)
		}
		data[fieldBlocks] = string(encoded)
	}
	if p.TemplateID != nil {
		data[fieldTemplateID] = *p.TemplateID
	}
	if p.IsTemplate != nil {
		data[fieldIsTemplate] = *p.IsTemplate
	}
	if p.PasswordHash != nil {
		data[fieldPasswordHash] = *p.PasswordHash
	}
	if p.ExpiresAt != nil {
		data[fieldExpiresAt] = p.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	if p.PublishedAt != nil {
		data[fieldPublishedAt] = p.PublishedAt.UTC().Format(time.RFC3339Nano)
	}

	return data, nil
}

// record is the stored attribute set; grid_config and blocks are JSON text.
type record struct {
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	GridConfig   string     `json:"grid_config"`
	Blocks       string     `json:"blocks"`
	TemplateID   *string    `json:"template_id"`
	IsTemplate   bool       `json:"is_template"`
	PasswordHash *string    `json:"password_hash"`
	ExpiresAt    *time.Time `json:"expires_at"`
	PublishedAt  *time.Time `json:"published_at"`
}

// FromDocument decodes a stored document into a Board.
func FromDocument(doc *store.Document) (*model.Board, error) {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", doc.ID, err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", doc.ID, err)
	}

	b := &model.Board{
		ID:           doc.ID,
		UserID:       rec.UserID,
		Title:        rec.Title,
		Slug:         rec.Slug,
		TemplateID:   rec.TemplateID,
		IsTemplate:   rec.IsTemplate,
		PasswordHash: rec.PasswordHash,
		ExpiresAt:    rec.ExpiresAt,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		PublishedAt:  rec.PublishedAt,
	}
	if err := json.Unmarshal([]byte(rec.GridConfig), &b.GridConfig); err != nil {
		return nil, fmt.Errorf("failed to decode grid_config of %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal([]byte(rec.Blocks), &b.Blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks of %s: %w", doc.ID, err)
	}
	return b, nil
}
