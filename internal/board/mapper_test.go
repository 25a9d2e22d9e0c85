package board_test

import (
	"encoding/json"
	"testing"
	"time"

	"lemonspace/internal/board"
	"lemonspace/internal/model"
	"lemonspace/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// stored simulates a write followed by a read: attribute values come back as JSON would
// decode them.
func stored(t *testing.T, id string, data map[string]any) *store.Document {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return &store.Document{
		ID:        id,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		Data:      decoded,
	}
}

func TestToDocument_Defaults(t *testing.T) {
	data, err := board.ToDocument(model.BoardPatch{Title: strPtr("Landing")})
	require.NoError(t, err)

	assert.Equal(t, "Landing", data["title"])
	assert.JSONEq(t, `{"columns":4,"gap":16}`, data["grid_config"].(string))
	assert.Equal(t, "[]", data["blocks"])
	assert.NotContains(t, data, "slug")
	assert.NotContains(t, data, "template_id")
	assert.NotContains(t, data, "is_template")
}

func TestEncodeFields_OnlySupplied(t *testing.T) {
	data, err := board.EncodeFields(model.BoardPatch{
		Blocks: []model.Block{{ID: "a", Type: model.BlockText, Data: map[string]any{}}},
	})
	require.NoError(t, err)

	assert.Len(t, data, 1)
	assert.JSONEq(t, `[{"id":"a","type":"text","data":{}}]`, data["blocks"].(string))
}

func TestEncodeFields_EmptyBlocksIsSupplied(t *testing.T) {
	data, err := board.EncodeFields(model.BoardPatch{Blocks: []model.Block{}})
	require.NoError(t, err)

	assert.Equal(t, "[]", data["blocks"])
}

func TestRoundTrip_PreservesGridAndBlocks(t *testing.T) {
	grid := model.GridConfig{Columns: 12, Gap: 8}
	blocks := []model.Block{
		{ID: "h1", Type: model.BlockHeading, Data: map[string]any{"text": "Welcome", "level": float64(1)}},
		{ID: "img", Type: model.BlockImage, Data: map[string]any{"src": "/hero.png", "alt": ""}},
		{ID: "faq", Type: model.BlockAccordion, Data: map[string]any{
			"items": []any{map[string]any{"q": "Why?", "a": "Because."}},
		}},
	}
	isTemplate := true
	expires := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	data, err := board.ToDocument(model.BoardPatch{
		UserID:     strPtr("user-1"),
		Title:      strPtr("Launch"),
		Slug:       strPtr("launch"),
		GridConfig: &grid,
		Blocks:     blocks,
		TemplateID: strPtr("tpl-1"),
		IsTemplate: &isTemplate,
		ExpiresAt:  &expires,
	})
	require.NoError(t, err)

	b, err := board.FromDocument(stored(t, "board-1", data))
	require.NoError(t, err)

	assert.Equal(t, grid, b.GridConfig)
	assert.Equal(t, blocks, b.Blocks)
	assert.Equal(t, "board-1", b.ID)
	assert.Equal(t, "user-1", b.UserID)
	assert.Equal(t, "Launch", b.Title)
	assert.Equal(t, "launch", b.Slug)
	require.NotNil(t, b.TemplateID)
	assert.Equal(t, "tpl-1", *b.TemplateID)
	assert.True(t, b.IsTemplate)
	require.NotNil(t, b.ExpiresAt)
	assert.True(t, expires.Equal(*b.ExpiresAt))
	assert.Nil(t, b.PublishedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), b.CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), b.UpdatedAt)
}

func TestFromDocument_MalformedBlocks(t *testing.T) {
	doc := &store.Document{ID: "x", Data: map[string]any{
		"grid_config": `{"columns":4,"gap":16}`,
		"blocks":      "not json",
	}}

	_, err := board.FromDocument(doc)

	assert.Error(t, err)
}
