package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lemonspace/internal/model"
	"lemonspace/internal/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentRepository keeps documents as JSONB rows in Postgres.
type DocumentRepository struct {
	db *gorm.DB
}

var _ store.DocumentStore = (*DocumentRepository)(nil)

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any, permissions []string) (*store.Document, error) {
	if data == nil {
		data = map[string]any{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document data: %w", err)
	}
	permsJSON, err := json.Marshal(permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	rec := &model.DocumentRecord{
		ID:           documentID,
		DatabaseID:   databaseID,
		CollectionID: collectionID,
		Data:         datatypes.JSON(dataJSON),
		Permissions:  datatypes.JSON(permsJSON),
	}

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, store.Conflict("create", documentID)
		}
		return nil, store.Failed("create", err)
	}
	return toDocument(rec)
}

func (r *DocumentRepository) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*store.Document, error) {
	rec, err := r.find(r.db.WithContext(ctx), databaseID, collectionID, documentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.NotFound("get", documentID)
	}
	if err != nil {
		return nil, store.Failed("get", err)
	}
	return toDocument(rec)
}

func (r *DocumentRepository) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*store.Document, error) {
	var updated *model.DocumentRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.find(tx, databaseID, collectionID, documentID)
		if err != nil {
			return err
		}

		var current map[string]any
		if err := json.Unmarshal(rec.Data, &current); err != nil {
			return fmt.Errorf("failed to decode stored data: %w", err)
		}
		merged, err := json.Marshal(store.MergeData(current, data))
		if err != nil {
			return fmt.Errorf("failed to encode document data: %w", err)
		}

		now := time.Now().UTC()
		if err := tx.Model(rec).Updates(map[string]any{
			"data":       datatypes.JSON(merged),
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		rec.Data = datatypes.JSON(merged)
		rec.UpdatedAt = now
		updated = rec
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.NotFound("update", documentID)
	}
	if err != nil {
		return nil, store.Failed("update", err)
	}
	return toDocument(updated)
}

func (r *DocumentRepository) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND database_id = ? AND collection_id = ?", documentID, databaseID, collectionID).
		Delete(&model.DocumentRecord{})
	if res.Error != nil {
		return store.Failed("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.NotFound("delete", documentID)
	}
	return nil
}

func (r *DocumentRepository) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...store.Query) ([]store.Document, error) {
	q := r.db.WithContext(ctx).Where("database_id = ? AND collection_id = ?", databaseID, collectionID)
	for _, query := range queries {
		q = q.Where(datatypes.JSONQuery("data").Equals(query.Value, query.Attribute))
	}

	var rows []model.DocumentRecord
	if err := q.Limit(store.DefaultPageSize).Find(&rows).Error; err != nil {
		return nil, store.Failed("list", err)
	}

	docs := make([]store.Document, 0, len(rows))
	for i := range rows {
		doc, err := toDocument(&rows[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (r *DocumentRepository) find(db *gorm.DB, databaseID, collectionID, documentID string) (*model.DocumentRecord, error) {
	var rec model.DocumentRecord
	err := db.Where("id = ? AND database_id = ? AND collection_id = ?", documentID, databaseID, collectionID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func toDocument(rec *model.DocumentRecord) (*store.Document, error) {
	doc := &store.Document{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to decode document data: %w", err)
		}
	}
	if len(rec.Permissions) > 0 {
		if err := json.Unmarshal(rec.Permissions, &doc.Permissions); err != nil {
			return nil, fmt.Errorf("failed to decode permissions: %w", err)
		}
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	return doc, nil
}
