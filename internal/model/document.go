package model

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentRecord is a row of the Postgres-backed document store.
type DocumentRecord struct {
	ID           string         `gorm:"type:varchar(64);primaryKey"`
	DatabaseID   string         `gorm:"type:varchar(64);not null;index:idx_documents_collection"`
	CollectionID string         `gorm:"type:varchar(64);not null;index:idx_documents_collection"`
	Data         datatypes.JSON `gorm:"type:jsonb;not null"`
	Permissions  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (DocumentRecord) TableName() string {
	return "documents"
}
