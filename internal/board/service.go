// Package board maps boards to documents, exposes the board access functions and the
// cached queries built on them.
package board

import (
	"context"
	"errors"
	"fmt"

	"lemonspace/internal/model"
	"lemonspace/internal/store"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when the board does not exist.
var ErrNotFound = errors.New("board not found")

// Service performs board operations against one document collection.
type Service struct {
	docs         store.DocumentStore
	databaseID   string
	collectionID string
}

func NewService(docs store.DocumentStore, databaseID, collectionID string) *Service {
	return &Service{
		docs:         docs,
		databaseID:   databaseID,
		collectionID: collectionID,
	}
}

// Create stores a new board owned by ownerID. The board keeps p.ID when given.
func (s *Service) Create(ctx context.Context, ownerID string, p model.BoardPatch) (*model.Board, error) {
	documentID := uuid.NewString()
	if p.ID != nil && *p.ID != "" {
		documentID = *p.ID
	}
	p.UserID = &ownerID

	data, err := ToDocument(p)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.CreateDocument(ctx, s.databaseID, s.collectionID, documentID, data, store.OwnerPermissions(ownerID))
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

func (s *Service) Get(ctx context.Context, boardID string) (*model.Board, error) {
	doc, err := s.docs.GetDocument(ctx, s.databaseID, s.collectionID, boardID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, boardID)
	}
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// Update writes the fields present in p and returns the whole board.
func (s *Service) Update(ctx context.Context, boardID string, p model.BoardPatch) (*model.Board, error) {
	data, err := EncodeFields(p)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.UpdateDocument(ctx, s.databaseID, s.collectionID, boardID, data)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

func (s *Service) Delete(ctx context.Context, boardID string) error {
	return s.docs.DeleteDocument(ctx, s.databaseID, s.collectionID, boardID)
}

// List returns the first page of boards owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Board, error) {
	docs, err := s.docs.ListDocuments(ctx, s.databaseID, s.collectionID, store.Equal(fieldUserID, ownerID))
	if err != nil {
		return nil, err
	}

	boards := make([]model.Board, 0, len(docs))
	for i := range docs {
		b, err := FromDocument(&docs[i])
		if err != nil {
			return nil, err
		}
		boards = append(boards, *b)
	}
	return boards, nil
}
