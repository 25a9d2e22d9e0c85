// Package store talks to the document database that persists boards.
//
// Three backends implement DocumentStore: the hosted backend-as-a-service over its REST
// API, a Postgres table of JSON documents (see internal/repository) and MongoDB.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultPageSize is the number of documents one list call returns.
const DefaultPageSize = 25

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrConflict         = errors.New("document already exists")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Error is a failed call to the document store.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Document is one stored record. Data holds the attributes; store-managed metadata lives
// in the other fields.
type Document struct {
	ID          string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Permissions []string
	Data        map[string]any
}

// Query is an equality filter on one attribute.
type Query struct {
	Attribute string
	Value     any
}

// Equal builds an equality filter.
func Equal(attribute string, value any) Query {
	return Query{Attribute: attribute, Value: value}
}

// DocumentStore is the subset of the document database API used by the service.
type DocumentStore interface {
	CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any, permissions []string) (*Document, error)
	GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error)
	UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error
	ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) ([]Document, error)
}

// UserRole is the permission role of a single user.
func UserRole(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// Read grants read access to role.
func Read(role string) string {
	return fmt.Sprintf("read(%q)", role)
}

// Write grants write access to role.
func Write(role string) string {
	return fmt.Sprintf("write(%q)", role)
}

// OwnerPermissions are the grants attached to a record created by ownerID.
func OwnerPermissions(ownerID string) []string {
	role := UserRole(ownerID)
	return []string{Read(role), Write(role)}
}

// NotFound wraps ErrDocumentNotFound for op.
func NotFound(op, documentID string) error {
	return &Error{Op: op, Status: 404, Message: "document " + documentID + " not found", Err: ErrDocumentNotFound}
}

// Conflict wraps ErrConflict for op.
func Conflict(op, documentID string) error {
	return &Error{Op: op, Status: 409, Message: "document " + documentID + " already exists", Err: ErrConflict}
}

// Failed wraps any other backend error for op.
func Failed(op string, err error) error {
	return &Error{Op: op, Message: err.Error(), Err: err}
}

// MergeData copies patch over a copy of data.
func MergeData(data, patch map[string]any) map[string]any {
	out := make(map[string]any, len(data)+len(patch))
	for k, v := range data {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
