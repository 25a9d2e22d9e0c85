package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RESTStore speaks the hosted document database's REST API
// (/databases/{db}/collections/{collection}/documents).
type RESTStore struct {
	endpoint   string
	projectID  string
	apiKey     string
	httpClient *http.Client
}

var _ DocumentStore = (*RESTStore)(nil)

// NewRESTStore creates a client for endpoint, e.g. http://localhost/v1.
func NewRESTStore(endpoint, projectID, apiKey string) *RESTStore {
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "https://" + endpoint
	}

	return &RESTStore{
		endpoint:  strings.TrimRight(endpoint, "/"),
		projectID: projectID,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

// makeRequest sends one request and returns the response body. Status codes >= 400 are
// turned into *Error.
func (s *RESTStore) makeRequest(ctx context.Context, op, method, path string, body any, headers map[string]string) ([]byte, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.endpoint+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", s.projectID)
	if s.apiKey != "" {
		req.Header.Set("X-Appwrite-Key", s.apiKey)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, Failed(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Failed(op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode >= 400 {
		return nil, statusError(op, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func statusError(op string, status int, body []byte) error {
	var apiErr apiError
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	e := &Error{Op: op, Status: status, Message: msg}
	switch status {
	case http.StatusNotFound:
		e.Err = ErrDocumentNotFound
	case http.StatusConflict:
		e.Err = ErrConflict
	case http.StatusUnauthorized:
		e.Err = ErrUnauthorized
	}
	return e
}

func documentsPath(databaseID, collectionID string) string {
	return "/databases/" + url.PathEscape(databaseID) + "/collections/" + url.PathEscape(collectionID) + "/documents"
}

func (s *RESTStore) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any, permissions []string) (*Document, error) {
	payload := map[string]any{
		"documentId":  documentID,
		"data":        data,
		"permissions": permissions,
	}
	raw, err := s.makeRequest(ctx, "create", http.MethodPost, documentsPath(databaseID, collectionID), payload, nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (s *RESTStore) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	raw, err := s.makeRequest(ctx, "get", http.MethodGet, documentsPath(databaseID, collectionID)+"/"+url.PathEscape(documentID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (s *RESTStore) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error) {
	payload := map[string]any{"data": data}
	raw, err := s.makeRequest(ctx, "update", http.MethodPatch, documentsPath(databaseID, collectionID)+"/"+url.PathEscape(documentID), payload, nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}

func (s *RESTStore) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	_, err := s.makeRequest(ctx, "delete", http.MethodDelete, documentsPath(databaseID, collectionID)+"/"+url.PathEscape(documentID), nil, nil)
	return err
}

func (s *RESTStore) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) ([]Document, error) {
	path := documentsPath(databaseID, collectionID)
	if len(queries) > 0 {
		values := url.Values{}
		for _, q := range queries {
			encoded, err := json.Marshal(map[string]any{
				"method":    "equal",
				"attribute": q.Attribute,
				"values":    []any{q.Value},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to encode query: %w", err)
			}
			values.Add("queries[]", string(encoded))
		}
		path += "?" + values.Encode()
	}

	raw, err := s.makeRequest(ctx, "list", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Total     int               `json:"total"`
		Documents []json.RawMessage `json:"documents"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, Failed("list", fmt.Errorf("failed to decode response: %w", err))
	}

	docs := make([]Document, 0, len(resp.Documents))
	for _, item := range resp.Documents {
		doc, err := decodeDocument(item)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// decodeDocument splits a flat document into metadata ($-prefixed keys) and attributes.
func decodeDocument(raw []byte) (*Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, Failed("decode", fmt.Errorf("failed to decode document: %w", err))
	}

	doc := &Document{Data: make(map[string]any, len(fields))}
	for key, value := range fields {
		if !strings.HasPrefix(key, "$") {
			doc.Data[key] = value
			continue
		}
		switch key {
		case "$id":
			doc.ID, _ = value.(string)
		case "$createdAt":
			doc.CreatedAt = parseTime(value)
		case "$updatedAt":
			doc.UpdatedAt = parseTime(value)
		case "$permissions":
			if perms, ok := value.([]any); ok {
				for _, p := range perms {
					if s, ok := p.(string); ok {
						doc.Permissions = append(doc.Permissions, s)
					}
				}
			}
		}
	}
	return doc, nil
}

func parseTime(value any) time.Time {
	s, ok := value.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
