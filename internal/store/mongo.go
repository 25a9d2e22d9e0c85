package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore keeps documents in MongoDB. The database ID selects the Mongo database and
// the collection ID the Mongo collection.
type MongoStore struct {
	client *mongo.Client
}

var _ DocumentStore = (*MongoStore)(nil)

type mongoDocument struct {
	ID          string         `bson:"_id"`
	Data        map[string]any `bson:"data"`
	Permissions []string       `bson:"permissions"`
	CreatedAt   time.Time      `bson:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at"`
}

func (d *mongoDocument) toDocument() *Document {
	return &Document{
		ID:          d.ID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Permissions: d.Permissions,
		Data:        d.Data,
	}
}

// NewMongoStore connects to uri and checks the connection.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	log.Println("✅ Connected to MongoDB")
	return &MongoStore{client: client}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) collection(databaseID, collectionID string) *mongo.Collection {
	return s.client.Database(databaseID).Collection(collectionID)
}

func (s *MongoStore) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any, permissions []string) (*Document, error) {
	now := time.Now().UTC()
	doc := &mongoDocument{
		ID:          documentID,
		Data:        data,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}

	if _, err := s.collection(databaseID, collectionID).InsertOne(ctx, doc); err != nil {
		return nil, mongoError("create", documentID, err)
	}
	return doc.toDocument(), nil
}

func (s *MongoStore) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (*Document, error) {
	var doc mongoDocument
	err := s.collection(databaseID, collectionID).FindOne(ctx, bson.M{"_id": documentID}).Decode(&doc)
	if err != nil {
		return nil, mongoError("get", documentID, err)
	}
	return doc.toDocument(), nil
}

func (s *MongoStore) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*Document, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoDocument
	err := s.collection(databaseID, collectionID).
		FindOneAndUpdate(ctx, bson.M{"_id": documentID}, updateSet(data, time.Now().UTC()), opts).
		Decode(&doc)
	if err != nil {
		return nil, mongoError("update", documentID, err)
	}
	return doc.toDocument(), nil
}

func (s *MongoStore) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	res, err := s.collection(databaseID, collectionID).DeleteOne(ctx, bson.M{"_id": documentID})
	if err != nil {
		return Failed("delete", err)
	}
	if res.DeletedCount == 0 {
		return NotFound("delete", documentID)
	}
	return nil
}

func (s *MongoStore) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...Query) ([]Document, error) {
	opts := options.Find().SetLimit(DefaultPageSize)

	cursor, err := s.collection(databaseID, collectionID).Find(ctx, queryFilter(queries), opts)
	if err != nil {
		return nil, Failed("list", err)
	}
	defer cursor.Close(ctx)

	var rows []mongoDocument
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, Failed("list", err)
	}

	docs := make([]Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, *rows[i].toDocument())
	}
	return docs, nil
}

// mongoError maps driver errors onto the store's error kinds.
func mongoError(op, documentID string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return NotFound(op, documentID)
	case mongo.IsDuplicateKeyError(err):
		return Conflict(op, documentID)
	default:
		return Failed(op, err)
	}
}

// queryFilter turns equality queries into a filter on the nested data document.
func queryFilter(queries []Query) bson.M {
	filter := bson.M{}
	for _, q := range queries {
		filter["data."+q.Attribute] = q.Value
	}
	return filter
}

// updateSet sets only the supplied attributes and bumps updated_at.
func updateSet(data map[string]any, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	for k, v := range data {
		set["data."+k] = v
	}
	return bson.M{"$set": set}
}
