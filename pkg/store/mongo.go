package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const permissionsField = "_acl"

// MongoStore implements Store on a MongoDB database: one Mongo collection per
// logical collection, string document IDs, permission grants persisted under
// a reserved field. Throttling responses from the server (Atlas returns code
// 16500 when a cluster sheds load) are classified as ErrRateLimited so the
// batch layer can back off.
type MongoStore struct {
	db           *mongo.Database
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoStore(db *mongo.Database, readTimeout, writeTimeout time.Duration) *MongoStore {
	return &MongoStore{db: db, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

func (s *MongoStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *MongoStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case "eq":
			filter[f.Field] = f.Value
		case "lt":
			filter[f.Field] = bson.M{"$lt": f.Value}
		case "gt":
			filter[f.Field] = bson.M{"$gt": f.Value}
		default:
			return nil, fmt.Errorf("store: unsupported filter op %q", f.Op)
		}
	}
	if q.CursorAfter != "" {
		filter["_id"] = bson.M{"$gt": q.CursorAfter}
	}

	orderBy := "_id"
	if q.OrderBy != "" && q.OrderBy != "$id" {
		orderBy = q.OrderBy
	}
	direction := 1
	if q.Descending {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: orderBy, Value: direction}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("store: decode document: %w", err)
		}
		docs = append(docs, fromRaw(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, classify(err)
	}
	return docs, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		return Document{}, classify(err)
	}
	return fromRaw(raw), nil
}

func (s *MongoStore) Create(ctx context.Context, collection, id string, fields map[string]any, perms []Permission) (Document, error) {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	if id == "" {
		id = NewID()
	}
	raw := bson.M{"_id": id}
	for k, v := range fields {
		raw[k] = v
	}
	if len(perms) > 0 {
		acl := make([]bson.M, 0, len(perms))
		for _, p := range perms {
			acl = append(acl, bson.M{"action": p.Action, "role": p.Role})
		}
		raw[permissionsField] = acl
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, raw); err != nil {
		return Document{}, classify(err)
	}
	return Document{ID: id, Fields: copyFields(fields), Permissions: append([]Permission(nil), perms...)}, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) (Document, error) {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return Document{}, classify(err)
	}
	if result.MatchedCount == 0 {
		return Document{}, ErrNotFound
	}
	return s.Get(ctx, collection, id)
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func fromRaw(raw bson.M) Document {
	doc := Document{Fields: map[string]any{}}
	for k, v := range raw {
		switch k {
		case "_id":
			doc.ID, _ = v.(string)
		case permissionsField:
			doc.Permissions = decodePermissions(v)
		default:
			doc.Fields[k] = v
		}
	}
	return doc
}

func decodePermissions(v any) []Permission {
	entries, ok := v.(bson.A)
	if !ok {
		return nil
	}
	var perms []Permission
	for _, e := range entries {
		m, ok := e.(bson.M)
		if !ok {
			continue
		}
		action, _ := m["action"].(string)
		role, _ := m["role"].(string)
		perms = append(perms, Permission{Action: action, Role: role})
	}
	return perms
}

// classify maps driver failures onto the store's error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 16500 {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return err
}
