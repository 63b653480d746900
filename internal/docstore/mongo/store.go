// Package mongo is the docstore adapter backed by MongoDB: templates in a
// shared collection keyed by cache key, instances in a per-user-filtered
// collection. Itineraries are stored as JSON blobs; they are opaque
// artifacts, never queried field-by-field.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripforge/internal/docstore"
	"tripforge/internal/trip"
)

type Store struct {
	client    *mongo.Client
	templates *mongo.Collection
	instances *mongo.Collection
}

func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(dbName)
	return &Store{
		client:    client,
		templates: db.Collection("trip_templates"),
		instances: db.Collection("trip_instances"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

type templateDoc struct {
	Key       string    `bson:"cache_key"`
	Itinerary []byte    `bson:"itinerary"`
	ImageURL  string    `bson:"image_url"`
	CreatedAt time.Time `bson:"created_at"`
}

type instanceDoc struct {
	ID        string    `bson:"instance_id"`
	UserID    string    `bson:"user_id"`
	Doc       []byte    `bson:"doc"`
	CreatedAt time.Time `bson:"created_at"`
}

func (s *Store) GetTemplate(ctx context.Context, key string) (trip.Template, error) {
	var doc templateDoc
	err := s.templates.FindOne(ctx, bson.M{"cache_key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return trip.Template{}, docstore.ErrNotFound
		}
		return trip.Template{}, fmt.Errorf("get template %q: %w", key, err)
	}
	tpl := trip.Template{Key: doc.Key, ImageURL: doc.ImageURL, CreatedAt: doc.CreatedAt}
	if err := json.Unmarshal(doc.Itinerary, &tpl.Itinerary); err != nil {
		return trip.Template{}, fmt.Errorf("decode template %q: %w", key, err)
	}
	return tpl, nil
}

func (s *Store) PutTemplate(ctx context.Context, tpl trip.Template) error {
	blob, err := json.Marshal(tpl.Itinerary)
	if err != nil {
		return fmt.Errorf("encode template %q: %w", tpl.Key, err)
	}
	doc := templateDoc{Key: tpl.Key, Itinerary: blob, ImageURL: tpl.ImageURL, CreatedAt: tpl.CreatedAt}
	_, err = s.templates.ReplaceOne(ctx, bson.M{"cache_key": tpl.Key}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put template %q: %w", tpl.Key, err)
	}
	return nil
}

func (s *Store) PutInstance(ctx context.Context, inst trip.Instance) error {
	blob, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("encode instance %q: %w", inst.ID, err)
	}
	doc := instanceDoc{ID: inst.ID, UserID: inst.UserID, Doc: blob, CreatedAt: inst.CreatedAt}
	_, err = s.instances.ReplaceOne(ctx,
		bson.M{"instance_id": inst.ID, "user_id": inst.UserID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put instance %q: %w", inst.ID, err)
	}
	return nil
}

func (s *Store) GetInstance(ctx context.Context, userID, id string) (trip.Instance, error) {
	var doc instanceDoc
	err := s.instances.FindOne(ctx, bson.M{"instance_id": id, "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return trip.Instance{}, docstore.ErrNotFound
		}
		return trip.Instance{}, fmt.Errorf("get instance %q: %w", id, err)
	}
	var inst trip.Instance
	if err := json.Unmarshal(doc.Doc, &inst); err != nil {
		return trip.Instance{}, fmt.Errorf("decode instance %q: %w", id, err)
	}
	return inst, nil
}

func (s *Store) ListInstances(ctx context.Context, userID string) ([]trip.Instance, error) {
	cursor, err := s.instances.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("list instances for %q: %w", userID, err)
	}
	defer cursor.Close(ctx)

	out := make([]trip.Instance, 0, 8)
	for cursor.Next(ctx) {
		var doc instanceDoc
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		var inst trip.Instance
		if err := json.Unmarshal(doc.Doc, &inst); err != nil {
			continue
		}
		out = append(out, inst)
	}
	return out, cursor.Err()
}

func (s *Store) DeleteInstance(ctx context.Context, userID, id string) error {
	res, err := s.instances.DeleteOne(ctx, bson.M{"instance_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete instance %q: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) SetInstanceActive(ctx context.Context, userID, id string, active bool) error {
	inst, err := s.GetInstance(ctx, userID, id)
	if err != nil {
		return err
	}
	inst.Active = active
	return s.PutInstance(ctx, inst)
}
