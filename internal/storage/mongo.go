package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps collections one to one onto MongoDB collections. The
// document id is kept in "_id" and exposed as "id".
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
}

func NewMongoStore(ctx context.Context, uri string, databaseName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoStore{client: client, database: client.Database(databaseName)}, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	stored := doc.clone()
	if stored == nil {
		stored = Document{}
	}

	id := stored.ID()
	if id == "" {
		id = uuid.New().String()
	}
	delete(stored, "id")
	stored["_id"] = id

	if _, err := s.database.Collection(collection).InsertOne(ctx, bson.M(stored)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrAlreadyExists, collection, id)
		}
		return "", err
	}

	return id, nil
}

func (s *MongoStore) Get(ctx context.Context, collection string, id string) (Document, error) {
	var raw bson.M

	err := s.database.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return fromBSONDocument(raw), nil
}

func (s *MongoStore) Update(
	ctx context.Context,
	collection string,
	id string,
	patch Patch,
	conditions ...Predicate,
) error {
	if err := validatePredicates(conditions); err != nil {
		return err
	}

	coll := s.database.Collection(collection)

	filter := mongoFilter(append([]Predicate{Where("id", OpEqual, id)}, conditions...))
	update := mongoUpdate(patch)

	var matched int64
	if len(update) == 0 {
		count, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		matched = count
	} else {
		result, err := coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		matched = result.MatchedCount
	}

	if matched > 0 {
		return nil
	}

	exists, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if exists == 0 {
		return ErrNotFound
	}

	return ErrConditionFailed
}

func (s *MongoStore) Delete(ctx context.Context, collection string, id string) error {
	result, err := s.database.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, query Query) ([]Document, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	findOptions := options.Find()
	if query.OrderBy != "" {
		direction := 1
		if query.Descending {
			direction = -1
		}
		findOptions.SetSort(bson.D{{Key: mongoField(query.OrderBy), Value: direction}})
	}
	if query.Offset > 0 {
		findOptions.SetSkip(int64(query.Offset))
	}
	if query.Limit > 0 {
		findOptions.SetLimit(int64(query.Limit))
	}

	cursor, err := s.database.Collection(collection).Find(ctx, mongoFilter(query.Predicates), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, err
	}

	result := make([]Document, 0, len(raws))
	for _, raw := range raws {
		result = append(result, fromBSONDocument(raw))
	}

	return result, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoField(field string) string {
	if field == "id" {
		return "_id"
	}

	return field
}

func mongoFilter(predicates []Predicate) bson.M {
	if len(predicates) == 0 {
		return bson.M{}
	}

	clauses := make([]bson.M, 0, len(predicates))
	for _, p := range predicates {
		field := mongoField(p.Field)
		value := normalizeValue(p.Value)

		switch p.Op {
		case OpEqual, OpArrayContains:
			// an equality match on an array field matches any element
			clauses = append(clauses, bson.M{field: bson.M{"$eq": value}})
		case OpNotArrayContains:
			clauses = append(clauses, bson.M{field: bson.M{"$ne": value}})
		case OpIn:
			values, _ := inValues(p.Value)
			clauses = append(clauses, bson.M{field: bson.M{"$in": values}})
		case OpGreaterOrEqual:
			clauses = append(clauses, bson.M{field: bson.M{"$gte": value}})
		case OpLessOrEqual:
			clauses = append(clauses, bson.M{field: bson.M{"$lte": value}})
		case OpLessThan:
			clauses = append(clauses, bson.M{field: bson.M{"$lt": value}})
		}
	}

	return bson.M{"$and": clauses}
}

func mongoUpdate(patch Patch) bson.M {
	update := bson.M{}

	if len(patch.Set) > 0 {
		set := bson.M{}
		for field, value := range patch.Set {
			set[field] = normalizeValue(value)
		}
		update["$set"] = set
	}

	if len(patch.Unset) > 0 {
		unset := bson.M{}
		for _, field := range patch.Unset {
			unset[field] = ""
		}
		update["$unset"] = unset
	}

	if len(patch.Append) > 0 {
		addToSet := bson.M{}
		for field, value := range patch.Append {
			addToSet[field] = normalizeValue(value)
		}
		update["$addToSet"] = addToSet
	}

	if len(patch.Remove) > 0 {
		pull := bson.M{}
		for field, value := range patch.Remove {
			pull[field] = normalizeValue(value)
		}
		update["$pull"] = pull
	}

	return update
}

func fromBSONDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = fromBSON(v)
	}

	if id, ok := doc["_id"]; ok {
		doc["id"] = fmt.Sprint(id)
		delete(doc, "_id")
	}

	return doc
}

func fromBSON(value any) any {
	switch v := value.(type) {
	case primitive.M:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[k] = fromBSON(item)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case primitive.A:
		a := make([]any, len(v))
		for i, item := range v {
			a[i] = fromBSON(item)
		}
		return a
	case primitive.DateTime:
		return v.Time().UTC()
	case int32:
		return int64(v)
	}

	return value
}
