package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"movies/internal/movie"
)

// код ошибки NamespaceExists при создании уже существующей коллекции
const codeNamespaceExists = 48

// movieDoc документ фильма в mongodb
type movieDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Director    string        `bson:"director"`
	ReleaseYear int           `bson:"releaseYear"`
	Genres      []string      `bson:"genres"`
	Ratings     []float64     `bson:"ratings"`
	Cast        []string      `bson:"cast"`
}

func toDoc(m movie.Movie) movieDoc {
	m = m.Normalize()
	return movieDoc{
		Title:       m.Title,
		Director:    m.Director,
		ReleaseYear: m.ReleaseYear,
		Genres:      m.Genres,
		Ratings:     m.Ratings,
		Cast:        m.Cast,
	}
}

func (d movieDoc) movie() movie.Movie {
	return movie.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Director:    d.Director,
		ReleaseYear: d.ReleaseYear,
		Genres:      d.Genres,
		Ratings:     d.Ratings,
		Cast:        d.Cast,
	}.Normalize()
}

// movieValidator схема коллекции: title, director, releaseYear обязательны
var movieValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   bson.A{"title", "director", "releaseYear"},
		"properties": bson.M{
			"title":       bson.M{"bsonType": "string"},
			"director":    bson.M{"bsonType": "string"},
			"releaseYear": bson.M{"bsonType": bson.A{"int", "long"}},
			"genres":      bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"ratings":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": bson.A{"double", "int", "long"}}},
			"cast":        bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
		},
	},
}

type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo подключается, пингует сервер и создает коллекцию с валидатором
func OpenMongo(ctx context.Context, uri, database, collection string, timeout time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	if err := ensureCollection(ctx, db, collection); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &MongoStore{client: client, coll: db.Collection(collection)}, nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name, options.CreateCollection().SetValidator(movieValidator))

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]movie.Movie, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer cur.Close(ctx)

	var docs []movieDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}

	movies := make([]movie.Movie, 0, len(docs))
	for _, d := range docs {
		movies = append(movies, d.movie())
	}
	return movies, nil
}

func (s *MongoStore) Insert(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	if err := m.Validate(); err != nil {
		return movie.Movie{}, fmt.Errorf("validation failed: %w", err)
	}

	doc := toDoc(m)
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("insert movie: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		doc.ID = id
	}
	return doc.movie(), nil
}

func (s *MongoStore) UpdateByTitle(ctx context.Context, title string, patch movie.Patch) (movie.Movie, error) {
	filter := bson.M{"title": title}

	var doc movieDoc
	var err error
	if patch.Empty() {
		// пустой $set сервер не принимает, просто читаем документ
		err = s.coll.FindOne(ctx, filter).Decode(&doc)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		update := bson.M{"$set": bson.M(patch.Fields())}
		err = s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return movie.Movie{}, ErrNotFound
	}
	if err != nil {
		return movie.Movie{}, fmt.Errorf("update movie %q: %w", title, err)
	}
	return doc.movie(), nil
}

func (s *MongoStore) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"title": title})
	if err != nil {
		return 0, fmt.Errorf("delete movie %q: %w", title, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
