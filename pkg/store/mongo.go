package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements UserStore on a MongoDB collection. Sequential ids
// come from a counter document so Mongo-backed and SQL-backed deployments
// present the same id shape.
type MongoStore struct {
	client            *mongo.Client
	collection        *mongo.Collection
	counterCollection *mongo.Collection
}

const mongoCloseTimeout = 5 * time.Second

type mongoUserDocument struct {
	ID           int64     `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		return nil, errors.New("mongo collection name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(database)
	return &MongoStore{
		client:            client,
		collection:        db.Collection(collection),
		counterCollection: db.Collection("counters"),
	}, nil
}

func (ms *MongoStore) Create(ctx context.Context, name, email, passwordHash string) (int64, error) {
	id, err := ms.nextID(ctx)
	if err != nil {
		return 0, err
	}
	doc := mongoUserDocument{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := ms.collection.InsertOne(ctx, doc); err != nil {
		return 0, err
	}
	return id, nil
}

func (ms *MongoStore) Find(ctx context.Context, id int64) (User, error) {
	var doc mongoUserDocument
	err := ms.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return doc.toUser(), nil
}

func (ms *MongoStore) Save(ctx context.Context, u User) error {
	res, err := ms.collection.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (ms *MongoStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := ms.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (ms *MongoStore) Count(ctx context.Context) (int, error) {
	total, err := ms.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (ms *MongoStore) Paginate(ctx context.Context, page, perPage int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total, err := ms.Count(ctx)
	if err != nil {
		return Page{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
	cursor, err := ms.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return Page{}, err
	}
	items, err := decodeUsers(ctx, cursor)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:       items,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage(total, perPage),
	}, nil
}

func (ms *MongoStore) ListRecent(ctx context.Context, n int) ([]User, error) {
	if n < 0 {
		n = 0
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(n))
	cursor, err := ms.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	return decodeUsers(ctx, cursor)
}

// Close disconnects the underlying client.
func (ms *MongoStore) Close() error {
	if ms == nil || ms.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

func (ms *MongoStore) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	res := ms.counterCollection.FindOneAndUpdate(ctx, bson.M{"_id": ms.collection.Name()}, bson.M{"$inc": bson.M{"seq": 1}}, opts)
	if res.Err() != nil {
		return 0, res.Err()
	}
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func decodeUsers(ctx context.Context, cursor *mongo.Cursor) ([]User, error) {
	defer cursor.Close(ctx)
	var items []User
	for cursor.Next(ctx) {
		var doc mongoUserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc.toUser())
	}
	return items, cursor.Err()
}

func (d mongoUserDocument) toUser() User {
	return User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

var _ UserStore = (*MongoStore)(nil)
