package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

const (
	appointmentsCollection = "appointments"
	usersCollection        = "users"
	countersCollection     = "counters"
)

// nextSequence atomically increments and returns the named counter.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int, error) {
	var doc struct {
		Seq int `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := db.Collection(countersCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// MongoAppointmentStore is the durable AppointmentStore.
type MongoAppointmentStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewMongoAppointmentStore(db *mongo.Database) *MongoAppointmentStore {
	return &MongoAppointmentStore{db: db, coll: db.Collection(appointmentsCollection)}
}

func (s *MongoAppointmentStore) Create(ctx context.Context, in models.NewAppointment) (*models.Appointment, error) {
	id, err := nextSequence(ctx, s.db, appointmentsCollection)
	if err != nil {
		return nil, err
	}
	apt := models.Appointment{
		ID:            id,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Symptoms:      in.Symptoms,
		Status:        models.StatusPending,
		// BSON dates carry millisecond precision.
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, apt); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return &apt, nil
}

func (s *MongoAppointmentStore) Get(ctx context.Context, id int) (*models.Appointment, error) {
	var apt models.Appointment
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment %d: %w", id, err)
	}
	return &apt, nil
}

func (s *MongoAppointmentStore) List(ctx context.Context) ([]models.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appointments, nil
}

func (s *MongoAppointmentStore) Update(ctx context.Context, id int, u models.AppointmentUpdate) (*models.Appointment, error) {
	set := bson.M{}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	var apt models.Appointment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&apt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment %d: %w", id, err)
	}
	return &apt, nil
}

func (s *MongoAppointmentStore) Delete(ctx context.Context, id int) (*models.Appointment, error) {
	var apt models.Appointment
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&apt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete appointment %d: %w", id, err)
	}
	return &apt, nil
}

// MongoUserStore is the durable UserStore.
type MongoUserStore struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{db: db, coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

func (s *MongoUserStore) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	id, err := nextSequence(ctx, s.db, usersCollection)
	if err != nil {
		return nil, err
	}
	u := models.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
