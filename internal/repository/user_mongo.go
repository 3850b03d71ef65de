package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"socialhub/internal/engine"
	"socialhub/model"
)

// UserStore backs the identity provider. Lookups return (nil, nil) when no
// user matches.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	_, err := s.col.InsertOne(ctx, u)
	return err
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"$or": []bson.M{{"username": username}, {"email": email}}})
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) SetProfileImage(ctx context.Context, id, path string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var u model.User
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"profile_image": path}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UsernameByID satisfies engine.Users.
func (s *UserStore) UsernameByID(ctx context.Context, id string) (string, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", engine.NotFound("User not found")
	}
	return u.Username, nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := s.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
