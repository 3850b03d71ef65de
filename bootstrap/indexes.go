package bootstrap

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureUserIndexes enforces username/email uniqueness at the store. Post
// likes need no index: they live inside the post document and the duplicate
// guard is the update filter.
func EnsureUserIndexes(db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(
		context.Background(),
		[]mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_username"),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
	)
	return err
}

// EnsurePostIndexes backs the newest-first feed sort.
func EnsurePostIndexes(db *mongo.Database) error {
	_, err := db.Collection("posts").Indexes().CreateOne(
		context.Background(),
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("feed_newest_first"),
		},
	)
	return err
}
