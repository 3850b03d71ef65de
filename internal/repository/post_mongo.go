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

// PostStore keeps each post as one document with embedded comments, so every
// mutation below is atomic at the document level: ownership and idempotence
// conditions sit inside the update filter and are re-checked by the server
// under the same atomicity (two simultaneous likes race safely).
type PostStore struct {
	col *mongo.Collection
}

var _ engine.Store = (*PostStore)(nil)

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection("posts")}
}

func (s *PostStore) CreatePost(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC()
	p.ID = bson.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []model.Comment{}
	}
	_, err := s.col.InsertOne(ctx, p)
	return err
}

func (s *PostStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	oid, err := postOID(id)
	if err != nil {
		return nil, err
	}
	var p model.Post
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, engine.NotFound("Post not found")
		}
		return nil, err
	}
	return &p, nil
}

// ListPosts returns posts newest-first; _id desc breaks created_at ties in
// insertion order.
func (s *PostStore) ListPosts(ctx context.Context, username string) ([]model.Post, error) {
	filter := bson.M{}
	if username != "" {
		filter["username"] = username
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostStore) LikePost(ctx context.Context, postID, username string) (*model.Post, error) {
	oid, err := postOID(postID)
	if err != nil {
		return nil, err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "likes": bson.M{"$ne": username}},
		bson.M{
			"$push": bson.M{"likes": username},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		// Either the post is gone or the actor already liked it.
		if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, engine.NotFound("Post not found")
			}
			return nil, err
		}
		return nil, engine.AlreadyLiked("Post already liked")
	}
	return s.GetPost(ctx, postID)
}

func (s *PostStore) AddComment(ctx context.Context, postID string, c model.Comment) (*model.Post, error) {
	oid, err := postOID(postID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.ID = bson.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Likes == nil {
		c.Likes = []string{}
	}

	var p model.Post
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"comments": c},
			"$set":  bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, engine.NotFound("Post not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) EditComment(ctx context.Context, postID, commentID, username, text string) (*model.Post, error) {
	oid, cid, err := s.checkCommentOwner(ctx, postID, commentID, username, "You can only edit your own comments")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var p model.Post
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "comments": bson.M{"$elemMatch": bson.M{"_id": cid, "username": username}}},
		bson.M{"$set": bson.M{
			"comments.$.text":       text,
			"comments.$.updated_at": now,
			"updated_at":            now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The comment was removed between the check and the update.
			return nil, engine.NotFound("Comment not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) DeleteComment(ctx context.Context, postID, commentID, username string) (*model.Post, error) {
	oid, cid, err := s.checkCommentOwner(ctx, postID, commentID, username, "You can only delete your own comments")
	if err != nil {
		return nil, err
	}

	var p model.Post
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "comments": bson.M{"$elemMatch": bson.M{"_id": cid, "username": username}}},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": cid, "username": username}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, engine.NotFound("Comment not found")
		}
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) LikeComment(ctx context.Context, postID, commentID, username string) (*model.Post, error) {
	oid, err := postOID(postID)
	if err != nil {
		return nil, err
	}
	cid, err := commentOID(commentID)
	if err != nil {
		return nil, err
	}

	var p model.Post
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "comments": bson.M{"$elemMatch": bson.M{"_id": cid, "likes": bson.M{"$ne": username}}}},
		bson.M{
			"$push": bson.M{"comments.$.likes": username},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Filter missed: post gone, comment gone, or like already present.
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CommentByID(commentID) == nil {
		return nil, engine.NotFound("Comment not found")
	}
	return nil, engine.AlreadyLiked("Comment already liked")
}

// checkCommentOwner classifies NotFound vs Forbidden before the conditional
// update; the update filter re-asserts ownership atomically.
func (s *PostStore) checkCommentOwner(ctx context.Context, postID, commentID, username, denied string) (bson.ObjectID, bson.ObjectID, error) {
	oid, err := postOID(postID)
	if err != nil {
		return bson.ObjectID{}, bson.ObjectID{}, err
	}
	cid, err := commentOID(commentID)
	if err != nil {
		return bson.ObjectID{}, bson.ObjectID{}, err
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return bson.ObjectID{}, bson.ObjectID{}, err
	}
	comment := post.CommentByID(commentID)
	if comment == nil {
		return bson.ObjectID{}, bson.ObjectID{}, engine.NotFound("Comment not found")
	}
	if !comment.OwnedBy(username) {
		return bson.ObjectID{}, bson.ObjectID{}, engine.Forbidden(denied)
	}
	return oid, cid, nil
}

func postOID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, engine.NotFound("Post not found")
	}
	return oid, nil
}

func commentOID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, engine.NotFound("Comment not found")
	}
	return oid, nil
}
