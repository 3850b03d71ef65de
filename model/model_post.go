package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is the aggregate root: comments and like sets live inside the post
// document so every mutation is a single-document write.
type Post struct {
	ID        bson.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Username  string        `json:"username"  bson:"username"`
	Text      string        `json:"text"      bson:"text"`
	Image     string        `json:"image"     bson:"image"`
	Likes     []string      `json:"likes"     bson:"likes"`
	Comments  []Comment     `json:"comments"  bson:"comments"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// HasLike reports whether username already appears in the like set.
func (p *Post) HasLike(username string) bool {
	for _, u := range p.Likes {
		if u == username {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given hex id, or nil.
func (p *Post) CommentByID(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID.Hex() == id {
			return &p.Comments[i]
		}
	}
	return nil
}
