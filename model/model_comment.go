package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Comment is owned by its parent Post and has no collection of its own.
type Comment struct {
	ID        bson.ObjectID `json:"_id"       bson:"_id"`
	Username  string        `json:"username"  bson:"username"`
	Text      string        `json:"text"      bson:"text"`
	Likes     []string      `json:"likes"     bson:"likes"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}

// OwnedBy is the single write-capability check for comment edit/delete.
func (c *Comment) OwnedBy(username string) bool {
	return c.Username == username
}

// HasLike reports whether username already appears in the like set.
func (c *Comment) HasLike(username string) bool {
	for _, u := range c.Likes {
		if u == username {
			return true
		}
	}
	return false
}
