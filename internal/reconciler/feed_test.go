package reconciler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"socialhub/internal/realtime"
	"socialhub/model"
)

func makePost(username, text string) model.Post {
	return model.Post{
		ID:        bson.NewObjectID(),
		Username:  username,
		Text:      text,
		Likes:     []string{},
		Comments:  []model.Comment{},
		CreatedAt: time.Now().UTC(),
	}
}

func TestFeedApplyNewPostPrepends(t *testing.T) {
	f := NewFeed()
	old := makePost("alice", "old")
	f.Replace([]model.Post{old})

	fresh := makePost("bob", "fresh")
	f.Apply(realtime.Event{Type: realtime.EventNewPost, Payload: fresh})

	got := f.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, fresh.ID, got[0].ID)
	assert.Equal(t, old.ID, got[1].ID)
}

func TestFeedApplyLikesReplacesOnlyLikes(t *testing.T) {
	f := NewFeed()
	target := makePost("alice", "target")
	target.Comments = []model.Comment{{ID: bson.NewObjectID(), Username: "bob", Text: "hi"}}
	other := makePost("carol", "other")
	other.Likes = []string{"dan"}
	f.Replace([]model.Post{target, other})

	f.Apply(realtime.Event{
		Type:    realtime.EventLikePost,
		Payload: realtime.PostLikes{PostID: target.ID.Hex(), Likes: []string{"bob", "carol"}},
	})

	got := f.Snapshot()
	assert.Equal(t, []string{"bob", "carol"}, got[0].Likes)
	assert.Equal(t, "target", got[0].Text)
	assert.Len(t, got[0].Comments, 1)
	assert.Equal(t, []string{"dan"}, got[1].Likes)
}

func TestFeedApplyCommentsReplacesOnlyComments(t *testing.T) {
	f := NewFeed()
	target := makePost("alice", "target")
	target.Likes = []string{"bob"}
	f.Replace([]model.Post{target})

	comments := []model.Comment{
		{ID: bson.NewObjectID(), Username: "bob", Text: "first"},
		{ID: bson.NewObjectID(), Username: "carol", Text: "second"},
	}
	f.Apply(realtime.Event{
		Type:    realtime.EventNewComment,
		Payload: realtime.PostComments{PostID: target.ID.Hex(), Comments: comments},
	})

	got := f.Snapshot()[0]
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "second", got.Comments[1].Text)
	assert.Equal(t, []string{"bob"}, got.Likes)
}

func TestFeedApplyCommentLikes(t *testing.T) {
	f := NewFeed()
	post := makePost("alice", "p")
	c1 := model.Comment{ID: bson.NewObjectID(), Username: "bob", Text: "a", Likes: []string{}}
	c2 := model.Comment{ID: bson.NewObjectID(), Username: "carol", Text: "b", Likes: []string{}}
	post.Comments = []model.Comment{c1, c2}
	f.Replace([]model.Post{post})

	f.Apply(realtime.Event{
		Type: realtime.EventCommentLike,
		Payload: realtime.CommentLikes{
			PostID:    post.ID.Hex(),
			CommentID: c2.ID.Hex(),
			Likes:     []string{"alice"},
		},
	})

	got := f.Snapshot()[0]
	assert.Empty(t, got.Comments[0].Likes)
	assert.Equal(t, []string{"alice"}, got.Comments[1].Likes)
}

func TestFeedApplyIgnoresUnknownPost(t *testing.T) {
	f := NewFeed()
	post := makePost("alice", "p")
	f.Replace([]model.Post{post})

	f.Apply(realtime.Event{
		Type:    realtime.EventLikePost,
		Payload: realtime.PostLikes{PostID: bson.NewObjectID().Hex(), Likes: []string{"x"}},
	})
	f.Apply(realtime.Event{
		Type: realtime.EventCommentLike,
		Payload: realtime.CommentLikes{
			PostID:    post.ID.Hex(),
			CommentID: bson.NewObjectID().Hex(),
			Likes:     []string{"x"},
		},
	})
	f.Apply(realtime.Event{Type: "mystery", Payload: nil})

	got := f.Snapshot()
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Likes)
}

func TestFeedSnapshotIsACopy(t *testing.T) {
	f := NewFeed()
	f.Replace([]model.Post{makePost("alice", "p")})

	snap := f.Snapshot()
	snap[0].Text = "mutated"

	assert.Equal(t, "p", f.Snapshot()[0].Text)
	assert.Equal(t, 1, f.Len())
}
