package reconciler

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"socialhub/internal/realtime"
	"socialhub/model"
)

func TestDecodeEvent(t *testing.T) {
	postID := bson.NewObjectID()

	t.Run("newPost", func(t *testing.T) {
		data, err := json.Marshal(realtime.PostCreated(&model.Post{ID: postID, Username: "alice", Text: "hi"}))
		require.NoError(t, err)

		evt, err := decodeEvent(data)
		require.NoError(t, err)
		assert.Equal(t, realtime.EventNewPost, evt.Type)
		p, ok := evt.Payload.(model.Post)
		require.True(t, ok)
		assert.Equal(t, postID, p.ID)
		assert.Equal(t, "alice", p.Username)
	})

	t.Run("likePost", func(t *testing.T) {
		evt, err := decodeEvent([]byte(`{"type":"likePost","payload":{"postId":"p1","likes":["bob"]}}`))
		require.NoError(t, err)
		p, ok := evt.Payload.(realtime.PostLikes)
		require.True(t, ok)
		assert.Equal(t, "p1", p.PostID)
		assert.Equal(t, []string{"bob"}, p.Likes)
	})

	t.Run("comment events share a payload shape", func(t *testing.T) {
		for _, typ := range []string{"newComment", "editComment", "deleteComment"} {
			frame := `{"type":"` + typ + `","payload":{"postId":"p1","comments":[]}}`
			evt, err := decodeEvent([]byte(frame))
			require.NoError(t, err)
			_, ok := evt.Payload.(realtime.PostComments)
			assert.True(t, ok, typ)
		}
	})

	t.Run("commentLike", func(t *testing.T) {
		evt, err := decodeEvent([]byte(`{"type":"commentLike","payload":{"postId":"p1","commentId":"c1","likes":["alice"]}}`))
		require.NoError(t, err)
		p, ok := evt.Payload.(realtime.CommentLikes)
		require.True(t, ok)
		assert.Equal(t, "c1", p.CommentID)
	})

	t.Run("notification", func(t *testing.T) {
		evt, err := decodeEvent([]byte(`{"type":"notification","payload":{"type":"like","postId":"p1","username":"bob","postOwner":"alice","message":"bob liked your post"}}`))
		require.NoError(t, err)
		n, ok := evt.Payload.(realtime.Notification)
		require.True(t, ok)
		assert.Equal(t, "alice", n.PostOwner)
		assert.Equal(t, "bob liked your post", n.Message)
	})

	t.Run("unknown type passes through", func(t *testing.T) {
		evt, err := decodeEvent([]byte(`{"type":"mystery","payload":{"a":1}}`))
		require.NoError(t, err)
		assert.Equal(t, "mystery", evt.Type)
		assert.Nil(t, evt.Payload)
	})

	t.Run("malformed frame", func(t *testing.T) {
		_, err := decodeEvent([]byte(`not json`))
		assert.Error(t, err)

		_, err = decodeEvent([]byte(`{"type":"likePost","payload":"nope"}`))
		assert.Error(t, err)
	})
}

func TestSubscriberFiltersNotifications(t *testing.T) {
	feed := NewFeed()
	var received []realtime.Notification
	s := NewSubscriber("ws://unused", "alice", feed,
		func(n realtime.Notification) { received = append(received, n) }, zerolog.Nop())

	mine := realtime.Notification{Type: "like", PostOwner: "alice", Username: "bob"}
	theirs := realtime.Notification{Type: "like", PostOwner: "carol", Username: "bob"}

	s.handle(realtime.Event{Type: realtime.EventNotification, Payload: mine})
	s.handle(realtime.Event{Type: realtime.EventNotification, Payload: theirs})

	require.Len(t, received, 1)
	assert.Equal(t, "alice", received[0].PostOwner)
}

func TestSubscriberRoutesFeedEvents(t *testing.T) {
	feed := NewFeed()
	post := makePost("alice", "p")
	feed.Replace([]model.Post{post})

	s := NewSubscriber("ws://unused", "alice", feed, nil, zerolog.Nop())
	s.handle(realtime.Event{
		Type:    realtime.EventLikePost,
		Payload: realtime.PostLikes{PostID: post.ID.Hex(), Likes: []string{"bob"}},
	})

	assert.Equal(t, []string{"bob"}, feed.Snapshot()[0].Likes)
}

func TestSubscriberNilNotifyCallback(t *testing.T) {
	s := NewSubscriber("ws://unused", "alice", NewFeed(), nil, zerolog.Nop())
	s.handle(realtime.Event{
		Type:    realtime.EventNotification,
		Payload: realtime.Notification{PostOwner: "alice"},
	})
}
