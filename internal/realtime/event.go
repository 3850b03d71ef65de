package realtime

import (
	"fmt"
	"time"

	"socialhub/model"
)

// Event types mirror the names clients subscribe to. Broadcast payloads carry
// the full updated field (whole like set, whole comment list) so a client can
// replace state instead of merging deltas.
const (
	EventNewPost       = "newPost"
	EventLikePost      = "likePost"
	EventNewComment    = "newComment"
	EventEditComment   = "editComment"
	EventDeleteComment = "deleteComment"
	EventCommentLike   = "commentLike"
	EventNotification  = "notification"
)

// Event is the wire record: {"type": ..., "payload": ...}.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type PostLikes struct {
	PostID string   `json:"postId"`
	Likes  []string `json:"likes"`
}

type PostComments struct {
	PostID   string          `json:"postId"`
	Comments []model.Comment `json:"comments"`
}

type CommentLikes struct {
	PostID    string   `json:"postId"`
	CommentID string   `json:"commentId"`
	Likes     []string `json:"likes"`
}

// Notification is ephemeral: built when a mutation succeeds and the actor is
// not the post owner, delivered once, never persisted.
type Notification struct {
	Type      string    `json:"type"`
	PostID    string    `json:"postId"`
	Username  string    `json:"username"`
	PostOwner string    `json:"postOwner"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func PostCreated(p *model.Post) Event {
	return Event{Type: EventNewPost, Payload: *p}
}

func PostLiked(p *model.Post) Event {
	return Event{Type: EventLikePost, Payload: PostLikes{PostID: p.ID.Hex(), Likes: p.Likes}}
}

// CommentsChanged covers newComment, editComment and deleteComment: all three
// broadcast the post's full comment list under their own event name.
func CommentsChanged(eventType string, p *model.Post) Event {
	return Event{Type: eventType, Payload: PostComments{PostID: p.ID.Hex(), Comments: p.Comments}}
}

func CommentLiked(p *model.Post, c *model.Comment) Event {
	return Event{Type: EventCommentLike, Payload: CommentLikes{
		PostID:    p.ID.Hex(),
		CommentID: c.ID.Hex(),
		Likes:     c.Likes,
	}}
}

func LikeNotification(p *model.Post, actor string) Event {
	return Event{Type: EventNotification, Payload: Notification{
		Type:      "like",
		PostID:    p.ID.Hex(),
		Username:  actor,
		PostOwner: p.Username,
		Message:   fmt.Sprintf("%s liked your post", actor),
		Timestamp: time.Now().UTC(),
	}}
}

func CommentNotification(p *model.Post, actor string) Event {
	return Event{Type: EventNotification, Payload: Notification{
		Type:      "comment",
		PostID:    p.ID.Hex(),
		Username:  actor,
		PostOwner: p.Username,
		Message:   fmt.Sprintf("%s commented on your post", actor),
		Timestamp: time.Now().UTC(),
	}}
}
