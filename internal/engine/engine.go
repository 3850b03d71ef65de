// Package engine applies like/comment/edit/delete mutations against the post
// store, enforcing ownership and idempotence, and publishes one event per
// accepted mutation (plus a targeted notification when the actor is not the
// post owner). It is the only writer of post state.
package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"socialhub/internal/realtime"
	"socialhub/model"
)

// Store is the post/comment document store. Every mutating method is one
// atomic read-modify-write against a single post document; concurrent calls
// for the same post serialize, different posts proceed in parallel.
//
// Error contract: ErrNotFound when the post (or addressed comment) is absent,
// ErrAlreadyLiked when the actor is already in the addressed like set,
// ErrForbidden when the actor does not own the addressed comment. On any
// failure the document is unchanged.
type Store interface {
	CreatePost(ctx context.Context, p *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, username string) ([]model.Post, error)
	LikePost(ctx context.Context, postID, username string) (*model.Post, error)
	AddComment(ctx context.Context, postID string, c model.Comment) (*model.Post, error)
	EditComment(ctx context.Context, postID, commentID, username, text string) (*model.Post, error)
	DeleteComment(ctx context.Context, postID, commentID, username string) (*model.Post, error)
	LikeComment(ctx context.Context, postID, commentID, username string) (*model.Post, error)
}

// Users resolves an authenticated user id to its stable username.
type Users interface {
	UsernameByID(ctx context.Context, id string) (string, error)
}

// Publisher fans an event out to connected clients. Publish must not block
// and its outcome never affects the mutation that produced the event.
type Publisher interface {
	Publish(evt realtime.Event)
}

type Engine struct {
	store Store
	users Users
	bus   Publisher
	log   zerolog.Logger
}

func New(store Store, users Users, bus Publisher, log zerolog.Logger) *Engine {
	return &Engine{store: store, users: users, bus: bus, log: log}
}

// CreatePost stores a new post by the authenticated user. Either text or an
// image reference must be present.
func (e *Engine) CreatePost(ctx context.Context, userID, text, imageRef string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && imageRef == "" {
		return nil, InvalidInput("Post must contain text or image")
	}

	username, err := e.users.UsernameByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Username: username,
		Text:     text,
		Image:    imageRef,
		Likes:    []string{},
		Comments: []model.Comment{},
	}
	if err := e.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	e.publish(realtime.PostCreated(post))
	return post, nil
}

// ListPosts returns the feed newest-first, optionally filtered by author.
// Reads bypass the event bus; clients use this to resynchronize.
func (e *Engine) ListPosts(ctx context.Context, username string) ([]model.Post, error) {
	return e.store.ListPosts(ctx, username)
}

// LikePost appends the actor to the post's like set. A repeated like fails
// with ErrAlreadyLiked so clients can detect double-click races.
func (e *Engine) LikePost(ctx context.Context, userID, postID string) (*model.Post, error) {
	username, err := e.users.UsernameByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := e.store.LikePost(ctx, postID, username)
	if err != nil {
		return nil, err
	}

	e.publish(realtime.PostLiked(post))
	if post.Username != username {
		e.publish(realtime.LikeNotification(post, username))
	}
	return post, nil
}

// AddComment appends a comment to the post.
func (e *Engine) AddComment(ctx context.Context, userID, postID, text string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, InvalidInput("Comment text is required")
	}

	username, err := e.users.UsernameByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := e.store.AddComment(ctx, postID, model.Comment{
		Username: username,
		Text:     text,
		Likes:    []string{},
	})
	if err != nil {
		return nil, err
	}

	e.publish(realtime.CommentsChanged(realtime.EventNewComment, post))
	if post.Username != username {
		e.publish(realtime.CommentNotification(post, username))
	}
	return post, nil
}

// EditComment replaces the comment text in place. Only the comment author may
// edit; id, position and creation time are preserved.
func (e *Engine) EditComment(ctx context.Context, userID, postID, commentID, text string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, InvalidInput("Comment text is required")
	}

	username, err := e.users.UsernameByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := e.store.EditComment(ctx, postID, commentID, username, text)
	if err != nil {
		return nil, err
	}

	e.publish(realtime.CommentsChanged(realtime.EventEditComment, post))
	return post, nil
}

// DeleteComment removes the comment and compacts the sequence. Only the
// comment author may delete.
func (e *Engine) DeleteComment(ctx context.Context, userID, postID, commentID string) (*model.Post, error) {
	username, err := e.users.UsernameByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := e.store.DeleteComment(ctx, postID, commentID, username)
	if err != nil {
		return nil, err
	}

	e.publish(realtime.CommentsChanged(realtime.EventDeleteComment, post))
	return post, nil
}

// LikeComment appends the actor to a comment's like set, with the same
// idempotence guard as LikePost. Comment likes do not notify the post owner.
func (e *Engine) LikeComment(ctx context.Context, userID, postID, commentID string) (*model.Comment, error) {
	username, err := e.users.UsernameByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post, err := e.store.LikeComment(ctx, postID, commentID, username)
	if err != nil {
		return nil, err
	}

	comment := post.CommentByID(commentID)
	if comment == nil {
		// The comment vanished between the update and here only if the store
		// broke its contract.
		return nil, NotFound("Comment not found")
	}

	e.publish(realtime.CommentLiked(post, comment))
	return comment, nil
}

func (e *Engine) publish(evt realtime.Event) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(evt)
	e.log.Debug().Str("event", evt.Type).Msg("event published")
}
