// Package reconciler merges the server's event stream into a locally cached
// feed. The cache is derived state, never authoritative: after any event the
// affected field is exactly what the event carried, and a full re-fetch
// (Replace) is the only resync mechanism.
package reconciler

import (
	"sync"

	"socialhub/internal/realtime"
	"socialhub/model"
)

// Feed is the client-side ordered post list.
type Feed struct {
	mu    sync.RWMutex
	posts []model.Post
}

func NewFeed() *Feed {
	return &Feed{}
}

// Replace swaps in a freshly fetched post list (mount/refresh resync).
func (f *Feed) Replace(posts []model.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append([]model.Post(nil), posts...)
}

// Snapshot returns a copy of the cached list, newest first.
func (f *Feed) Snapshot() []model.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]model.Post(nil), f.posts...)
}

// Len reports the number of cached posts.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.posts)
}

// Apply merges one event. Only the field the event carries is replaced;
// every other field and every unrelated post is untouched. Events for posts
// not cached locally are ignored. Local optimistic state is not special:
// the last event wins for its field.
func (f *Feed) Apply(evt realtime.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch p := evt.Payload.(type) {
	case model.Post:
		f.posts = append([]model.Post{p}, f.posts...)
	case realtime.PostLikes:
		if post := f.find(p.PostID); post != nil {
			post.Likes = p.Likes
		}
	case realtime.PostComments:
		if post := f.find(p.PostID); post != nil {
			post.Comments = p.Comments
		}
	case realtime.CommentLikes:
		post := f.find(p.PostID)
		if post == nil {
			return
		}
		if c := post.CommentByID(p.CommentID); c != nil {
			c.Likes = p.Likes
		}
	}
}

func (f *Feed) find(id string) *model.Post {
	for i := range f.posts {
		if f.posts[i].ID.Hex() == id {
			return &f.posts[i]
		}
	}
	return nil
}
