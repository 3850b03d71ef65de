package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"socialhub/internal/engine"
	"socialhub/model"
)

// MemStore is an in-memory implementation of the post and user stores with
// the same atomicity contract as the Mongo adapters: one mutex guards all
// documents, so each mutation is an atomic read-modify-write. Used by tests
// and the -mem dev mode.
type MemStore struct {
	mu    sync.Mutex
	posts []*model.Post
	users map[string]*model.User
}

var _ engine.Store = (*MemStore)(nil)
var _ engine.Users = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{users: make(map[string]*model.User)}
}

func (s *MemStore) CreatePost(ctx context.Context, p *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	s.posts = append(s.posts, clonePost(p))
	return nil
}

func (s *MemStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(id)
	if p == nil {
		return nil, engine.NotFound("Post not found")
	}
	return clonePost(p), nil
}

func (s *MemStore) ListPosts(ctx context.Context, username string) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Insertion order doubles as created_at order; walk backwards for
	// newest-first.
	out := []model.Post{}
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if username != "" && p.Username != username {
			continue
		}
		out = append(out, *clonePost(p))
	}
	return out, nil
}

func (s *MemStore) LikePost(ctx context.Context, postID, username string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return nil, engine.NotFound("Post not found")
	}
	if p.HasLike(username) {
		return nil, engine.AlreadyLiked("Post already liked")
	}
	p.Likes = append(p.Likes, username)
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (s *MemStore) AddComment(ctx context.Context, postID string, c model.Comment) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(postID)
	if p == nil {
		return nil, engine.NotFound("Post not found")
	}

	now := time.Now().UTC()
	c.ID = bson.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Likes == nil {
		c.Likes = []string{}
	}
	p.Comments = append(p.Comments, c)
	p.UpdatedAt = now
	return clonePost(p), nil
}

func (s *MemStore) EditComment(ctx context.Context, postID, commentID, username, text string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, c, err := s.findComment(postID, commentID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(username) {
		return nil, engine.Forbidden("You can only edit your own comments")
	}

	now := time.Now().UTC()
	c.Text = text
	c.UpdatedAt = now
	p.UpdatedAt = now
	return clonePost(p), nil
}

func (s *MemStore) DeleteComment(ctx context.Context, postID, commentID, username string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, c, err := s.findComment(postID, commentID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(username) {
		return nil, engine.Forbidden("You can only delete your own comments")
	}

	kept := p.Comments[:0]
	for _, cc := range p.Comments {
		if cc.ID.Hex() != commentID {
			kept = append(kept, cc)
		}
	}
	p.Comments = kept
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (s *MemStore) LikeComment(ctx context.Context, postID, commentID, username string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, c, err := s.findComment(postID, commentID)
	if err != nil {
		return nil, err
	}
	if c.HasLike(username) {
		return nil, engine.AlreadyLiked("Comment already liked")
	}
	c.Likes = append(c.Likes, username)
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

// --- user store ---

func (s *MemStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID.Hex()] = &cp
	return nil
}

func (s *MemStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) SetProfileImage(ctx context.Context, id, path string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.ProfileImage = path
	cp := *u
	return &cp, nil
}

func (s *MemStore) UsernameByID(ctx context.Context, id string) (string, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", engine.NotFound("User not found")
	}
	return u.Username, nil
}

func (s *MemStore) findPost(id string) *model.Post {
	for _, p := range s.posts {
		if p.ID.Hex() == id {
			return p
		}
	}
	return nil
}

func (s *MemStore) findComment(postID, commentID string) (*model.Post, *model.Comment, error) {
	p := s.findPost(postID)
	if p == nil {
		return nil, nil, engine.NotFound("Post not found")
	}
	c := p.CommentByID(commentID)
	if c == nil {
		return nil, nil, engine.NotFound("Comment not found")
	}
	return p, c, nil
}

func clonePost(p *model.Post) *model.Post {
	cp := *p
	cp.Likes = append([]string{}, p.Likes...)
	cp.Comments = make([]model.Comment, len(p.Comments))
	for i, c := range p.Comments {
		cc := c
		cc.Likes = append([]string{}, c.Likes...)
		cp.Comments[i] = cc
	}
	return &cp
}
