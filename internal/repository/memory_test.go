package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/engine"
	"socialhub/model"
)

func seedPost(t *testing.T, s *MemStore, username string) *model.Post {
	t.Helper()
	p := &model.Post{Username: username, Text: "hello"}
	require.NoError(t, s.CreatePost(context.Background(), p))
	return p
}

func TestConcurrentDistinctLikes(t *testing.T) {
	s := NewMemStore()
	post := seedPost(t, s, "owner")

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.LikePost(context.Background(), post.ID.Hex(), fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "liker %d", i)
	}
	got, err := s.GetPost(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, got.Likes, n)
}

// The duplicate guard holds under contention: one like lands, the rest fail.
func TestConcurrentDuplicateLikes(t *testing.T) {
	s := NewMemStore()
	post := seedPost(t, s, "owner")

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.LikePost(context.Background(), post.ID.Hex(), "bob")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, engine.ErrAlreadyLiked):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)

	got, err := s.GetPost(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, got.Likes)
}

func TestReturnedPostsAreDetached(t *testing.T) {
	s := NewMemStore()
	post := seedPost(t, s, "owner")

	got, err := s.LikePost(context.Background(), post.ID.Hex(), "bob")
	require.NoError(t, err)
	got.Likes[0] = "tampered"
	got.Text = "tampered"

	fresh, err := s.GetPost(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, fresh.Likes)
	assert.Equal(t, "hello", fresh.Text)
}

func TestAddCommentAssignsDistinctIDs(t *testing.T) {
	s := NewMemStore()
	post := seedPost(t, s, "owner")

	var last *model.Post
	for i := 0; i < 3; i++ {
		var err error
		last, err = s.AddComment(context.Background(), post.ID.Hex(), model.Comment{
			Username: "bob", Text: fmt.Sprintf("c%d", i),
		})
		require.NoError(t, err)
	}

	require.Len(t, last.Comments, 3)
	seen := map[string]bool{}
	for _, c := range last.Comments {
		assert.False(t, seen[c.ID.Hex()])
		seen[c.ID.Hex()] = true
		assert.False(t, c.CreatedAt.IsZero())
	}
	assert.Equal(t, "c0", last.Comments[0].Text)
	assert.Equal(t, "c2", last.Comments[2].Text)
}

func TestUserLookups(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	u := &model.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, s.Create(ctx, u))

	byEmail, err := s.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "alice", byEmail.Username)

	missing, err := s.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byEither, err := s.FindByUsernameOrEmail(ctx, "alice", "other@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEither)

	name, err := s.UsernameByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = s.UsernameByID(ctx, "64f000000000000000000000")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestSetProfileImage(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	u := &model.User{Username: "alice", Email: "a@example.com"}
	require.NoError(t, s.Create(ctx, u))

	updated, err := s.SetProfileImage(ctx, u.ID.Hex(), "/uploads/profiles/p.png")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "/uploads/profiles/p.png", updated.ProfileImage)

	gone, err := s.SetProfileImage(ctx, "64f000000000000000000000", "x")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
