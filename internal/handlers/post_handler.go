package handlers

import (
	"github.com/gofiber/fiber/v2"

	"socialhub/dto"
	"socialhub/internal/authctx"
	"socialhub/internal/engine"
	"socialhub/internal/storage"
)

type PostHandler struct {
	Engine *engine.Engine
	Media  *storage.MediaStore
}

// Create godoc
// @Summary      Create a post
// @Description  Text, an image, or both; at least one is required
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        text   formData  string  false  "Post text"
// @Param        image  formData  file    false  "Post image (jpeg/jpg/png/gif, max 2MB)"
// @Success      201    {object}  dto.PostResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	text := c.FormValue("text")
	imageRef := ""
	if fh, err := c.FormFile("image"); err == nil {
		ref, err := h.Media.SavePostImage(fh)
		if err != nil {
			return mediaError(c, err, "Failed to create post")
		}
		imageRef = ref
	} else if text == "" {
		// No multipart form; accept a plain JSON body as well.
		var body dto.CreatePostRequest
		if err := c.BodyParser(&body); err == nil {
			text = body.Text
		}
	}

	post, err := h.Engine.CreatePost(c.Context(), uid, text, imageRef)
	if err != nil {
		return engineError(c, err, "Failed to create post")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PostResponse{Message: "Post created successfully", Post: post})
}

// List godoc
// @Summary      List posts newest-first
// @Tags         posts
// @Produce      json
// @Param        username  query  string  false  "Filter by author"
// @Success      200  {array}  model.Post
// @Router       /posts [get]
func (h *PostHandler) List(c *fiber.Ctx) error {
	posts, err := h.Engine.ListPosts(c.Context(), c.Query("username"))
	if err != nil {
		return engineError(c, err, "Failed to fetch posts")
	}
	return c.JSON(posts)
}

// Like godoc
// @Summary      Like a post
// @Description  Fails with 400 if the caller already liked the post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path  string  true  "Post ID"
// @Success      200  {object}  dto.LikesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /posts/{postId}/like [post]
func (h *PostHandler) Like(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	post, err := h.Engine.LikePost(c.Context(), uid, c.Params("postId"))
	if err != nil {
		return engineError(c, err, "Failed to like post")
	}
	return c.JSON(dto.LikesResponse{Message: "Post liked", Likes: len(post.Likes)})
}

// Comment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path  string              true  "Post ID"
// @Param        body    body  dto.CommentRequest  true  "Comment payload"
// @Success      200  {object}  dto.CommentsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /posts/{postId}/comment [post]
func (h *PostHandler) Comment(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	var body dto.CommentRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "invalid body"})
	}

	post, err := h.Engine.AddComment(c.Context(), uid, c.Params("postId"), body.Text)
	if err != nil {
		return engineError(c, err, "Failed to add comment")
	}
	return c.JSON(dto.CommentsResponse{Message: "Comment added", Comments: post.Comments})
}

// EditComment godoc
// @Summary      Edit own comment
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId     path  string              true  "Post ID"
// @Param        commentId  path  string              true  "Comment ID"
// @Param        body       body  dto.CommentRequest  true  "New text"
// @Success      200  {object}  dto.CommentsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /posts/{postId}/comment/{commentId} [put]
func (h *PostHandler) EditComment(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	var body dto.CommentRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "invalid body"})
	}

	post, err := h.Engine.EditComment(c.Context(), uid, c.Params("postId"), c.Params("commentId"), body.Text)
	if err != nil {
		return engineError(c, err, "Failed to edit comment")
	}
	return c.JSON(dto.CommentsResponse{Message: "Comment updated", Comments: post.Comments})
}

// DeleteComment godoc
// @Summary      Delete own comment
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId     path  string  true  "Post ID"
// @Param        commentId  path  string  true  "Comment ID"
// @Success      200  {object}  dto.CommentsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /posts/{postId}/comment/{commentId} [delete]
func (h *PostHandler) DeleteComment(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	post, err := h.Engine.DeleteComment(c.Context(), uid, c.Params("postId"), c.Params("commentId"))
	if err != nil {
		return engineError(c, err, "Failed to delete comment")
	}
	return c.JSON(dto.CommentsResponse{Message: "Comment deleted", Comments: post.Comments})
}

// LikeComment godoc
// @Summary      Like a comment
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId     path  string  true  "Post ID"
// @Param        commentId  path  string  true  "Comment ID"
// @Success      200  {object}  dto.LikesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /posts/{postId}/comment/{commentId}/like [post]
func (h *PostHandler) LikeComment(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	comment, err := h.Engine.LikeComment(c.Context(), uid, c.Params("postId"), c.Params("commentId"))
	if err != nil {
		return engineError(c, err, "Failed to like comment")
	}
	return c.JSON(dto.LikesResponse{Message: "Comment liked", Likes: len(comment.Likes)})
}
