package dto

import "socialhub/model"

type CreatePostRequest struct {
	Text string `json:"text"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// ===== Success responses =====

type PostResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

type LikesResponse struct {
	Message string `json:"message" example:"Post liked"`
	Likes   int    `json:"likes"   example:"3"`
}

type CommentsResponse struct {
	Message  string          `json:"message" example:"Comment added"`
	Comments []model.Comment `json:"comments"`
}

// ===== Error response =====

type ErrorResponse struct {
	Message string `json:"message" example:"Post not found"`
}
