package dto

import "socialhub/model"

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserInfo struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

func UserInfoOf(u *model.User) UserInfo {
	return UserInfo{
		ID:           u.ID.Hex(),
		Username:     u.Username,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}

type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

type UserResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}
