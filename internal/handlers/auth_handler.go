package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"socialhub/dto"
	"socialhub/internal/authctx"
	"socialhub/internal/storage"
	"socialhub/internal/token"
	"socialhub/model"
)

// UserStore is the identity lookup surface the auth handlers need. Lookups
// return (nil, nil) when no user matches.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	SetProfileImage(ctx context.Context, id, path string) (*model.User, error)
}

type AuthHandler struct {
	Users  UserStore
	Media  *storage.MediaStore
	Secret string
}

// Signup godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body     dto.SignupRequest  true  "Signup payload"
// @Success      201   {object} dto.AuthResponse
// @Failure      400   {object} dto.ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body dto.SignupRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "invalid body"})
	}

	if body.Username == "" || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "All fields are required"})
	}
	if len(body.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Password must be at least 6 characters"})
	}
	if len(body.Username) < 3 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Username must be at least 3 characters"})
	}

	existing, err := h.Users.FindByUsernameOrEmail(c.Context(), body.Username, body.Email)
	if err != nil {
		return internalError(c, "Signup failed. Please try again.")
	}
	if existing != nil {
		msg := "Username already taken"
		if existing.Email == body.Email {
			msg = "Email already registered"
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: msg})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, "Signup failed. Please try again.")
	}

	user := &model.User{Username: body.Username, Email: body.Email, Password: string(hash)}
	if err := h.Users.Create(c.Context(), user); err != nil {
		return internalError(c, "Signup failed. Please try again.")
	}

	tok, err := token.Generate(h.Secret, user.ID.Hex())
	if err != nil {
		return internalError(c, "Signup failed. Please try again.")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Message: "User registered successfully",
		Token:   tok,
		User:    dto.UserInfoOf(user),
	})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body     dto.LoginRequest  true  "Login payload"
// @Success      200   {object} dto.AuthResponse
// @Failure      401   {object} dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "invalid body"})
	}
	if body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Email and password are required"})
	}

	user, err := h.Users.FindByEmail(c.Context(), body.Email)
	if err != nil {
		return internalError(c, "Login failed. Please try again.")
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Invalid email or password"})
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Invalid email or password"})
	}

	tok, err := token.Generate(h.Secret, user.ID.Hex())
	if err != nil {
		return internalError(c, "Login failed. Please try again.")
	}

	return c.JSON(dto.AuthResponse{
		Message: "Login successful",
		Token:   tok,
		User:    dto.UserInfoOf(user),
	})
}

// Me godoc
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} model.User
// @Failure      404  {object} dto.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)
	user, err := h.Users.FindByID(c.Context(), uid)
	if err != nil {
		return internalError(c, "Failed to fetch user data")
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "User not found"})
	}
	return c.JSON(user)
}

// UpdateProfilePicture stores the uploaded image and points the profile at it.
func (h *AuthHandler) UpdateProfilePicture(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	fh, err := c.FormFile("profileImage")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "Profile image file is required"})
	}
	path, err := h.Media.SaveProfileImage(fh)
	if err != nil {
		return mediaError(c, err, "Failed to update profile picture")
	}

	user, err := h.Users.SetProfileImage(c.Context(), uid, path)
	if err != nil {
		return internalError(c, "Failed to update profile picture")
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "User not found"})
	}
	return c.JSON(dto.UserResponse{Message: "Profile picture updated successfully", User: dto.UserInfoOf(user)})
}

func (h *AuthHandler) RemoveProfilePicture(c *fiber.Ctx) error {
	uid, _ := authctx.UserIDFrom(c)

	user, err := h.Users.SetProfileImage(c.Context(), uid, "")
	if err != nil {
		return internalError(c, "Failed to remove profile picture")
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "User not found"})
	}
	return c.JSON(dto.UserResponse{Message: "Profile picture removed successfully", User: dto.UserInfoOf(user)})
}
