package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"socialhub/internal/handlers"
	"socialhub/internal/middleware"
	"socialhub/internal/realtime"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Posts     *handlers.PostHandler
	Hub       *realtime.Hub
	Secret    string
	UploadDir string
}

func Register(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("SocialHub API is running")
	})

	app.Get("/docs/*", swagger.HandlerDefault)
	app.Static("/uploads", d.UploadDir)

	auth := middleware.RequireAuth(d.Secret)
	api := app.Group("/api")

	a := api.Group("/auth")
	a.Post("/signup", d.Auth.Signup)
	a.Post("/login", d.Auth.Login)
	a.Get("/me", auth, d.Auth.Me)
	a.Put("/profile-picture", auth, d.Auth.UpdateProfilePicture)
	a.Delete("/profile-picture", auth, d.Auth.RemoveProfilePicture)

	p := api.Group("/posts")
	p.Get("/", d.Posts.List)
	p.Post("/", auth, d.Posts.Create)
	p.Post("/:postId/like", auth, d.Posts.Like)
	p.Post("/:postId/comment", auth, d.Posts.Comment)
	p.Put("/:postId/comment/:commentId", auth, d.Posts.EditComment)
	p.Delete("/:postId/comment/:commentId", auth, d.Posts.DeleteComment)
	p.Post("/:postId/comment/:commentId/like", auth, d.Posts.LikeComment)

	app.Use("/ws", handlers.WSUpgrade())
	app.Get("/ws", handlers.WSEvents(d.Hub))
}
