// Package docs registers the OpenAPI document served at /docs. Maintained by
// hand alongside the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["auth"],
                "summary": "Current user profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/posts": {
            "get": {
                "tags": ["posts"],
                "summary": "List posts newest-first",
                "parameters": [{"name": "username", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["posts"],
                "summary": "Create a post (text and/or image)",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "text", "in": "formData", "type": "string"},
                    {"name": "image", "in": "formData", "type": "file"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/posts/{postId}/like": {
            "post": {
                "tags": ["posts"],
                "summary": "Like a post (400 on repeat)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "postId", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Already liked"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts/{postId}/comment": {
            "post": {
                "tags": ["posts"],
                "summary": "Comment on a post",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "postId", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts/{postId}/comment/{commentId}": {
            "put": {
                "tags": ["posts"],
                "summary": "Edit own comment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "postId", "in": "path", "type": "string", "required": true},
                    {"name": "commentId", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["posts"],
                "summary": "Delete own comment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "postId", "in": "path", "type": "string", "required": true},
                    {"name": "commentId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/posts/{postId}/comment/{commentId}/like": {
            "post": {
                "tags": ["posts"],
                "summary": "Like a comment (400 on repeat)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "postId", "in": "path", "type": "string", "required": true},
                    {"name": "commentId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Already liked"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string", "minLength": 3},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CommentRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "text": {"type": "string", "minLength": 1, "maxLength": 2000}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SocialHub API",
	Description:      "Social feed with real-time like/comment fan-out over WebSocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
