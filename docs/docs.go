// Package docs registers the OpenAPI document served at /swagger/.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/events": {
            "get": {
                "description": "Paginated events sorted by date. Filters combine with AND. saved=true needs a bearer token and returns the caller's saved events.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List events",
                "parameters": [
                    {"enum": ["Music","Sports","Art","Food","Technology","Business","Other"], "type": "string", "description": "Exact category", "name": "category", "in": "query"},
                    {"type": "string", "description": "Case-insensitive substring of the location", "name": "location", "in": "query"},
                    {"type": "string", "description": "Creator user ID", "name": "createdBy", "in": "query"},
                    {"type": "boolean", "description": "Only the caller's saved events", "name": "saved", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 12, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListEventsResponse"}},
                    "400": {"description": "code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The authenticated user becomes the creator. id and timestamps are server-generated.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create an event",
                "parameters": [
                    {"description": "Event data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "400": {"description": "code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "description": "Returns the event with createdBy populated as {id, username}.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event by ID",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "404": {"description": "code: not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Partial update by the creator. The merged event must still be valid. createdBy cannot be changed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Update an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to update (all optional)", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.UpdateEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Event"}},
                    "400": {"description": "code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "403": {"description": "code: forbidden (not creator)", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "404": {"description": "code: not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Only the creator can delete an event.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Delete an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "message: Event deleted", "schema": {"$ref": "#/definitions/helpers.MessageResponse"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "403": {"description": "code: forbidden (not creator)", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "404": {"description": "code: not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/events/{id}/save": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Flips the event's membership in the caller's saved events and returns the resulting state.",
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Save or unsave an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ToggleSaveResponse"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "404": {"description": "code: not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/users/register": {
            "post": {
                "description": "Creates an account and returns a token. username 3-30 characters, valid email, password at least 6 characters.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.AuthResponse"}},
                    "400": {"description": "code: bad_request (invalid input or already registered)", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "429": {"description": "code: too_many_requests", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "description": "Authenticate with email and password. Returns a JWT and the user.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.AuthResponse"}},
                    "400": {"description": "code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "429": {"description": "code: too_many_requests", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the authenticated user's profile including savedEvents. Requires Bearer token.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "404": {"description": "code: not_found", "schema": {"$ref": "#/definitions/helpers.APIError"}},
                    "500": {"description": "code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "controllers.CreateEventRequest": {
            "type": "object",
            "required": ["category", "date", "description", "location", "time", "title"],
            "properties": {
                "category": {"type": "string"},
                "date": {"type": "string", "example": "2025-06-01"},
                "description": {"type": "string", "maxLength": 5000},
                "image": {"type": "string"},
                "location": {"type": "string", "maxLength": 200},
                "time": {"type": "string", "maxLength": 20},
                "title": {"type": "string", "maxLength": 200}
            }
        },
        "controllers.UpdateEventRequest": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "date": {"type": "string", "example": "2025-06-01"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "location": {"type": "string"},
                "time": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "controllers.ListEventsResponse": {
            "type": "object",
            "properties": {
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.Event"}},
                "limit": {"type": "integer"},
                "page": {"type": "integer"},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "controllers.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "controllers.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "controllers.ToggleSaveResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "saved": {"type": "boolean"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "enum": ["Music","Sports","Art","Food","Technology","Business","Other"]},
                "createdAt": {"type": "string"},
                "createdBy": {"description": "creator id string, or {id, username} when populated"},
                "date": {"type": "string", "example": "2025-06-01"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "location": {"type": "string"},
                "time": {"type": "string"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "savedEvents": {"type": "array", "items": {"type": "string"}},
                "updatedAt": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Event Platform API",
	Description:      "Event listing with creator-only mutation and per-user saved events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
