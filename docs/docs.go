// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

// @tag.name Account
// @tag.description Sign-up, sign-in and the current session

// @tag.name Boards
// @tag.description Board persistence for the signed-in user

// @tag.name Canvas
// @tag.description The editing canvas of the signed-in user

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
        "/account": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/account/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Sign in",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/boards": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Boards"],
                "summary": "List boards of the signed-in user",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.BoardResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Boards"],
                "summary": "Create a board",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CreateBoardRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.BoardResponse"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/boards/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Boards"],
                "summary": "Get a board",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardResponse"}},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Boards"],
                "summary": "Update supplied board fields",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateBoardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardResponse"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Boards"],
                "summary": "Delete a board",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/boards/{id}/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Boards"],
                "summary": "Protect a board with a password",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SetPasswordRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/boards/{id}/publish": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Publish a board",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardResponse"}}}
            }
        },
        "/canvas": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Canvas"],
                "summary": "Current canvas state",
                "parameters": [{"type": "string", "name": "viewport", "in": "query", "enum": ["desktop", "tablet", "mobile"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CanvasResponse"}}}
            }
        },
        "/canvas/board": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Open a board on the canvas",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/canvas/blocks": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Drop a block onto the canvas",
                "responses": {"201": {"description": "Created"}, "204": {"description": "Ignored drop"}, "502": {"description": "Save failed"}}
            }
        },
        "/canvas/blocks/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Merge fields into a block",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Save failed"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Delete a block with rollback on failure",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Rolled back"}}
            }
        },
        "/canvas/selection": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Select a block",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/canvas/drop-area": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Show or hide the drop area",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/canvas/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Reset the canvas",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/canvas/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Canvas"],
                "summary": "Drain pending notifications",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.UserResponse"}
            }
        },
        "handler.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.CreateBoardRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "blocks": {"type": "array", "items": {"type": "object"}},
                "grid_config": {"type": "object"},
                "template_id": {"type": "string"},
                "is_template": {"type": "boolean"},
                "expires_at": {"type": "string"}
            }
        },
        "handler.UpdateBoardRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "blocks": {"type": "array", "items": {"type": "object"}},
                "grid_config": {"type": "object"},
                "template_id": {"type": "string"},
                "is_template": {"type": "boolean"},
                "expires_at": {"type": "string"}
            }
        },
        "handler.SetPasswordRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string"}
            }
        },
        "handler.BoardResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "title": {"type": "string"},
                "slug": {"type": "string"},
                "blocks": {"type": "array", "items": {"type": "object"}},
                "grid_config": {"type": "object"},
                "template_id": {"type": "string"},
                "is_template": {"type": "boolean"},
                "has_password": {"type": "boolean"},
                "expires_at": {"type": "string"},
                "published_at": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.CanvasResponse": {
            "type": "object",
            "properties": {
                "current_board": {"type": "object"},
                "blocks": {"type": "array", "items": {"type": "object"}},
                "selected_block_id": {"type": "string"},
                "show_drop_area": {"type": "boolean"},
                "viewport": {"type": "object", "properties": {"name": {"type": "string"}, "width": {"type": "integer"}}},
                "block_types": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Lemonspace Page Builder API",
	Description:      "Boards, canvas editing and sessions for the drag-and-drop page builder.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
