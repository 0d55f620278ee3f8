// Package docs holds the OpenAPI 2.0 document served at {prefix}/docs. It is
// maintained by hand next to the swag annotations on the handlers and
// registered with swag so echo-swagger can serve it.
package docs

import (
	"strconv"
	"strings"

	"github.com/swaggo/swag"
)

const tokenURLPlaceholder = `"tokenUrl": "{{tokenUrl}}"`

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
        "/auth/me": {
            "get": {
                "security": [{"OAuth2Password": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationErrorBody"}}
                }
            }
        },
        "/auth/token": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "OAuth2 password login",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Must be 'password' when present", "name": "grant_type", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationErrorBody"}}
                }
            }
        },
        "/examples": {
            "get": {
                "security": [{"OAuth2Password": []}],
                "produces": ["application/json"],
                "tags": ["examples"],
                "summary": "List examples",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Page size (1-100)", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Items to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.exampleListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationErrorBody"}}
                }
            },
            "post": {
                "security": [{"OAuth2Password": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["examples"],
                "summary": "Create an example",
                "parameters": [
                    {
                        "description": "Example",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.exampleRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.exampleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationErrorBody"}}
                }
            }
        },
        "/examples/{id}": {
            "get": {
                "security": [{"OAuth2Password": []}],
                "produces": ["application/json"],
                "tags": ["examples"],
                "summary": "Get an example",
                "parameters": [
                    {"type": "integer", "description": "Example ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.exampleResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationErrorBody"}}
                }
            },
            "put": {
                "security": [{"OAuth2Password": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["examples"],
                "summary": "Replace an example",
                "parameters": [
                    {"type": "integer", "description": "Example ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Example",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.exampleRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.exampleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.validationErrorBody"}}
                }
            },
            "delete": {
                "security": [{"OAuth2Password": []}],
                "tags": ["examples"],
                "summary": "Delete an example",
                "parameters": [
                    {"type": "integer", "description": "Example ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"OAuth2Password": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorBody"}}
                }
            }
        }
    },
    "definitions": {
        "errs.FieldError": {
            "type": "object",
            "properties": {
                "loc": {"type": "array", "items": {"type": "string"}},
                "msg": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "handler.errorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "string", "example": "Resource not found"}
            }
        },
        "handler.validationErrorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "array", "items": {"$ref": "#/definitions/errs.FieldError"}}
            }
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "expires_in": {"type": "integer", "example": 1800}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "username": {"type": "string", "maxLength": 50, "minLength": 3},
                "email": {"type": "string"},
                "full_name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "disabled": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "handler.exampleRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string", "maxLength": 100, "minLength": 1, "example": "My first example"},
                "description": {"type": "string", "maxLength": 1000, "example": "Optional longer text"}
            }
        },
        "handler.exampleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "owner": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.exampleListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handler.exampleResponse"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "OAuth2Password": {
            "type": "oauth2",
            "flow": "password",
            "tokenUrl": "{{tokenUrl}}"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Web App",
	Description:      "HTTP API with JWT authentication and example CRUD endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  withTokenURL("/api"),
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// Configure points the document at the mounted API. apiPrefix is the
// normalized prefix ("" for the root).
func Configure(title, version, apiPrefix string) {
	SwaggerInfo.Title = title
	SwaggerInfo.Version = version
	SwaggerInfo.BasePath = apiPrefix
	if SwaggerInfo.BasePath == "" {
		SwaggerInfo.BasePath = "/"
	}
	SwaggerInfo.SwaggerTemplate = withTokenURL(apiPrefix)
}

func withTokenURL(apiPrefix string) string {
	return strings.Replace(docTemplate, tokenURLPlaceholder,
		`"tokenUrl": `+strconv.Quote(apiPrefix+"/auth/token"), 1)
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
