// Package apidocs registers the storyfeed Swagger 2.0 document with swag.
// Keep it in step with the godoc annotations in internal/httpapi and
// cmd/storyfeed/docs.go.
package apidocs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "storyfeed maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/r/{collection}": {
            "get": {
                "description": "Loads the listing of a collection. A newer request of the same session supersedes this one (409).",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Stories of a collection",
                "parameters": [
                    {"type": "string", "example": "movies", "description": "Collection id", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Session id; defaults to the storyfeed_session cookie", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StoriesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/collections": {
            "get": {
                "description": "Loads the collections listing sorted by subscribers (descending) and marks the active one.",
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Collections for navigation",
                "parameters": [
                    {"type": "string", "example": "/r/movies/", "description": "Url of the active collection", "name": "active", "in": "query"},
                    {"type": "string", "description": "Session id; defaults to the storyfeed_session cookie", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CollectionsResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "collection is required"}
            }
        },
        "types.StoryData": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "1abcde"},
                "title": {"type": "string", "example": "A cat discovers a box"},
                "author": {"type": "string", "example": "someone"},
                "created_utc": {"type": "number", "example": 1700000000},
                "score": {"type": "integer", "example": 4242},
                "url": {"type": "string", "example": "https://i.example.com/cat.jpg"},
                "is_self": {"type": "boolean"},
                "is_video": {"type": "boolean"}
            }
        },
        "types.Story": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "t3"},
                "data": {"$ref": "#/definitions/types.StoryData"}
            }
        },
        "types.StoriesResponse": {
            "type": "object",
            "properties": {
                "collection": {"type": "string", "example": "movies"},
                "stories": {"type": "array", "items": {"$ref": "#/definitions/types.Story"}}
            }
        },
        "types.SubredditData": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string", "example": "movies"},
                "id": {"type": "string", "example": "2qh3s"},
                "subscribers": {"type": "integer", "example": 31000000},
                "title": {"type": "string", "example": "Movie News and Discussion"},
                "url": {"type": "string", "example": "/r/movies/"}
            }
        },
        "types.NavigationItem": {
            "type": "object",
            "properties": {
                "subreddit": {"$ref": "#/definitions/types.SubredditData"},
                "selected": {"type": "boolean", "example": false}
            }
        },
        "types.CollectionsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/types.NavigationItem"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "sessions": {"type": "integer", "example": 3},
                "max_sessions": {"type": "integer", "example": 256},
                "attached_resources": {"type": "integer", "example": 1},
                "registered_hooks": {"type": "integer", "example": 1},
                "evictions_total": {"type": "integer", "example": 0},
                "uptime_seconds": {"type": "integer", "example": 3600},
                "server_time_unix": {"type": "integer", "example": 1700000000}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "storyfeed API",
	Description:      "Single-flight listing loader for JSONP story feeds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
