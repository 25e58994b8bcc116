// Package coffee holds the Swagger document served at /swagger/.
//
// Regenerate from the handler annotations with:
//
//	swag init -g internal/coffee/http/router.go -o api/coffee --parseDependency
package coffee

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/coffeeshop"
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
        "/drinks": {
            "get": {
                "description": "Returns every drink in short form: ingredient colors and parts, without names. Public.",
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "List drinks",
                "responses": {
                    "200": {"description": "success, drinks", "schema": {"$ref": "#/definitions/coffeesdk.DrinksResponse"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Adds a drink to the menu. The recipe may be a list of ingredients or a single ingredient. Requires post:drinks.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "Create a drink",
                "parameters": [
                    {
                        "description": "title, recipe",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/coffeesdk.CreateDrinkRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "success, drinks (the created drink)", "schema": {"$ref": "#/definitions/coffeesdk.DrinksResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "403": {"description": "Token lacks post:drinks", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "422": {"description": "Invalid drink or duplicate title", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}}
                }
            }
        },
        "/drinks-detail": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns every drink with full ingredient details. Requires get:drinks-detail.",
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "List drinks with recipes",
                "responses": {
                    "200": {"description": "success, drinks", "schema": {"$ref": "#/definitions/coffeesdk.DrinksResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "403": {"description": "Token lacks get:drinks-detail", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}}
                }
            }
        },
        "/drinks/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes a drink from the menu. Requires delete:drinks.",
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "Delete a drink",
                "parameters": [
                    {"type": "integer", "description": "Drink ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "success, delete (the removed id)", "schema": {"$ref": "#/definitions/coffeesdk.DeleteDrinkResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "403": {"description": "Token lacks delete:drinks", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "404": {"description": "Drink not found", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Changes the title and/or recipe of a drink. Omitted fields are left as they are. Requires patch:drinks.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Drinks"],
                "summary": "Update a drink",
                "parameters": [
                    {"type": "integer", "description": "Drink ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "title, recipe",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/coffeesdk.UpdateDrinkRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "success, drinks (the updated drink)", "schema": {"$ref": "#/definitions/coffeesdk.DrinksResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "403": {"description": "Token lacks patch:drinks", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "404": {"description": "Drink not found", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "422": {"description": "Invalid drink or duplicate title", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/coffeesdk.ErrorResponse"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process is serving.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/coffeesdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe reporting the database connection and whether the issuer's signing keys have been loaded",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/coffeesdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/coffeesdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "coffeesdk.CreateDrinkRequest": {
            "type": "object",
            "properties": {
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/coffeesdk.Ingredient"}},
                "title": {"type": "string"}
            }
        },
        "coffeesdk.DeleteDrinkResponse": {
            "type": "object",
            "properties": {
                "delete": {"type": "integer"},
                "success": {"type": "boolean"}
            }
        },
        "coffeesdk.Drink": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/coffeesdk.Ingredient"}},
                "title": {"type": "string"}
            }
        },
        "coffeesdk.DrinksResponse": {
            "type": "object",
            "properties": {
                "drinks": {"type": "array", "items": {"$ref": "#/definitions/coffeesdk.Drink"}},
                "success": {"type": "boolean"}
            }
        },
        "coffeesdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "coffeesdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "keys": {"type": "string"}
            }
        },
        "coffeesdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/coffeesdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "coffeesdk.Ingredient": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "name": {"type": "string"},
                "parts": {"type": "integer"}
            }
        },
        "coffeesdk.UpdateDrinkRequest": {
            "type": "object",
            "properties": {
                "recipe": {"type": "array", "items": {"$ref": "#/definitions/coffeesdk.Ingredient"}},
                "title": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Coffee Shop API",
	Description:      "Drinks menu for the coffee shop. Write endpoints and the detailed menu need a bearer token\nfrom the shop's identity provider carrying the endpoint's permission in its \"permissions\" claim.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
