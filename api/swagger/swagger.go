package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PrizeHub Competitions API",
        "description": "Competition and sweepstakes portal backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Admin session gate"},
        {"name": "Public", "description": "Visitor-facing listing and bookmarks"},
        {"name": "Competitions", "description": "Admin competition management"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Not an admin"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {
                    "204": {"description": "No content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/competitions": {
            "get": {
                "tags": ["Public"],
                "summary": "List competitions",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "difficulty", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "prizeMin", "in": "query", "type": "integer"},
                    {"name": "prizeMax", "in": "query", "type": "integer"},
                    {"name": "endBefore", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/competitions/{id}": {
            "get": {
                "tags": ["Public"],
                "summary": "Get competition with projections",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/competitions/{id}/save": {
            "post": {
                "tags": ["Public"],
                "summary": "Toggle bookmark",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/me/saved": {
            "get": {
                "tags": ["Public"],
                "summary": "List saved competitions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/admin/competitions": {
            "get": {
                "tags": ["Competitions"],
                "summary": "List competitions (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Competitions"],
                "summary": "Create competition",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompetitionFormData"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/admin/competitions/{id}": {
            "get": {
                "tags": ["Competitions"],
                "summary": "Get competition (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Competitions"],
                "summary": "Update competition",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompetitionFormData"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/competitions/export": {
            "get": {
                "tags": ["Competitions"],
                "summary": "Export competitions as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/admin/portal": {
            "get": {
                "tags": ["Portal"],
                "summary": "Portal state: visible records, selection, create mode and active filter",
                "responses": {
                    "200": {"description": "Portal state"}
                }
            }
        },
        "/admin/portal/load": {
            "post": {
                "tags": ["Portal"],
                "summary": "Refetch the full record set and reset the selection",
                "responses": {
                    "200": {"description": "Portal state"},
                    "503": {"description": "Backend unavailable"}
                }
            }
        },
        "/admin/portal/filter": {
            "put": {
                "tags": ["Portal"],
                "summary": "Apply a new filter with a debounced remote refresh",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "difficulty", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "prizeMin", "in": "query", "type": "integer"},
                    {"name": "prizeMax", "in": "query", "type": "integer"},
                    {"name": "endBefore", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Portal state"},
                    "400": {"description": "Malformed filter value"}
                }
            }
        },
        "/admin/portal/select/{id}": {
            "post": {
                "tags": ["Portal"],
                "summary": "Switch the detail pane to a visible record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Portal state"},
                    "404": {"description": "Record is not in the visible set"}
                }
            }
        },
        "/admin/portal/new": {
            "post": {
                "tags": ["Portal"],
                "summary": "Enter create mode",
                "responses": {
                    "200": {"description": "Portal state"}
                }
            }
        },
        "/admin/portal/save": {
            "post": {
                "tags": ["Portal"],
                "summary": "Create or update from the form, then reselect the saved record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompetitionFormData"}}
                ],
                "responses": {
                    "200": {"description": "Save result and portal state"},
                    "400": {"description": "Invalid payload"}
                }
            }
        },
        "/admin/portal/cancel": {
            "post": {
                "tags": ["Portal"],
                "summary": "Leave create mode and revert the selection",
                "responses": {
                    "200": {"description": "Portal state"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SignUpRequest": {
            "type": "object",
            "required": ["email", "password", "confirmPassword"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"},
                "role": {"type": "string", "enum": ["admin"]}
            }
        },
        "CompetitionFormData": {
            "type": "object",
            "required": ["title", "imageUrl", "category", "difficulty", "status"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "imageUrl": {"type": "string"},
                "competitionUrl": {"type": "string"},
                "category": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["Easy", "Medium", "Hard", "Expert"]},
                "prizeValue": {"type": "string"},
                "requirements": {"type": "string"},
                "rules": {"type": "array", "items": {"type": "string"}},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "upcoming", "past", "archived"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
