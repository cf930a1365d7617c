package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "PLN Intern API",
        "description": "Internship and mentorship record keeping service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Mentor and admin authentication"},
        {"name": "Mentors", "description": "Mentor directory management"},
        {"name": "Interns", "description": "Internship submissions and roster"},
        {"name": "Gallery", "description": "Activity photo gallery"},
        {"name": "Dashboard", "description": "Roster statistics"},
        {"name": "Backup", "description": "Whole-store export, import and reset"},
        {"name": "Exports", "description": "CSV and PDF roster reports"},
        {"name": "Uploads", "description": "Photo uploads"}
    ],
    "paths": {
        "/auth/mentor/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Mentor login with NIP and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login with the shared credential",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mentors": {
            "get": {
                "tags": ["Mentors"],
                "summary": "List mentors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "division", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Mentors"],
                "summary": "Create mentor",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "NIP already registered"}
                }
            }
        },
        "/mentors/{id}": {
            "get": {
                "tags": ["Mentors"],
                "summary": "Get mentor detail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Mentors"],
                "summary": "Update mentor",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Mentors"],
                "summary": "Delete mentor",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Mentor still has interns assigned"}
                }
            }
        },
        "/mentors/{id}/interns": {
            "get": {
                "tags": ["Mentors"],
                "summary": "List interns assigned to a mentor",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/interns": {
            "get": {
                "tags": ["Interns"],
                "summary": "List interns",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "mentor_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Interns"],
                "summary": "Submit an internship application",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/interns/search": {
            "get": {
                "tags": ["Interns"],
                "summary": "Search interns by free text",
                "parameters": [{"name": "q", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/interns/{id}": {
            "get": {
                "tags": ["Interns"],
                "summary": "Get intern detail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Interns"],
                "summary": "Update intern",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Interns"],
                "summary": "Delete intern and its gallery photos",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/interns/{id}/approve": {
            "post": {
                "tags": ["Interns"],
                "summary": "Approve a pending submission",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Intern is not pending"}}
            }
        },
        "/interns/{id}/reject": {
            "post": {
                "tags": ["Interns"],
                "summary": "Reject and discard a pending submission",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Rejected"}}
            }
        },
        "/gallery": {
            "get": {
                "tags": ["Gallery"],
                "summary": "List gallery photos",
                "parameters": [{"name": "intern_id", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Gallery"],
                "summary": "Attach a photo to an intern",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/gallery/{id}": {
            "get": {
                "tags": ["Gallery"],
                "summary": "Get gallery photo detail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Gallery"],
                "summary": "Delete gallery photo",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/dashboard/statistics": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Roster statistics breakdown",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/overview": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard overview with totals and sync health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sync/status": {
            "get": {
                "tags": ["Backup"],
                "summary": "Persistence and mirror health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/backup/export": {
            "get": {
                "tags": ["Backup"],
                "summary": "Download a full backup document",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/backup/import": {
            "post": {
                "tags": ["Backup"],
                "summary": "Replace the whole store with a backup document",
                "responses": {"204": {"description": "Imported"}, "400": {"description": "Invalid backup"}}
            }
        },
        "/backup/reset": {
            "post": {
                "tags": ["Backup"],
                "summary": "Wipe the store and restore seed data",
                "responses": {"204": {"description": "Reset"}}
            }
        },
        "/backup/clear": {
            "post": {
                "tags": ["Backup"],
                "summary": "Wipe the store, leaving empty collections",
                "responses": {"204": {"description": "Cleared"}}
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Render a roster report and return its download URL",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a previously generated report",
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid or expired token"}}
            }
        },
        "/uploads": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Upload a photo and receive its stored path",
                "responses": {"201": {"description": "Created"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["nip", "password"],
            "properties": {
                "nip": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "AdminLoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
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
