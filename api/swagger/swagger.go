package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Portal API",
        "description": "Session-aware gateway over the course backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "in": "header", "name": "Cookie"},
        "BearerIdentity": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "security": [
        {"SessionCookie": []},
        {"BearerIdentity": []}
    ],
    "tags": [
        {"name": "Auth", "description": "Portal sessions"},
        {"name": "Change Requests", "description": "Batch and course change request review"},
        {"name": "Catalog", "description": "Courses, batches, students, instructors, results, notices and routines"},
        {"name": "Exports", "description": "CSV and PDF exports behind signed links"},
        {"name": "Operations", "description": "Audit trail and metrics"}
    ],
    "paths": {
        "/auth/session": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange an identity token for a session cookie",
                "security": [],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/SessionEnvelope"}},
                    "401": {"description": "Invalid identity token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Account has no portal role", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SessionEnvelope"}},
                    "401": {"description": "Session missing or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch-change-requests": {
            "get": {
                "tags": ["Change Requests"],
                "summary": "List enriched batch change requests",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Change Requests"],
                "summary": "Submit a batch change request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitBatchRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/batch-change-requests/swap": {
            "patch": {
                "tags": ["Change Requests"],
                "summary": "Approve two pending requests as a mutual swap",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/batch-change-requests/{id}/swap-candidates": {
            "get": {
                "tags": ["Change Requests"],
                "summary": "Pending requests that can swap with this one",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/batch-change-requests/{id}/approve": {
            "patch": {
                "tags": ["Change Requests"],
                "summary": "Approve a batch change request",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}}}
            }
        },
        "/batch-change-requests/{id}/reject": {
            "patch": {
                "tags": ["Change Requests"],
                "summary": "Reject a batch change request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RejectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}}}
            }
        },
        "/course-change-requests": {
            "get": {
                "tags": ["Change Requests"],
                "summary": "List enriched course change requests",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Change Requests"],
                "summary": "Submit a course change request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitCourseRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/course-change-requests/{id}/approve": {
            "patch": {
                "tags": ["Change Requests"],
                "summary": "Approve a course change request into a batch",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveCourseRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}}}
            }
        },
        "/course-change-requests/{id}/reject": {
            "patch": {
                "tags": ["Change Requests"],
                "summary": "Reject a course change request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/RejectRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/OutcomeEnvelope"}}}
            }
        },
        "/{kind}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog entities",
                "parameters": [{"name": "kind", "in": "path", "required": true, "type": "string", "enum": ["courses", "batches", "students", "instructors", "results", "notices", "routines"]}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create a catalog entity",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/{kind}/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a catalog entity",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Catalog"],
                "summary": "Patch a catalog entity",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete a catalog entity",
                "parameters": [
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/batches/{id}/instructors": {
            "patch": {
                "tags": ["Catalog"],
                "summary": "Assign instructors to a batch",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results/publish": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Publish draft results",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/routines/check": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Check a routine slot for clashes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Render an export and return a signed download link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export through its signed link",
                "security": [],
                "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["Operations"],
                "summary": "Query the audit trail",
                "parameters": [
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "resource", "in": "query", "type": "string"},
                    {"name": "userId", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Operations"],
                "summary": "Gateway metrics snapshot",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "CreateSessionRequest": {
            "type": "object",
            "required": ["idToken"],
            "properties": {"idToken": {"type": "string"}}
        },
        "SessionView": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "instructor", "student"]},
                "redirect": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "SwapRequest": {
            "type": "object",
            "required": ["requestId1", "requestId2"],
            "properties": {
                "requestId1": {"type": "string"},
                "requestId2": {"type": "string"}
            }
        },
        "RejectRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string"}}
        },
        "ApproveCourseRequest": {
            "type": "object",
            "required": ["batchId"],
            "properties": {"batchId": {"type": "string"}}
        },
        "SubmitBatchRequest": {
            "type": "object",
            "required": ["requestedBatchId"],
            "properties": {
                "studentId": {"type": "string"},
                "requestedBatchId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "SubmitCourseRequest": {
            "type": "object",
            "required": ["requestedCourseId"],
            "properties": {
                "studentId": {"type": "string"},
                "requestedCourseId": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "required": ["dataset", "format"],
            "properties": {
                "dataset": {"type": "string", "enum": ["batch-requests", "course-requests", "results"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "batchId": {"type": "string"}
            }
        },
        "ActionOutcome": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["approved", "rejected", "swapped", "already_processed"]},
                "notice": {"type": "string"},
                "requestIds": {"type": "array", "items": {"type": "string"}},
                "batchRequests": {"type": "array", "items": {"type": "object"}},
                "courseRequests": {"type": "array", "items": {"type": "object"}}
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
                "meta": {"type": "object"}
            }
        },
        "SessionEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/SessionView"},
                "meta": {"type": "object"}
            }
        },
        "OutcomeEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/ActionOutcome"},
                "meta": {"type": "object", "properties": {"notice": {"type": "string"}}}
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
