package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Admin API",
        "description": "Workload and timetable conflict detection for the administration dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Workload", "description": "Teacher load analysis"},
        {"name": "Assignments", "description": "Module to teacher assignments"},
        {"name": "Teachers", "description": "Teacher roster"},
        {"name": "Timetable", "description": "Scheduled sessions, rooms and conflicts"},
        {"name": "Reports", "description": "Conflict exports"}
    ],
    "paths": {
        "/workload/conflicts": {
            "get": {
                "tags": ["Workload"],
                "summary": "Detect workload conflicts",
                "parameters": [
                    {"name": "underload_threshold", "in": "query", "type": "number"},
                    {"name": "overload_threshold", "in": "query", "type": "number"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "specialty_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Workload report", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid thresholds", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/workload/teachers": {
            "get": {
                "tags": ["Workload"],
                "summary": "Per-teacher load and status",
                "responses": {
                    "200": {"description": "Teacher workloads", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [
                    {"name": "teacher_id", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "specialty_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Assignments", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign a module to a teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Teacher not found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Duplicate rejected", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/assignments/{id}": {
            "delete": {
                "tags": ["Assignments"],
                "summary": "Remove an assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Teachers", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Create teacher",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Teacher", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Teachers"],
                "summary": "Update teacher",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Teacher", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/teachers/{id}/workload": {
            "get": {
                "tags": ["Teachers", "Workload"],
                "summary": "Teacher load and the conflicts it is involved in",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "underload_threshold", "in": "query", "type": "number"},
                    {"name": "overload_threshold", "in": "query", "type": "number"}
                ],
                "responses": {
                    "200": {"description": "Teacher workload", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Unknown teacher", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/timetable/conflicts": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Detect timetable conflicts",
                "parameters": [
                    {"name": "formation", "in": "query", "type": "string"},
                    {"name": "level", "in": "query", "type": "string"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "room", "in": "query", "type": "string"},
                    {"name": "strict", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Timetable report", "schema": {"$ref": "#/definitions/Envelope"}},
                    "422": {"description": "Malformed events under strict mode", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/timetable/events": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List timetable events",
                "responses": {
                    "200": {"description": "Events", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Create timetable event",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/timetable/events/{id}": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Update timetable event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Event", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete timetable event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/timetable/rooms": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Effective room capacities",
                "responses": {
                    "200": {"description": "Rooms", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/timetable/rooms/{name}": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Set a room capacity",
                "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Room", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/conflicts/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export a conflict report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "domain", "in": "query", "required": true, "type": "string", "enum": ["workload", "timetable"]},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "AssignmentRequest": {
            "type": "object",
            "required": ["teacher_id", "module_id", "atom_type", "target_type", "target_id", "hours_per_week", "total_weeks"],
            "properties": {
                "teacher_id": {"type": "string"},
                "module_id": {"type": "string"},
                "module_name": {"type": "string"},
                "atom_type": {"type": "string", "enum": ["cours", "td", "tp"]},
                "target_type": {"type": "string", "enum": ["section", "group"]},
                "target_id": {"type": "string"},
                "semester": {"type": "string"},
                "hours_per_week": {"type": "number"},
                "total_weeks": {"type": "integer"},
                "reject_duplicate": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"type": "object"},
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
