package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Returns the health status of the API",
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Health check endpoint",
                "responses": {"200": {"description": "Healthy", "schema": {"type": "string"}}}
            }
        },
        "/api/view": {
            "get": {
                "description": "Current toggles, loading state, available years and the aggregated chart",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Get the dashboard view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}},
                    "405": {"description": "Method not allowed", "schema": {"type": "string"}}
                }
            }
        },
        "/api/view/granularity": {
            "post": {
                "description": "Switching granularity refetches the stats; choosing year also clears the year filter",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Select the time granularity",
                "parameters": [
                    {"type": "string", "enum": ["day", "week", "month", "year"], "description": "day, week, month or year", "name": "granularity", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "405": {"description": "Method not allowed", "schema": {"type": "string"}}
                }
            }
        },
        "/api/view/year": {
            "post": {
                "description": "An empty year shows all years. Only available below yearly granularity, once stats are loaded",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Filter on one year",
                "parameters": [
                    {"type": "string", "description": "Year to show, e.g. 2023", "name": "year", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}},
                    "400": {"description": "Bad request", "schema": {"type": "string"}},
                    "405": {"description": "Method not allowed", "schema": {"type": "string"}},
                    "409": {"description": "Year filter not available", "schema": {"type": "string"}}
                }
            }
        },
        "/api/view/cumulative": {
            "post": {
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Toggle the cumulative view",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}}}
            }
        },
        "/api/view/chart-type": {
            "post": {
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Toggle between bar and line chart",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}}}
            }
        },
        "/api/view/refresh": {
            "post": {
                "description": "Refetches the current granularity, e.g. after a failed fetch",
                "produces": ["application/json"],
                "tags": ["view"],
                "summary": "Refetch the stats",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Snapshot"}}}
            }
        },
        "/chart": {
            "get": {
                "description": "Standalone HTML page with the bar or line chart for the current view",
                "produces": ["text/html"],
                "tags": ["chart"],
                "summary": "Render the chart",
                "responses": {
                    "200": {"description": "Chart page", "schema": {"type": "string"}},
                    "503": {"description": "Stats still loading", "schema": {"type": "string"}}
                }
            }
        },
        "/connect": {
            "get": {
                "description": "Pushes the view on every change. Accepts get_view, granularity:<g>, year:<yyyy>, toggle_cumulative, toggle_chart and refresh",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["websocket"],
                "summary": "WebSocket connection endpoint",
                "responses": {
                    "101": {"description": "Switching Protocols to WebSocket", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "Dataset": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "data": {"type": "array", "items": {"type": "integer", "x-nullable": true}},
                "backgroundColor": {"type": "string"}
            }
        },
        "Chart": {
            "type": "object",
            "properties": {
                "labels": {"type": "array", "items": {"type": "string"}},
                "datasets": {"type": "array", "items": {"$ref": "#/definitions/Dataset"}}
            }
        },
        "Snapshot": {
            "type": "object",
            "properties": {
                "granularity": {"type": "string", "enum": ["day", "week", "month", "year"]},
                "year": {"type": "string"},
                "cumulative": {"type": "boolean"},
                "line": {"type": "boolean"},
                "loading": {"type": "boolean"},
                "error": {"type": "string"},
                "years": {"type": "array", "items": {"type": "string"}},
                "year_controls": {"type": "boolean"},
                "chart": {"$ref": "#/definitions/Chart"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Poulailler API",
	Description:      "Coworking stats dashboard: new and total coworkers per day, week, month or year",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
