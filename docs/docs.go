// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Вход организатора",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/services.LoginResult"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/tournaments": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Список турниров, новые первыми",
                "parameters": [
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Создать турнир",
                "parameters": [{"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "tags": ["tournaments"],
                "summary": "Турнир по ID",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Удалить турнир",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Завершить турнир",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/teams": {
            "get": {
                "tags": ["teams"],
                "summary": "Команды турнира",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["teams"],
                "summary": "Добавить команду",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.AddTeamInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/tournaments/{tournamentID}/teams/{teamID}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["teams"],
                "summary": "Удалить команду",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "name": "teamID", "in": "path", "required": true}
                ],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/rounds": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["rounds"],
                "summary": "Сгенерировать следующий тур",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/tournaments/{tournamentID}/rounds/{round}/matches": {
            "get": {
                "tags": ["rounds"],
                "summary": "Матчи тура",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tournaments/{tournamentID}/rounds/{round}/status": {
            "get": {
                "tags": ["rounds"],
                "summary": "Завершён ли тур",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tournaments/{tournamentID}/matches": {
            "get": {
                "tags": ["rounds"],
                "summary": "Все матчи турнира",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tournaments/{tournamentID}/matches/{matchID}/score": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["matches"],
                "summary": "Записать счёт матча",
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"in": "body", "name": "input", "required": true, "schema": {"$ref": "#/definitions/services.RecordScoreInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "tags": ["standings"],
                "summary": "Текущая таблица",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tournaments/{tournamentID}/standings/export": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["standings"],
                "summary": "Выгрузить таблицу в CSV",
                "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "503": {"description": "Service Unavailable"}}
            }
        }
    },
    "definitions": {
        "services.LoginInput": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "services.LoginResult": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}}
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["tête-à-tête", "doublette", "triplette", "quadrette", "mêlée"]},
                "terrain_count": {"type": "integer"}
            }
        },
        "services.AddTeamInput": {
            "type": "object",
            "properties": {"players": {"type": "array", "items": {"type": "string"}}}
        },
        "services.RecordScoreInput": {
            "type": "object",
            "properties": {"score1": {"type": "integer"}, "score2": {"type": "integer"}, "terrain": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pétanque Manager API",
	Description:      "Турниры по петанку: команды, туры, счёт и таблица.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
