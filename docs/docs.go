// Package docs registra el documento OpenAPI que sirve /swagger/doc.json.
// Se mantiene a mano; las anotaciones @Router de los handlers son la referencia.
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
                "description": "Devuelve un bearer token opaco válido por SESSION_TTL.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "El primer usuario registrado queda como farm_owner; los siguientes como farm_worker.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Registrar usuario",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validación"},
                    "409": {"description": "email duplicado"}
                }
            }
        },
        "/cows": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cows"],
                "summary": "Listar vacas",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cows"],
                "summary": "Registrar vaca",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validación"}
                }
            }
        },
        "/milk-records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["production"],
                "summary": "Listar ordeñes",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/insemination-records": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reproduction"],
                "summary": "Registrar inseminación",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validación"}
                }
            }
        },
        "/pregnancy-records": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reproduction"],
                "summary": "Registrar preñez",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "validación"},
                    "409": {"description": "preñez abierta"}
                }
            }
        },
        "/cow-inventory": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Inventario de vacas",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/milk-inventory": {
            "get": {
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Inventario de leche",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inventory/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["inventory"],
                "summary": "Exportar inventario a Excel",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dairy Farm Management API",
	Description:      "Gestión de vacas, producción de leche, salud, reproducción e inventario.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
