// Package docs holds the OpenAPI document served under /swagger.
// Regenerate it with: swag init -g cmd/main.go -o docs
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
        "/board": {
            "get": {
                "description": "Return the tracked currencies with their formatted amounts",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Board"
                ],
                "summary": "Converter board",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/converter.Board"
                        }
                    }
                }
            }
        },
        "/board/amounts": {
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Board"
                ],
                "summary": "Clear every amount",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/converter.Board"
                        }
                    }
                }
            }
        },
        "/board/amounts/{code}": {
            "put": {
                "description": "Set the amount of one tracked currency and convert it into every other one",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Board"
                ],
                "summary": "Enter an amount",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Currency code",
                        "name": "code",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Amount text",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.SetAmountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/converter.Board"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        },
        "/board/currencies": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Board"
                ],
                "summary": "Track a currency",
                "parameters": [
                    {
                        "description": "Currency to add",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handler.AddCurrencyRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/converter.Board"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "409": {
                        "description": "too many currencies",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        },
        "/board/currencies/{code}": {
            "delete": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Board"
                ],
                "summary": "Stop tracking a currency",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Currency code",
                        "name": "code",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/converter.Board"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "409": {
                        "description": "too few currencies",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        },
        "/currencies/catalog": {
            "get": {
                "description": "List known currencies, filtered by q or limited to the popular ones",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Currencies"
                ],
                "summary": "Currency catalog",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Code or name keyword",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Only popular currencies",
                        "name": "popular",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.CatalogResponse"
                        }
                    }
                }
            }
        },
        "/currencies/supported": {
            "get": {
                "description": "Retrieve all currency codes accepted by the converter",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Currencies"
                ],
                "summary": "List supported currencies",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.GetSupportedCodesResponse"
                        }
                    }
                }
            }
        },
        "/history": {
            "get": {
                "description": "List recent conversions, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "History"
                ],
                "summary": "Conversion history",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.HistoryResponse"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "History"
                ],
                "summary": "Clear history",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/history/{id}/restore": {
            "post": {
                "description": "Put a record back on the board. Restoring may add up to two currencies and is refused when they do not fit",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "History"
                ],
                "summary": "Restore a history record",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "History record ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/converter.Board"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "409": {
                        "description": "too many currencies",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        },
        "/i18n/{key}": {
            "get": {
                "description": "Resolve a dotted key. The locale comes from the locale parameter, then Accept-Language, then the user's setting. Every other query parameter fills the matching {param} placeholder",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "I18n"
                ],
                "summary": "Translate a key",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Dotted translation key",
                        "name": "key",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Locale, e.g. en-US",
                        "name": "locale",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.TranslationResponse"
                        }
                    }
                }
            }
        },
        "/rates": {
            "get": {
                "description": "Return the current rate set. With from and to it also returns the cross rate for that pair",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Rates"
                ],
                "summary": "Current exchange rates",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Base currency of the pair",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Quote currency of the pair",
                        "name": "to",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.RatesResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "404": {
                        "description": "rate not available",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        },
        "/rates/refresh": {
            "post": {
                "description": "Trigger a live fetch. A failed fetch still answers 200 with live=false because offline data is served instead",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Rates"
                ],
                "summary": "Refresh exchange rates",
                "parameters": [
                    {
                        "description": "Base currency, defaults to the current one",
                        "name": "request",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/handler.RefreshRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handler.RefreshResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        },
        "/settings": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Settings"
                ],
                "summary": "Display settings",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Settings"
                        }
                    }
                }
            },
            "delete": {
                "description": "Restore and persist the default settings",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Settings"
                ],
                "summary": "Reset display settings",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Settings"
                        }
                    }
                }
            },
            "patch": {
                "description": "Apply the given fields. An invalid value rejects the whole patch",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Settings"
                ],
                "summary": "Update display settings",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/settings.Patch"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Settings"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/handler.errorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "converter.Board": {
            "type": "object",
            "properties": {
                "base": {
                    "type": "string"
                },
                "loading": {
                    "type": "boolean"
                },
                "offline": {
                    "type": "boolean"
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/converter.Row"
                    }
                },
                "updatedAgo": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "integer"
                }
            }
        },
        "converter.Row": {
            "type": "object",
            "properties": {
                "active": {
                    "type": "boolean"
                },
                "amount": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "display": {
                    "type": "string"
                },
                "flag": {
                    "type": "string"
                },
                "lastInput": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                },
                "raw": {
                    "type": "string"
                },
                "short": {
                    "type": "string"
                },
                "symbol": {
                    "type": "string"
                }
            }
        },
        "domain.Currency": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "flag": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "nameEn": {
                    "type": "string"
                },
                "popular": {
                    "type": "boolean"
                },
                "symbol": {
                    "type": "string"
                }
            }
        },
        "domain.HistoryRecord": {
            "type": "object",
            "properties": {
                "fromAmount": {
                    "type": "string"
                },
                "fromCode": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "timestamp": {
                    "type": "integer"
                },
                "toAmount": {
                    "type": "string"
                },
                "toCode": {
                    "type": "string"
                }
            }
        },
        "domain.Settings": {
            "type": "object",
            "properties": {
                "autoUpdate": {
                    "type": "boolean"
                },
                "decimalPlaces": {
                    "type": "integer"
                },
                "locale": {
                    "type": "string"
                },
                "theme": {
                    "type": "string"
                },
                "thousandSeparator": {
                    "type": "string"
                }
            }
        },
        "handler.AddCurrencyRequest": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "JPY"
                }
            }
        },
        "handler.CatalogResponse": {
            "type": "object",
            "properties": {
                "currencies": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Currency"
                    }
                }
            }
        },
        "handler.GetSupportedCodesResponse": {
            "type": "object",
            "properties": {
                "codes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "USD",
                        "EUR",
                        "CNY"
                    ]
                }
            }
        },
        "handler.HistoryResponse": {
            "type": "object",
            "properties": {
                "records": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.HistoryRecord"
                    }
                }
            }
        },
        "handler.PairRate": {
            "type": "object",
            "properties": {
                "from": {
                    "type": "string",
                    "example": "USD"
                },
                "rate": {
                    "type": "string",
                    "example": "0.9231"
                },
                "to": {
                    "type": "string",
                    "example": "EUR"
                }
            }
        },
        "handler.RatesResponse": {
            "type": "object",
            "properties": {
                "base": {
                    "type": "string",
                    "example": "USD"
                },
                "hasRates": {
                    "type": "boolean",
                    "example": true
                },
                "loading": {
                    "type": "boolean",
                    "example": false
                },
                "offline": {
                    "type": "boolean",
                    "example": false
                },
                "pair": {
                    "$ref": "#/definitions/handler.PairRate"
                },
                "rates": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "source": {
                    "type": "string",
                    "example": "primary"
                },
                "updatedAt": {
                    "type": "integer",
                    "example": 1704067200000
                }
            }
        },
        "handler.RefreshRequest": {
            "type": "object",
            "properties": {
                "base": {
                    "type": "string",
                    "example": "EUR"
                }
            }
        },
        "handler.RefreshResponse": {
            "type": "object",
            "properties": {
                "base": {
                    "type": "string",
                    "example": "EUR"
                },
                "live": {
                    "type": "boolean",
                    "example": true
                },
                "offline": {
                    "type": "boolean",
                    "example": false
                }
            }
        },
        "handler.SetAmountRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string",
                    "example": "100.5"
                }
            }
        },
        "handler.TranslationResponse": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string",
                    "example": "home.title"
                },
                "locale": {
                    "type": "string",
                    "example": "en-US"
                },
                "value": {
                    "type": "string",
                    "example": "Currency Converter"
                }
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "invalid request body"
                }
            }
        },
        "settings.Patch": {
            "type": "object",
            "properties": {
                "autoUpdate": {
                    "type": "boolean"
                },
                "decimalPlaces": {
                    "type": "integer"
                },
                "locale": {
                    "type": "string"
                },
                "theme": {
                    "type": "string"
                },
                "thousandSeparator": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "fxconv API",
	Description:      "Currency converter backend: live and offline exchange rates, tracked currencies, history and display settings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
