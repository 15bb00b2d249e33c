// Package docs registers the storefront OpenAPI document with swag so
// gin-swagger can serve it under /swagger.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag/v2"
)

//go:embed openapi.json
var openAPIDocument string

// SwaggerInfo holds the document metadata
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Customers, orders, catalog and admin endpoints of the t-shirt storefront",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  openAPIDocument,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
