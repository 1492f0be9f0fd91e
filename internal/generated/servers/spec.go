// Package servers holds the HTTP contract of the service: the OpenAPI document, the models
// it defines and the echo routing bound to it. server.gen.go is generated from openapi.yaml;
// this file only embeds and serves the document.
package servers

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=oapi-codegen.yaml openapi.yaml

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiDocument []byte

// GetSwagger loads and validates the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("error validating OpenAPI document: %w", err)
	}
	return doc, nil
}

var registerOnce sync.Once

// RegisterSwagger publishes doc under the default swag instance so the Swagger UI can serve it.
// Only the first call registers; swag refuses duplicate names.
func RegisterSwagger(doc *openapi3.T) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding OpenAPI document: %w", err)
	}

	registerOnce.Do(func() {
		swag.Register(swag.Name, &swag.Spec{
			Version:          doc.Info.Version,
			Title:            doc.Info.Title,
			Description:      doc.Info.Description,
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(payload),
		})
	})
	return nil
}
