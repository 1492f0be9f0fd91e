package http

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 4 << 20

// BodyValidator checks JSON request bodies against the component schemas of the OpenAPI document
// before they are decoded.
type BodyValidator struct {
	doc *openapi3.T
}

func NewBodyValidator(doc *openapi3.T) *BodyValidator {
	return &BodyValidator{doc: doc}
}

// Bind validates the request body against schema and decodes it into dest.
func (v *BodyValidator) Bind(ctx echo.Context, schema string, dest any) error {
	ref, ok := v.doc.Components.Schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("unknown schema %q", schema)
	}

	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var value any
	if err = json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("body is not valid JSON: %w", err)
	}
	if err = ref.Value.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return err
	}

	return json.Unmarshal(body, dest)
}
