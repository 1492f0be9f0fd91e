package http

import (
	"net/http"

	"fulfillment/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const BaseURL = "/api/v1"

// NewRouter wires the API, the health check and the OpenAPI document into one echo instance.
func NewRouter(si servers.ServerInterface, doc *openapi3.T) (*echo.Echo, error) {
	if err := servers.RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlersWithBaseURL(e, si, BaseURL)
	return e, nil
}
