package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/streaming"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/generated/servers"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const acceptedMessage = "Orders were submitted for handling"

type (
	CreateOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrdersCommand) (commands.CreateOrdersResult, error)
	}

	HandleOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.HandleOrdersCommand) error
	}

	FulfillmentHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetFulfillmentHistoryQuery) (queries.GetFulfillmentHistoryQueryResponse, error)
	}

	EventStreamer interface {
		Run(ctx context.Context, channels []event.Channel, sink streaming.Sink) error
	}
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrdersHandler CreateOrdersHandler
	handleOrdersHandler HandleOrdersHandler

	// Query handlers
	historyHandler FulfillmentHistoryHandler

	streamer  EventStreamer
	validator *BodyValidator
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrdersHandler CreateOrdersHandler,
	handleOrdersHandler HandleOrdersHandler,
	historyHandler FulfillmentHistoryHandler,
	streamer EventStreamer,
	validator *BodyValidator,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrdersHandler: createOrdersHandler,
		handleOrdersHandler: handleOrdersHandler,
		historyHandler:      historyHandler,
		streamer:            streamer,
		validator:           validator,
		logger:              logger.With("component", "HttpServer"),
	}
}

// CreateOrders handles POST /api/v1/orders - creates a batch of orders.
func (s *Server) CreateOrders(ctx echo.Context) error {
	var body servers.CreateOrdersRequest
	if err := s.validator.Bind(ctx, "CreateOrdersRequest", &body); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	inputs := make([]commands.OrderInput, 0, len(body.Orders))
	for _, o := range body.Orders {
		inputs = append(inputs, toOrderInput(o))
	}

	cmd, err := commands.NewCreateOrdersCommand(inputs)
	if err != nil {
		return badRequest(ctx, "Invalid order batch: "+err.Error())
	}

	result, err := s.createOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "creating orders failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create orders",
		})
	}

	response := servers.CreateOrdersResponse{
		Created: make([]servers.CreatedOrder, 0, len(result.Created)),
		Errors:  make([]servers.OrderError, 0, len(result.Failures)),
	}
	for _, o := range result.Created {
		response.Created = append(response.Created, servers.CreatedOrder{
			Id:              o.ID().Bytes(),
			State:           o.State().String(),
			TotalPrice:      o.TotalPrice().Amount().String(),
			TotalQuantity:   o.TotalQuantity(),
			CurrencyIsoCode: o.Currency(),
			PlacedAt:        o.PlacedAt(),
		})
	}
	for _, f := range result.Failures {
		response.Errors = append(response.Errors, servers.OrderError{Index: f.Index, Message: f.Message})
	}

	return ctx.JSON(http.StatusCreated, response)
}

// HandleOrders handles POST /api/v1/orders/handle - submits orders to the handling pipeline.
// Batches with nothing to handle are still accepted; only infrastructure failures are reported.
func (s *Server) HandleOrders(ctx echo.Context) error {
	var body servers.HandleOrdersRequest
	if err := s.validator.Bind(ctx, "HandleOrdersRequest", &body); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	cmd := commands.NewHandleOrdersCommand(body.OrderIds)
	err := s.handleOrdersHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusAccepted, servers.Accepted{Message: acceptedMessage})
	case errors.Is(err, commands.ErrNoOrderIDs), errors.Is(err, commands.ErrNoOrdersFound):
		return ctx.JSON(http.StatusAccepted, servers.Accepted{Message: err.Error()})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "dispatching orders failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to submit orders",
		})
	}
}

// StreamOrderEvents handles GET /api/v1/orders/stream - pushes queued events until the client leaves.
func (s *Server) StreamOrderEvents(ctx echo.Context, params servers.StreamOrderEventsParams) error {
	var channels []event.Channel
	if params.Channels != nil {
		for _, name := range *params.Channels {
			ch, err := event.ParseChannel(name)
			if err != nil {
				return badRequest(ctx, err.Error())
			}
			channels = append(channels, ch)
		}
	}

	sink := newSSESink(ctx.Response())
	sink.open()

	reqCtx := ctx.Request().Context()
	if err := s.streamer.Run(reqCtx, channels, sink); err != nil {
		// headers are already out; the client sees the stream end
		s.logger.WarnContext(reqCtx, "event stream ended", "error", err)
	}
	return nil
}

// GetFulfillmentHistory handles GET /api/v1/orders/{id}/fulfillment/history.
func (s *Server) GetFulfillmentHistory(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetFulfillmentHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	history, err := s.historyHandler.Handle(ctx.Request().Context(), query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, servers.Error{
			Code:    http.StatusNotFound,
			Message: "Order was not found",
		})
	}
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "reading fulfillment history failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve fulfillment history",
		})
	}

	response := servers.FulfillmentHistory{
		OrderId: history.OrderID.Bytes(),
		State:   history.State,
		Records: make([]servers.HandlingRecord, len(history.Records)),
	}
	for i, r := range history.Records {
		response.Records[i] = servers.HandlingRecord{
			Id:         r.ID.Bytes(),
			State:      r.Stage,
			Status:     r.Status,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			CreatedAt:  r.CreatedAt,
		}
		if r.Message != "" {
			message := r.Message
			response.Records[i].Message = &message
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func toOrderInput(o servers.NewOrder) commands.OrderInput {
	input := commands.OrderInput{
		State:    deref(o.State),
		Currency: o.CurrencyIsoCode,
		Customer: commands.CustomerInput{
			FirstName: o.Customer.FirstName,
			LastName:  o.Customer.LastName,
			Address1:  o.Customer.Address1,
			Address2:  deref(o.Customer.Address2),
			ZipCode:   o.Customer.ZipCode,
			Country:   o.Customer.Country,
		},
		Items: make([]commands.ItemInput, 0, len(o.OrderItems)),
	}
	if o.PlacedAt != nil {
		input.PlacedAt = *o.PlacedAt
	}
	for _, item := range o.OrderItems {
		input.Items = append(input.Items, commands.ItemInput{
			SKU:      item.ProductSku,
			Title:    item.ProductTitle,
			MediaURL: deref(item.ProductMediaUrl),
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return input
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
