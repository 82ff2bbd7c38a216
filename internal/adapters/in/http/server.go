package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"notice/internal/core/application/usecases/commands"
	"notice/internal/core/application/usecases/queries"
	"notice/internal/core/domain/model/kernel"
	"notice/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	MessageOrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateMessageOrderCommand) (kernel.UUID, error)
	}

	MessageOrdersReader interface {
		Handle(ctx context.Context, query queries.GetMessageOrdersQuery) ([]queries.GetMessageOrdersQueryResponse, error)
	}

	Dispatcher interface {
		Handle(ctx context.Context, cmd commands.DispatchMessageOrdersCommand) (commands.DispatchResult, error)
	}

	// InFlightOrders is satisfied by *inflight.Registry.
	InFlightOrders interface {
		Snapshot() []kernel.UUID
		Contains(id kernel.UUID) bool
	}
)

// Server exposes order intake, the order read model and dispatcher controls.
type Server struct {
	// Command handlers
	createMessageOrderHandler MessageOrderCreator
	dispatchHandler           Dispatcher

	// Query handlers
	getMessageOrdersHandler MessageOrdersReader

	inFlight     InFlightOrders
	poolCapacity int
	validate     *validator.Validate
	logger   *slog.Logger
}

func NewServer(
	createMessageOrderHandler MessageOrderCreator,
	dispatchHandler Dispatcher,
	getMessageOrdersHandler MessageOrdersReader,
	inFlight InFlightOrders,
	poolCapacity int,
	logger *slog.Logger,
) *Server {
	return &Server{
		createMessageOrderHandler: createMessageOrderHandler,
		dispatchHandler:           dispatchHandler,
		getMessageOrdersHandler:   getMessageOrdersHandler,
		inFlight:                  inFlight,
		poolCapacity:              poolCapacity,
		validate:                  validator.New(),
		logger:                    logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.GET("/message-orders", s.GetMessageOrders)
	v1.POST("/message-orders", s.CreateMessageOrder)
	v1.GET("/dispatcher/in-flight", s.GetInFlight)
	v1.GET("/dispatcher/in-flight/:orderId", s.GetOrderInFlight)
	v1.POST("/dispatcher/ticks", s.RunDispatchTick)
}

// GetMessageOrders handles GET /api/v1/message-orders?status=&limit=.
func (s *Server) GetMessageOrders(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Invalid limit: "+raw)
		}
		limit = parsed
	}

	query, err := queries.NewGetMessageOrdersQuery(ctx.QueryParam("status"), limit)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	orders, err := s.getMessageOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to retrieve message orders", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve message orders",
		})
	}

	response := make([]MessageOrder, len(orders))
	for i, o := range orders {
		response[i] = messageOrderFromQuery(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

// CreateMessageOrder handles POST /api/v1/message-orders.
func (s *Server) CreateMessageOrder(ctx echo.Context) error {
	var body NewMessageOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := s.validate.Struct(body); err != nil {
		return badRequest(ctx, "Invalid message order: "+err.Error())
	}

	taskIDs := make([]kernel.UUID, 0, len(body.TaskIDs))
	for _, raw := range body.TaskIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "Invalid task id: "+raw)
		}
		taskIDs = append(taskIDs, id)
	}

	cmd, err := commands.NewCreateMessageOrderCommand(body.Name, body.Recipients, taskIDs)
	if err != nil {
		return badRequest(ctx, "Invalid message order: "+err.Error())
	}

	orderID, err := s.createMessageOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if isValidationError(err) {
			return badRequest(ctx, "Invalid message order: "+err.Error())
		}
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to create message order", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create message order",
		})
	}

	return ctx.JSON(http.StatusCreated, CreatedMessageOrder{ID: orderID.String()})
}

// GetInFlight handles GET /api/v1/dispatcher/in-flight.
func (s *Server) GetInFlight(ctx echo.Context) error {
	ids := s.inFlight.Snapshot()

	response := InFlight{Count: len(ids), Capacity: s.poolCapacity, OrderIDs: make([]string, len(ids))}
	for i, id := range ids {
		response.OrderIDs[i] = id.String()
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderInFlight handles GET /api/v1/dispatcher/in-flight/:orderId.
func (s *Server) GetOrderInFlight(ctx echo.Context) error {
	raw := ctx.Param("orderId")
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+raw)
	}

	return ctx.JSON(http.StatusOK, OrderInFlight{
		OrderID:  id.String(),
		InFlight: s.inFlight.Contains(id),
	})
}

// RunDispatchTick handles POST /api/v1/dispatcher/ticks by running one
// dispatcher tick outside the schedule.
func (s *Server) RunDispatchTick(ctx echo.Context) error {
	result, err := s.dispatchHandler.Handle(ctx.Request().Context(), commands.NewDispatchMessageOrdersCommand())
	if errors.Is(err, commands.ErrDispatchTickInProgress) {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Dispatch tick already in progress",
		})
	}
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Manual dispatch tick failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Dispatch tick failed",
		})
	}
	return ctx.JSON(http.StatusOK, result)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
