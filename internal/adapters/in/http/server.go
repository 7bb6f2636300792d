// Package http exposes the engine's operations over an echo HTTP API.
// It coordinates between HTTP handlers and application use cases and maps
// domain errors onto status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/product"
	"dispatch/internal/pkg/errs"
)

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server wires HTTP endpoints to the application's command and query handlers.
type Server struct {
	// Command handlers
	createOrderHandler   commands.CreateOrderCommandHandler
	acceptOrderHandler   commands.AcceptOrderCommandHandler
	assignOrderHandler   commands.AssignOrderCommandHandler
	advanceStatusHandler commands.AdvanceStatusCommandHandler
	markEmergencyHandler commands.MarkEmergencyCommandHandler
	createCourierHandler commands.CreateCourierCommandHandler
	reserveStockHandler  commands.ReserveStockCommandHandler
	releaseStockHandler  commands.ReleaseStockCommandHandler
	checkoutHandler      commands.CheckoutCommandHandler

	// Query handlers
	getStockHandler        queries.GetStockQueryHandler
	getCouriersHandler     queries.GetCouriersQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
}

// NewServer creates an HTTP server with the required handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	advanceStatusHandler commands.AdvanceStatusCommandHandler,
	markEmergencyHandler commands.MarkEmergencyCommandHandler,
	createCourierHandler commands.CreateCourierCommandHandler,
	reserveStockHandler commands.ReserveStockCommandHandler,
	releaseStockHandler commands.ReleaseStockCommandHandler,
	checkoutHandler commands.CheckoutCommandHandler,
	getStockHandler queries.GetStockQueryHandler,
	getCouriersHandler queries.GetCouriersQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		acceptOrderHandler:     acceptOrderHandler,
		assignOrderHandler:     assignOrderHandler,
		advanceStatusHandler:   advanceStatusHandler,
		markEmergencyHandler:   markEmergencyHandler,
		createCourierHandler:   createCourierHandler,
		reserveStockHandler:    reserveStockHandler,
		releaseStockHandler:    releaseStockHandler,
		checkoutHandler:        checkoutHandler,
		getStockHandler:        getStockHandler,
		getCouriersHandler:     getCouriersHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
	}
}

// RegisterRoutes mounts all endpoints under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:ref/accept", s.AcceptOrder)
	api.POST("/orders/:ref/assign", s.AssignOrder)
	api.POST("/orders/:ref/advance", s.AdvanceStatus)
	api.POST("/orders/:ref/emergency", s.MarkEmergency)

	api.GET("/couriers", s.GetCouriers)
	api.POST("/couriers", s.CreateCourier)

	api.POST("/stock/reserve", s.ReserveStock)
	api.POST("/stock/release", s.ReleaseStock)
	api.POST("/checkout", s.Checkout)
	api.GET("/products/:id/stock", s.GetStock)
	api.GET("/products/:id/availability", s.GetAvailability)
}

type itemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	VersionID string `json:"version_id,omitempty"`
	SizeCode  string `json:"size_code,omitempty"`
}

type createOrderRequest struct {
	PurchaseID string        `json:"purchase_id"`
	Address    string        `json:"address"`
	City       string        `json:"city"`
	Zone       string        `json:"zone,omitempty"`
	Lat        *float64      `json:"lat,omitempty"`
	Lon        *float64      `json:"lon,omitempty"`
	Items      []itemRequest `json:"items"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	var coords *kernel.Coordinates
	if req.Lat != nil && req.Lon != nil {
		c, err := kernel.NewCoordinates(*req.Lat, *req.Lon)
		if err != nil {
			return domainError(ctx, err)
		}
		coords = &c
	}

	destination, err := kernel.NewDestination(req.Address, req.City, req.Zone, coords)
	if err != nil {
		return domainError(ctx, err)
	}

	items, err := toItems(req.Items)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(req.PurchaseID, destination, items)
	if err != nil {
		return domainError(ctx, err)
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"order_id": orderID.String()})
}

type courierActionRequest struct {
	CourierEmail string `json:"courier_email"`
}

// AcceptOrder handles POST /api/v1/orders/:ref/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	var req courierActionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	email, err := kernel.NewEmail(req.CourierEmail)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewAcceptOrderCommand(ctx.Param("ref"), email)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// AssignOrder handles POST /api/v1/orders/:ref/assign.
func (s *Server) AssignOrder(ctx echo.Context) error {
	var req courierActionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	email, err := kernel.NewEmail(req.CourierEmail)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewAssignOrderCommand(ctx.Param("ref"), email)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type advanceStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// AdvanceStatus handles POST /api/v1/orders/:ref/advance.
func (s *Server) AdvanceStatus(ctx echo.Context) error {
	var req advanceStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	status, err := order.StatusFromString(req.Status)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewAdvanceStatusCommand(ctx.Param("ref"), status, req.Notes)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.advanceStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type markEmergencyRequest struct {
	Reason string `json:"reason"`
}

// MarkEmergency handles POST /api/v1/orders/:ref/emergency.
func (s *Server) MarkEmergency(ctx echo.Context) error {
	var req markEmergencyRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewMarkEmergencyCommand(ctx.Param("ref"), req.Reason)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.markEmergencyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

type createCourierRequest struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Zones []string `json:"zones"`
}

// CreateCourier handles POST /api/v1/couriers.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req createCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	email, err := kernel.NewEmail(req.Email)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewCreateCourierCommand(email, req.Name, req.Zones)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.createCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.getCouriersHandler.Handle(ctx.Request().Context(), queries.NewGetCouriersQuery())
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, couriers)
}

type stockMutationRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	VersionID string `json:"version_id,omitempty"`
	SizeCode  string `json:"size_code,omitempty"`
}

// ReserveStock handles POST /api/v1/stock/reserve.
func (s *Server) ReserveStock(ctx echo.Context) error {
	var req stockMutationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewReserveStockCommand(productID, req.Quantity, req.VersionID, req.SizeCode)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.reserveStockHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// ReleaseStock handles POST /api/v1/stock/release.
func (s *Server) ReleaseStock(ctx echo.Context) error {
	var req stockMutationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewReleaseStockCommand(productID, req.Quantity, req.VersionID, req.SizeCode)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.releaseStockHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type checkoutRequest struct {
	Items []itemRequest `json:"items"`
}

// Checkout handles POST /api/v1/checkout.
func (s *Server) Checkout(ctx echo.Context) error {
	var req checkoutRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	items, err := toItems(req.Items)
	if err != nil {
		return domainError(ctx, err)
	}

	cmd, err := commands.NewCheckoutCommand(items)
	if err != nil {
		return domainError(ctx, err)
	}

	if err = s.checkoutHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetStock handles GET /api/v1/products/:id/stock.
func (s *Server) GetStock(ctx echo.Context) error {
	stock, err := s.queryStock(ctx)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]int{"stock": stock})
}

// GetAvailability handles GET /api/v1/products/:id/availability.
func (s *Server) GetAvailability(ctx echo.Context) error {
	var quantity int
	if err := echo.QueryParamsBinder(ctx).Int("quantity", &quantity).BindError(); err != nil || quantity <= 0 {
		return badRequest(ctx, "quantity must be a positive integer")
	}

	stock, err := s.queryStock(ctx)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"available": stock >= quantity})
}

func (s *Server) queryStock(ctx echo.Context) (int, error) {
	productID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return 0, err
	}

	query, err := queries.NewGetStockQuery(productID, ctx.QueryParam("version_id"), ctx.QueryParam("size_code"))
	if err != nil {
		return 0, err
	}

	return s.getStockHandler.Handle(ctx.Request().Context(), query)
}

func toItems(reqs []itemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(reqs))
	for _, r := range reqs {
		productID, err := kernel.UUIDFromString(r.ProductID)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(productID, r.Quantity, r.VersionID, r.SizeCode)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// domainError maps domain failures onto HTTP status codes: missing objects
// are 404, validation failures 400, race outcomes and state conflicts 409,
// ineligible couriers 403.
func domainError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrNotEligible):
		code = http.StatusForbidden
	case errors.Is(err, order.ErrCompetitionClosed),
		errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrOrderIsTerminal),
		errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, errs.ErrConcurrencyConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}
