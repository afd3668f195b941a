package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/service"
)

// ReservationFlow is implemented by *service.ReservationService.
type ReservationFlow interface {
	CreateReservation(ctx context.Context, req service.ReservationRequest) (*model.Reservation, error)
	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	ListReservations(ctx context.Context) ([]model.Reservation, error)
}

type ReservationHandler struct {
	Flow ReservationFlow
	// Timeout bounds inventory calls plus the insert; zero means 10s.
	Timeout time.Duration
}

func NewReservationHandler(flow ReservationFlow) *ReservationHandler {
	return &ReservationHandler{Flow: flow, Timeout: 10 * time.Second}
}

type reservationRequest struct {
	CustomerName  string   `json:"customerName"`
	CustomerPhone string   `json:"customerPhone"`
	CustomerEmail string   `json:"customerEmail"`
	ProductIDs    []string `json:"productIds"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
}

// Create handles POST /api/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
	defer cancel()

	res, err := h.Flow.CreateReservation(ctx, service.ReservationRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		ProductIDs:    req.ProductIDs,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

// List handles GET /api/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Flow.ListReservations(ctx)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]reservationResponse, 0, len(list))
	for i := range list {
		out = append(out, toReservationResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Flow.GetReservation(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(res))
}

func (h *ReservationHandler) timeout() time.Duration {
	if h.Timeout <= 0 {
		return 10 * time.Second
	}
	return h.Timeout
}
