package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/live-commerce-backend/internal/client"
	"github.com/iliyamo/live-commerce-backend/internal/model"
	"github.com/iliyamo/live-commerce-backend/internal/queue"
	"github.com/iliyamo/live-commerce-backend/internal/repository"
)

// ProductLookup is the slice of the inventory service the reservation flow
// depends on.  *client.ProductClient satisfies it.
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*client.Product, error)
	ReduceStock(ctx context.Context, id int64, quantity int) error
}

// ReservationStore persists reservations.  *repository.ReservationRepo satisfies it.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)
}

// EventPublisher announces created reservations.  *queue.Publisher satisfies it.
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// ReservationRequest is the input of CreateReservation.
type ReservationRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	ProductIDs    []string
	Date          string
	Time          string
}

type ReservationService struct {
	products  ProductLookup
	store     ReservationStore
	publisher EventPublisher // optional
	now       func() time.Time
}

// NewReservationService wires the flow.  publisher may be nil, in which
// case no events are emitted.
func NewReservationService(products ProductLookup, store ReservationStore, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		products:  products,
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateReservation checks and decrements stock for every product in
// request order, then persists the reservation.  The first failing product
// aborts the flow; stock already decremented for earlier products stays
// decremented.
func (s *ReservationService) CreateReservation(ctx context.Context, req ReservationRequest) (*model.Reservation, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customerName is required", ErrValidation)
	}

	for _, raw := range req.ProductIDs {
		if err := s.reserveOne(ctx, raw); err != nil {
			return nil, err
		}
	}

	res := &model.Reservation{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Date:          req.Date,
		Time:          req.Time,
		CreatedAt:     s.now(),
	}
	if len(req.ProductIDs) > 0 {
		joined := strings.Join(req.ProductIDs, ",")
		res.ProductIDs = &joined
	}
	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}

	s.publish(ctx, res, req.ProductIDs)
	return res, nil
}

func (s *ReservationService) reserveOne(ctx context.Context, raw string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: product id %q", ErrInvalidProduct, raw)
	}

	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrProductNotFound) {
			return fmt.Errorf("%w: product %d does not exist", ErrInvalidProduct, id)
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if p == nil {
		return fmt.Errorf("%w: product %d does not exist", ErrInvalidProduct, id)
	}
	if p.Stock == nil || *p.Stock <= 0 {
		return fmt.Errorf("%w: product %d", ErrOutOfStock, id)
	}

	if err := s.products.ReduceStock(ctx, id, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

// publish is best effort: the reservation is already committed.
func (s *ReservationService) publish(ctx context.Context, res *model.Reservation, productIDs []string) {
	if s.publisher == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		CustomerName:  res.CustomerName,
		CustomerEmail: res.CustomerEmail,
		CustomerPhone: res.CustomerPhone,
		ProductIDs:    productIDs,
		Date:          res.Date,
		Time:          res.Time,
		CreatedAt:     res.CreatedAt.Format(time.RFC3339),
	}
	if err := s.publisher.PublishReservationCreated(ctx, ev); err != nil {
		log.Warnf("reservation %d: event not published: %v", res.ID, err)
	}
}

// GetReservation returns one reservation by id.
func (s *ReservationService) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
	}
	return res, err
}

// ListReservations returns every reservation, newest first.
func (s *ReservationService) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return s.store.List(ctx)
}
