package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/live-commerce-backend/internal/model"
)

// ReservationRepo persists reservations.  Rows are insert-only: there is no
// update or delete path.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, customer_name, customer_phone, customer_email, product_ids, date, time, created_at`

// Create inserts the reservation and populates its generated ID.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (customer_name, customer_phone, customer_email, product_ids, date, time, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.CustomerName, res.CustomerPhone, res.CustomerEmail,
		nullString(res.ProductIDs), res.Date, res.Time, res.CreatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID returns ErrNotFound when no reservation has the id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		return nil, notFound(err)
	}
	return res, nil
}

// List returns every reservation, newest first.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var (
		res          model.Reservation
		phone, email sql.NullString
		productIDs   sql.NullString
		date, tm     sql.NullString
	)
	if err := s.Scan(&res.ID, &res.CustomerName, &phone, &email, &productIDs, &date, &tm, &res.CreatedAt); err != nil {
		return nil, err
	}
	res.CustomerPhone = phone.String
	res.CustomerEmail = email.String
	res.ProductIDs = stringPtr(productIDs)
	res.Date = date.String
	res.Time = tm.String
	return &res, nil
}
