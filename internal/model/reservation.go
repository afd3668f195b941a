package model

import "time"

// Reservation records a customer's request to reserve one or more
// products (or none, for a plain appointment) for a given date and time.
// Reservations are immutable once written and are never deleted.
//
// Fields:
//  ID            – primary key identifier.
//  CustomerName  – name given on the reservation form.
//  CustomerPhone – contact phone, may be empty.
//  CustomerEmail – contact email, may be empty.
//  ProductIDs    – comma-joined product ids ("101,102"); nil when the
//                  request carried no products.
//  Date, Time    – requested slot, stored as sent by the client.
//  CreatedAt     – creation timestamp, set once on insert.
type Reservation struct {
	ID            uint64    // reservations.id
	CustomerName  string    // reservations.customer_name
	CustomerPhone string    // reservations.customer_phone
	CustomerEmail string    // reservations.customer_email
	ProductIDs    *string   // reservations.product_ids (nullable)
	Date          string    // reservations.date
	Time          string    // reservations.time
	CreatedAt     time.Time // reservations.created_at
}
