// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationQueueName is the durable queue reservation events are routed to.
const ReservationQueueName = "reservation.created"

// ReservationCreatedEvent is published after a reservation row has been
// written.  It carries enough for downstream consumers to log or notify
// without querying the reservation database.
type ReservationCreatedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email,omitempty"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	ProductIDs    []string `json:"product_ids"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	CreatedAt     string   `json:"created_at"`
}
