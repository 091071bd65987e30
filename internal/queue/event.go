// Package queue defines the listing lifecycle events exchanged over the
// message broker and the background consumer that records them.
package queue

// ListingQueueName is the durable queue listing events are routed to.
const ListingQueueName = "listing.events"

// Event types.
const (
	ListingCreated = "listing.created"
	ListingUpdated = "listing.updated"
	ListingDeleted = "listing.deleted"
)

// ListingEvent is published after a listing write succeeds. It carries
// enough for downstream consumers to log or notify without querying the
// store.
type ListingEvent struct {
	Type       string   `json:"type"`
	ListingID  string   `json:"listing_id"`
	OwnerPhone string   `json:"owner_phone"`
	Title      string   `json:"title,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	IsSold     bool     `json:"is_sold"`
	OccurredAt string   `json:"occurred_at"`
}
