package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/parkospace/internal/model"
	"github.com/iliyamo/parkospace/internal/queue"
)

// Values filled in when the create form leaves a field blank.
const (
	DefaultPriceHourly  = 50
	DefaultPriceDaily   = 300
	DefaultPriceMonthly = 2000
	DefaultGmapLink     = "#"
	DefaultAddress      = "Unknown Location"
	DefaultImage        = "https://source.unsplash.com/random/400x300?parking,india,car"
)

// ListingStore is the write side of the listing repository.
type ListingStore interface {
	ListingSource
	Create(ctx context.Context, l *model.Listing) error
	Update(ctx context.Context, id, ownerPhone string, u model.ListingUpdate) (bool, error)
	Delete(ctx context.Context, id, ownerPhone string) (bool, error)
}

// ListingService applies create defaults, delegates to the store and
// announces successful writes.
type ListingService struct {
	store  ListingStore
	events EventPublisher
	now    func() time.Time
}

func NewListingService(store ListingStore, events EventPublisher) *ListingService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ListingService{store: store, events: events, now: time.Now}
}

// Create assigns a new id, fills blank fields with defaults and stores the
// listing for ownerPhone.
func (s *ListingService) Create(ctx context.Context, ownerPhone string, l *model.Listing) error {
	l.ID = uuid.NewString()
	l.OwnerPhone = ownerPhone
	l.CreatedAt = s.now().UTC()
	l.IsSold = false
	if l.PriceHourly == 0 {
		l.PriceHourly = DefaultPriceHourly
	}
	if l.PriceDaily == 0 {
		l.PriceDaily = DefaultPriceDaily
	}
	if l.PriceMonthly == 0 {
		l.PriceMonthly = DefaultPriceMonthly
	}
	if strings.TrimSpace(l.GmapLink) == "" {
		l.GmapLink = DefaultGmapLink
	}
	if strings.TrimSpace(l.AddressText) == "" {
		l.AddressText = DefaultAddress
	}
	if strings.TrimSpace(l.Image) == "" {
		l.Image = DefaultImage
	}
	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	if err := s.store.Create(ctx, l); err != nil {
		return err
	}
	s.publish(ctx, queue.ListingEvent{
		Type: queue.ListingCreated, ListingID: l.ID, OwnerPhone: l.OwnerPhone,
		Title: l.Title, Lat: l.Lat, Lng: l.Lng,
	})
	return nil
}

// Update changes a listing owned by ownerPhone. False means the listing
// does not exist or belongs to someone else.
func (s *ListingService) Update(ctx context.Context, id, ownerPhone string, u model.ListingUpdate) (bool, error) {
	ok, err := s.store.Update(ctx, id, ownerPhone, u)
	if err != nil || !ok {
		return ok, err
	}
	ev := queue.ListingEvent{
		Type: queue.ListingUpdated, ListingID: id, OwnerPhone: ownerPhone,
		Title: u.Title, IsSold: u.IsSold,
	}
	if u.MovesLocation() {
		ev.Lat, ev.Lng = u.Lat, u.Lng
	}
	s.publish(ctx, ev)
	return true, nil
}

// Delete removes a listing owned by ownerPhone.
func (s *ListingService) Delete(ctx context.Context, id, ownerPhone string) (bool, error) {
	ok, err := s.store.Delete(ctx, id, ownerPhone)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(ctx, queue.ListingEvent{Type: queue.ListingDeleted, ListingID: id, OwnerPhone: ownerPhone})
	return true, nil
}

func (s *ListingService) publish(ctx context.Context, ev queue.ListingEvent) {
	ev.OccurredAt = s.now().UTC().Format(time.RFC3339)
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("service: publish %s for %s failed: %v", ev.Type, ev.ListingID, err)
	}
}
