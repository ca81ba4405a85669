package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "deskhive/database/repository/booking"
	resourceRepo "deskhive/database/repository/resource"
	"deskhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeBookingRepo is an in-memory BookingRepository. Transactions are
// a plain callback; the unit tests exercise engine semantics, not
// storage isolation.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) put(b models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := b
	f.bookings[b.ID] = &copied
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	f.put(*booking)
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) FindBySeries(ctx context.Context, seriesID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.SeriesID == seriesID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (f *fakeBookingRepo) FindActiveByResource(ctx context.Context, resourceID string, windowStart, windowEnd time.Time, excludeIDs []string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	window := models.Interval{Start: windowStart, End: windowEnd}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ResourceID != resourceID || !b.IsActive() || excluded[b.ID] {
			continue
		}
		if b.Interval().Overlaps(window) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, meta bookingRepo.StatusUpdate) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrStaleStatus
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	if meta.ApprovedAt != nil {
		b.ApprovedAt = meta.ApprovedAt
		b.ApprovedBy = meta.ApprovedBy
	}
	if meta.CancelledBy != "" {
		b.CancelledBy = meta.CancelledBy
	}
	if meta.CancellationReason != "" {
		b.CancellationReason = meta.CancellationReason
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) FindConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.StatusConfirmed && !b.End.After(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ExecuteTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	return fn(nil)
}

func (f *fakeBookingRepo) activeBookings() []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.IsActive() {
			out = append(out, *b)
		}
	}
	return out
}

// fakeResourceRepo is an in-memory ResourceRepository.
type fakeResourceRepo struct {
	resources map[string]*models.Resource
}

func newFakeResourceRepo(resources ...models.Resource) *fakeResourceRepo {
	f := &fakeResourceRepo{resources: make(map[string]*models.Resource)}
	for _, r := range resources {
		copied := r
		f.resources[r.ID] = &copied
	}
	return f
}

func (f *fakeResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	copied := *resource
	f.resources[resource.ID] = &copied
	return nil
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResourceRepo) GetAll(ctx context.Context) ([]models.Resource, error) {
	var out []models.Resource
	for _, r := range f.resources {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeResourceRepo) Update(ctx context.Context, resource *models.Resource) error {
	copied := *resource
	f.resources[resource.ID] = &copied
	return nil
}

func (f *fakeResourceRepo) Deactivate(ctx context.Context, id string) error {
	r, ok := f.resources[id]
	if !ok {
		return resourceRepo.ErrResourceNotFound
	}
	r.IsActive = false
	return nil
}

// fakeLocker hands out the lock unconditionally and counts
// acquisitions.
type fakeLocker struct {
	acquired int
}

func (f *fakeLocker) Acquire(ctx context.Context, resourceID string) (func(), error) {
	f.acquired++
	return func() {}, nil
}

// fakeCompletionScheduler records scheduled bookings.
type fakeCompletionScheduler struct {
	scheduled []string
}

func (f *fakeCompletionScheduler) ScheduleCompletion(b models.Booking) error {
	f.scheduled = append(f.scheduled, b.ID)
	return nil
}

func newTestService(resources *fakeResourceRepo, bookings *fakeBookingRepo, now time.Time) (*DefaultBookingService, *fakeLocker) {
	locker := &fakeLocker{}
	svc := &DefaultBookingService{
		ResourceRepo: resources,
		Repo:         bookings,
		Locks:        locker,
		Now:          func() time.Time { return now },
	}
	return svc, locker
}
