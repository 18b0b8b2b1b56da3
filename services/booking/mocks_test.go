package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	offerRepo "stayhub/database/repository/offer"
	roomRepo "stayhub/database/repository/room"
	userRepo "stayhub/database/repository/user"
	"stayhub/models"
	"stayhub/utils"
)

// In-memory doubles for the repositories and collaborators. They mirror the
// store semantics the service depends on (clamped coin deduction, half-open
// overlap checks) so behavior tests run without external services.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetByIntentID(_ context.Context, intentID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.StripePaymentIntentID == intentID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) Update(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			b.Status = value.(string)
		case "paymentStatus":
			b.PaymentStatus = value.(string)
		case "stripePaymentIntentId":
			b.StripePaymentIntentID = value.(string)
		case "transactionId":
			b.TransactionID = value.(string)
		case "refundId":
			b.RefundID = value.(string)
		case "paymentReceiptUrl":
			b.PaymentReceiptURL = value.(string)
		case "loyaltyCoinsEarned":
			b.LoyaltyCoinsEarned = value.(int)
		case "loyaltyCoinsUsed":
			b.LoyaltyCoinsUsed = value.(int)
		case "emailConfirmedSent":
			b.EmailConfirmedSent = value.(bool)
		case "reviewInviteSent":
			b.ReviewInviteSent = value.(bool)
		default:
			return fmt.Errorf("fakeBookingRepo: unhandled field %q", key)
		}
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeBookingRepo) HasOverlapping(_ context.Context, hotelID, roomID string, start, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.HotelID == hotelID && b.RoomID == roomID && b.HoldsInventory() &&
			utils.Overlaps(start, end, b.CheckIn, b.CheckOut) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) ListHolds(_ context.Context, hotelID string, start, end time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID && b.HoldsInventory() && utils.Overlaps(start, end, b.CheckIn, b.CheckOut) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListAll(_ context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByHotel(_ context.Context, hotelID string, statuses []string, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HotelID != hotelID {
			continue
		}
		if userID != "" && b.UserID != userID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if b.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) MarkCompletedBefore(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.Status == models.BookingBooked && b.PaymentStatus == models.PaymentPaid && b.CheckOut.Before(now) {
			b.Status = models.BookingCompleted
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) ListReviewInvitePending(_ context.Context, since, now time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingCompleted && b.PaymentStatus == models.PaymentPaid &&
			!b.ReviewInviteSent && b.CheckOut.After(since) && b.CheckOut.Before(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListStalePending(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingPending && b.CreatedAt.Before(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) DeleteStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, b := range f.bookings {
		if b.Status == models.BookingPending && b.CreatedAt.Before(cutoff) {
			delete(f.bookings, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) EnsureIndexes(context.Context) error { return nil }

type fakeHotelRepo struct {
	hotels map[string]*models.Hotel
}

func newFakeHotelRepo(hotels ...*models.Hotel) *fakeHotelRepo {
	m := make(map[string]*models.Hotel, len(hotels))
	for _, h := range hotels {
		m[h.ID] = h
	}
	return &fakeHotelRepo{hotels: m}
}

func (f *fakeHotelRepo) Create(_ context.Context, h *models.Hotel) error {
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeHotelRepo) GetByID(_ context.Context, id string) (*models.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return nil, hotelRepo.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotelRepo) Update(_ context.Context, h *models.Hotel) error {
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeHotelRepo) UpdateFields(_ context.Context, id string, _ map[string]interface{}) error {
	if _, ok := f.hotels[id]; !ok {
		return hotelRepo.ErrNotFound
	}
	return nil
}

func (f *fakeHotelRepo) Delete(_ context.Context, id string) error {
	delete(f.hotels, id)
	return nil
}

func (f *fakeHotelRepo) List(_ context.Context, _ bool) ([]models.Hotel, error) {
	var out []models.Hotel
	for _, h := range f.hotels {
		out = append(out, *h)
	}
	return out, nil
}

func (f *fakeHotelRepo) ApplyRating(_ context.Context, id string, rating int) error {
	h, ok := f.hotels[id]
	if !ok {
		return hotelRepo.ErrNotFound
	}
	total := h.RatingAvg*float64(h.RatingCount) + float64(rating)
	h.RatingCount++
	h.RatingAvg = total / float64(h.RatingCount)
	return nil
}

func (f *fakeHotelRepo) EnsureIndexes(context.Context) error { return nil }

type fakeRoomRepo struct {
	rooms map[string]*models.Room
}

func newFakeRoomRepo(rooms ...*models.Room) *fakeRoomRepo {
	m := make(map[string]*models.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeRoomRepo{rooms: m}
}

func (f *fakeRoomRepo) Create(_ context.Context, r *models.Room) error {
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeRoomRepo) GetByID(_ context.Context, id string) (*models.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, roomRepo.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoomRepo) GetForHotel(_ context.Context, roomID, hotelID string) (*models.Room, error) {
	r, ok := f.rooms[roomID]
	if !ok || r.HotelID != hotelID {
		return nil, roomRepo.ErrNotFound
	}
	return r, nil
}

func (f *fakeRoomRepo) ListByHotel(_ context.Context, hotelID string, minGuests int) ([]models.Room, error) {
	var out []models.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID && (minGuests <= 0 || r.Capacity.Total() >= minGuests) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) Update(_ context.Context, r *models.Room) error {
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeRoomRepo) Delete(_ context.Context, id string) error {
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) EnsureIndexes(context.Context) error { return nil }

type fakeOfferRepo struct {
	offers      map[string]*models.Offer
	redemptions map[string]int
}

func newFakeOfferRepo(offers ...*models.Offer) *fakeOfferRepo {
	m := make(map[string]*models.Offer, len(offers))
	for _, o := range offers {
		m[o.ID] = o
	}
	return &fakeOfferRepo{offers: m, redemptions: make(map[string]int)}
}

func (f *fakeOfferRepo) Create(_ context.Context, o *models.Offer) error {
	f.offers[o.ID] = o
	return nil
}

func (f *fakeOfferRepo) GetByID(_ context.Context, id string) (*models.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, offerRepo.ErrNotFound
	}
	return o, nil
}

func (f *fakeOfferRepo) GetByCode(_ context.Context, hotelID, code string) (*models.Offer, error) {
	for _, o := range f.offers {
		if o.HotelID == hotelID && o.Code == code {
			return o, nil
		}
	}
	return nil, offerRepo.ErrNotFound
}

func (f *fakeOfferRepo) Update(_ context.Context, o *models.Offer) error {
	f.offers[o.ID] = o
	return nil
}

func (f *fakeOfferRepo) Deactivate(_ context.Context, id string) (*models.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, offerRepo.ErrNotFound
	}
	o.IsActive = false
	return o, nil
}

func (f *fakeOfferRepo) List(_ context.Context, _ offerRepo.ListFilter) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range f.offers {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOfferRepo) IncrementRedemptions(_ context.Context, hotelID, code string) error {
	key := hotelID + ":" + code
	f.redemptions[key]++
	for _, o := range f.offers {
		if o.HotelID == hotelID && o.Code == code {
			o.RedemptionCount++
		}
	}
	return nil
}

func (f *fakeOfferRepo) EnsureIndexes(context.Context) error { return nil }

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := make(map[string]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdateFields(_ context.Context, id string, _ map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return userRepo.ErrNotFound
	}
	return nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) AwardCoins(_ context.Context, id string, coins int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return 0, userRepo.ErrNotFound
	}
	u.LoyaltyCoins += coins
	return u.LoyaltyCoins, nil
}

// DeductCoins mirrors the store's clamp: never below zero, returns the amount
// actually taken.
func (f *fakeUserRepo) DeductCoins(_ context.Context, id string, coins int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return 0, userRepo.ErrNotFound
	}
	deducted := coins
	if deducted > u.LoyaltyCoins {
		deducted = u.LoyaltyCoins
	}
	u.LoyaltyCoins -= deducted
	return deducted, nil
}

func (f *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

type fakeGateway struct {
	mu           sync.Mutex
	nextIntent   int
	createdCalls int
	refundCalls  int
	cancelCalls  int
	failCreate   bool
	failRefund   bool
	confirmable  bool
	lastAmount   int64
}

func (f *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency, bookingID string) (*models.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdCalls++
	if f.failCreate {
		return nil, errors.New("gateway unavailable")
	}
	f.nextIntent++
	f.lastAmount = amountMinor
	return &models.PaymentIntent{
		IntentID:     fmt.Sprintf("pi_%d", f.nextIntent),
		ClientSecret: fmt.Sprintf("pi_%d_secret", f.nextIntent),
		Amount:       amountMinor,
		Currency:     currency,
	}, nil
}

func (f *fakeGateway) RetrieveIntent(_ context.Context, intentID string) (*models.PaymentIntent, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.PaymentIntent{IntentID: intentID, ClientSecret: intentID + "_secret", Amount: f.lastAmount}, f.confirmable, nil
}

func (f *fakeGateway) CancelIntent(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	return nil
}

func (f *fakeGateway) Refund(_ context.Context, intentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refundCalls++
	if f.failRefund {
		return "", errors.New("refund rejected")
	}
	return "re_" + intentID, nil
}

type fakeMailer struct {
	mu            sync.Mutex
	confirmations int
	cancellations int
	invites       int
	otps          int
}

func (f *fakeMailer) SendBookingConfirmation(*models.Booking, *models.User, *models.Hotel, *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	return nil
}

func (f *fakeMailer) SendBookingCancellation(*models.Booking, *models.User, *models.Hotel, bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancellations++
	return nil
}

func (f *fakeMailer) SendReviewInvite(*models.Booking, *models.User, *models.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites++
	return nil
}

func (f *fakeMailer) sentConfirmations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmations
}

func (f *fakeMailer) SendOTP(string, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps++
	return nil
}

type fakeLocker struct {
	held bool
}

func (f *fakeLocker) Acquire(context.Context, string, string) (func(), bool, error) {
	if f.held {
		return nil, false, nil
	}
	return func() {}, true, nil
}
