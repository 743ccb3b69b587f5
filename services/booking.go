package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/slotbook/slotbook/models"
	"github.com/slotbook/slotbook/notify"
)

// The daily grid: one-hour sessions starting on the whole hour. The grid
// shows 9:00 through 16:00; the last start actually bookable is 15:00, for a
// session ending at 16:00.
const (
	firstSlotHour    = 9
	lastSlotHour     = 16
	lastBookableHour = 15
)

const dateLayout = "2006-01-02"

// defaultNotifyWait bounds how long a response waits on post-commit mail and
// calendar delivery before degrading.
const defaultNotifyWait = 5 * time.Second

// SlotGrid returns the fixed daily slots in ascending order.
func SlotGrid() []string {
	slots := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		slots = append(slots, fmt.Sprintf("%d:00", h))
	}
	return slots
}

// NormalizeSlot validates a requested slot ("H:MM" or "HH:MM", minutes 00,
// hour within the bookable range) and returns its canonical grid form.
func NormalizeSlot(slot string) (string, error) {
	parts := strings.Split(slot, ":")
	if len(parts) != 2 || parts[1] != "00" {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidSlot, slot)
	}
	if len(parts[0]) == 0 || len(parts[0]) > 2 {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidSlot, slot)
	}
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", models.ErrInvalidSlot, slot)
		}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < firstSlotHour || hour > lastBookableHour {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidSlot, slot)
	}
	return fmt.Sprintf("%d:00", hour), nil
}

// SlotLedgerStore is the durable reservation state consumed by the booking
// engine.
type SlotLedgerStore interface {
	ListReserved(providerID uint, date string) ([]string, error)
	Reserve(res *models.Reservation) error
}

// Directory resolves account ids to accounts, for participant checks and
// post-commit email resolution.
type Directory interface {
	GetUser(id uint) (*models.User, error)
}

// AvailabilityCache fronts the slot-list read path. Implementations may lose
// or expire entries at any time; a miss just falls through to the ledger.
type AvailabilityCache interface {
	Get(providerID uint, date string) ([]string, bool)
	Set(providerID uint, date string, slots []string)
	Invalidate(providerID uint, date string)
}

// BookingService computes availability and performs race-safe reservation.
type BookingService struct {
	ledger     SlotLedgerStore
	users      Directory
	notifier   notify.Notifier
	cache      AvailabilityCache
	notifyWait time.Duration
}

func NewBookingService(ledger SlotLedgerStore, users Directory, notifier notify.Notifier, cache AvailabilityCache) *BookingService {
	return &BookingService{
		ledger:     ledger,
		users:      users,
		notifier:   notifier,
		cache:      cache,
		notifyWait: defaultNotifyWait,
	}
}

// WithNotifyWait overrides the bounded notification wait, for tests.
func (s *BookingService) WithNotifyWait(d time.Duration) *BookingService {
	s.notifyWait = d
	return s
}

// ListAvailable returns the grid minus the slots already reserved for
// (providerID, date), ascending. The read is not transactional; Reserve
// re-checks atomically, so a slot taken right after this call is fine.
func (s *BookingService) ListAvailable(providerID uint, date string) ([]string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}

	if s.cache != nil {
		if slots, ok := s.cache.Get(providerID, date); ok {
			return slots, nil
		}
	}

	reserved, err := s.ledger.ListReserved(providerID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(reserved))
	for _, slot := range reserved {
		taken[slot] = true
	}

	available := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for _, slot := range SlotGrid() {
		if !taken[slot] {
			available = append(available, slot)
		}
	}

	if s.cache != nil {
		s.cache.Set(providerID, date, available)
	}
	return available, nil
}

// ReservationResult is a committed reservation plus the delivery outcome of
// its post-commit notifications.
type ReservationResult struct {
	Reservation *models.Reservation
	// NotificationsDegraded is true when confirmation mail or the calendar
	// invite failed or timed out. The reservation stands regardless.
	NotificationsDegraded bool
}

// Reserve books (providerID, date, slot) for the requester. Among concurrent
// attempts at the same triple exactly one wins; the rest get
// ErrSlotUnavailable.
func (s *BookingService) Reserve(providerID, requesterID uint, date, slot string) (*ReservationResult, error) {
	canonical, err := NormalizeSlot(slot)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation)
	}

	provider, err := s.users.GetUser(providerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown provider", models.ErrValidation)
		}
		return nil, err
	}
	if provider.Role != models.RoleProvider {
		return nil, fmt.Errorf("%w: account %d is not a provider", models.ErrValidation, providerID)
	}
	requester, err := s.users.GetUser(requesterID)
	if err != nil {
		return nil, err
	}

	res := &models.Reservation{
		ProviderID:  providerID,
		RequesterID: requesterID,
		Date:        date,
		TimeSlot:    canonical,
		Status:      models.StatusConfirmed,
	}
	if err := s.ledger.Reserve(res); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(providerID, date)
	}

	degraded := s.dispatchNotifications(requester.Email, provider.Email, date, canonical)
	return &ReservationResult{Reservation: res, NotificationsDegraded: degraded}, nil
}

// dispatchNotifications fires the confirmation mail and the calendar invite
// concurrently and waits a bounded time for both. Runs strictly after commit;
// a failure or timeout degrades the response and nothing else.
func (s *BookingService) dispatchNotifications(requesterEmail, providerEmail, date, slot string) bool {
	if s.notifier == nil {
		return false
	}

	errc := make(chan error, 2)
	go func() {
		errc <- s.notifier.SendBookingConfirmation(requesterEmail, providerEmail, date, slot)
	}()
	go func() {
		errc <- s.notifier.SendCalendarInvite(requesterEmail, providerEmail, date, slot)
	}()

	timer := time.NewTimer(s.notifyWait)
	defer timer.Stop()

	degraded := false
	for i := 0; i < 2; i++ {
		select {
		case err := <-errc:
			if err != nil {
				log.Printf("notification delivery failed for %s %s: %v", date, slot, err)
				degraded = true
			}
		case <-timer.C:
			log.Printf("notification delivery timed out for %s %s", date, slot)
			return true
		}
	}
	return degraded
}
