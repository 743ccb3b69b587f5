package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotbook/slotbook/auth"
	"github.com/slotbook/slotbook/models"
)

// --- fakes ---

type fakeCredentialStore struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]*models.User
	byEmail  map[string]uint
	codes    map[uint]*models.VerificationCode
	profiles map[uint]*models.ProviderProfile
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		users:    make(map[uint]*models.User),
		byEmail:  make(map[string]uint),
		codes:    make(map[uint]*models.VerificationCode),
		profiles: make(map[uint]*models.ProviderProfile),
	}
}

func (f *fakeCredentialStore) CreateAccount(user *models.User, code *models.VerificationCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return models.ErrDuplicateIdentity
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	f.byEmail[user.Email] = user.ID
	code.UserID = user.ID
	storedCode := *code
	f.codes[user.ID] = &storedCode
	return nil
}

func (f *fakeCredentialStore) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := *f.users[id]
	return &u, nil
}

func (f *fakeCredentialStore) GetUser(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeCredentialStore) RedeemCode(email, code string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrInvalidOrExpiredCode
	}
	vc, ok := f.codes[id]
	if !ok || vc.Code != code || !vc.ExpiresAt.After(now) {
		return nil, models.ErrInvalidOrExpiredCode
	}
	f.users[id].IsVerified = true
	delete(f.codes, id)
	u := *f.users[id]
	return &u, nil
}

func (f *fakeCredentialStore) UpsertProfile(profile *models.ProviderProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.PictureURL = existing.PictureURL
	} else {
		f.nextID++
		profile.ID = f.nextID
	}
	stored := *profile
	f.profiles[profile.UserID] = &stored
	return nil
}

func (f *fakeCredentialStore) GetProfile(userID uint) (*models.ProviderProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCredentialStore) SetProfilePicture(userID uint, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return models.ErrNotFound
	}
	p.PictureURL = url
	return nil
}

func (f *fakeCredentialStore) codeFor(userID uint) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if vc, ok := f.codes[userID]; ok {
		return vc.Code
	}
	return ""
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "h:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "h:"+password }

type fakeNotifier struct {
	mu       sync.Mutex
	codes    map[string]string
	bookings int
	invites  int
	failAll  bool
	delay    time.Duration
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{codes: make(map[string]string)}
}

func (f *fakeNotifier) outcome() error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failAll {
		return fmt.Errorf("smtp: connection refused")
	}
	return nil
}

func (f *fakeNotifier) SendCode(email, code string) error {
	f.mu.Lock()
	f.codes[email] = code
	f.mu.Unlock()
	return f.outcome()
}

func (f *fakeNotifier) SendBookingConfirmation(requesterEmail, providerEmail, date, slot string) error {
	f.mu.Lock()
	f.bookings++
	f.mu.Unlock()
	return f.outcome()
}

func (f *fakeNotifier) SendCalendarInvite(requesterEmail, providerEmail, date, slot string) error {
	f.mu.Lock()
	f.invites++
	f.mu.Unlock()
	return f.outcome()
}

func (f *fakeNotifier) SendReminder(email, date, slot string) error {
	return f.outcome()
}

// --- helpers ---

func registerInput(email, role string) RegisterInput {
	return RegisterInput{
		FirstName: "Jamie",
		LastName:  "Doe",
		Email:     email,
		Password:  "correct-horse",
		Role:      role,
	}
}

func newTestIdentity() (*IdentityService, *fakeCredentialStore, *fakeNotifier) {
	store := newFakeCredentialStore()
	notifier := newFakeNotifier()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewIdentityService(store, fakeHasher{}, issuer, notifier)
	return svc, store, notifier
}

// --- tests ---

func TestRegisterCreatesUnverifiedAccountAndSendsCode(t *testing.T) {
	svc, store, notifier := newTestIdentity()

	result, err := svc.Register(registerInput("jamie@example.com", "requester"))
	require.NoError(t, err)
	assert.NotZero(t, result.UserID)
	assert.False(t, result.DeliveryDegraded)

	user, err := store.FindByEmail("jamie@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, models.RoleRequester, user.Role)
	assert.NotEqual(t, "correct-horse", user.Password)

	code := notifier.codes["jamie@example.com"]
	assert.Len(t, code, 6)
	assert.Equal(t, store.codeFor(user.ID), code)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestIdentity()

	cases := map[string]RegisterInput{
		"bad email":      registerInput("not-an-email", "requester"),
		"unknown role":   registerInput("a@example.com", "admin"),
		"short password": {FirstName: "J", LastName: "D", Email: "b@example.com", Password: "short", Role: "requester"},
		"missing name":   {Email: "c@example.com", Password: "correct-horse", Role: "provider"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestIdentity()

	_, err := svc.Register(registerInput("dup@example.com", "requester"))
	require.NoError(t, err)

	_, err = svc.Register(registerInput("dup@example.com", "provider"))
	assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
}

func TestConcurrentRegisterSingleAccount(t *testing.T) {
	svc, store, _ := newTestIdentity()

	const attempts = 10
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(registerInput("race@example.com", "requester"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)

	_, err := store.FindByEmail("race@example.com")
	assert.NoError(t, err)
}

func TestAuthenticateGatesOnVerification(t *testing.T) {
	svc, _, _ := newTestIdentity()

	_, err := svc.Register(registerInput("gate@example.com", "requester"))
	require.NoError(t, err)

	_, err = svc.Authenticate("gate@example.com", "correct-horse")
	assert.ErrorIs(t, err, models.ErrUnverifiedAccount)
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestIdentity()

	_, err := svc.Register(registerInput("creds@example.com", "requester"))
	require.NoError(t, err)

	_, err = svc.Authenticate("creds@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestRedeemCodeVerifiesExactlyOnce(t *testing.T) {
	svc, _, notifier := newTestIdentity()

	result, err := svc.Register(registerInput("once@example.com", "requester"))
	require.NoError(t, err)

	code := notifier.codes["once@example.com"]
	user, err := svc.RedeemCode("once@example.com", code)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Equal(t, result.UserID, user.ID)

	token, err := svc.Authenticate("once@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// the code was consumed; a second attempt is rejected even before expiry
	_, err = svc.RedeemCode("once@example.com", code)
	assert.ErrorIs(t, err, models.ErrInvalidOrExpiredCode)
}

func TestRedeemCodeWrongCode(t *testing.T) {
	svc, _, notifier := newTestIdentity()

	_, err := svc.Register(registerInput("wrong@example.com", "requester"))
	require.NoError(t, err)

	code := notifier.codes["wrong@example.com"]
	bad := "000000"
	if bad == code {
		bad = "000001"
	}
	_, err = svc.RedeemCode("wrong@example.com", bad)
	assert.ErrorIs(t, err, models.ErrInvalidOrExpiredCode)
}

func TestRedeemCodeExpiryBoundary(t *testing.T) {
	svc, _, notifier := newTestIdentity()

	issued := time.Now()
	now := issued
	svc.WithClock(func() time.Time { return now })

	_, err := svc.Register(registerInput("early@example.com", "requester"))
	require.NoError(t, err)
	now = issued.Add(59 * time.Minute)
	_, err = svc.RedeemCode("early@example.com", notifier.codes["early@example.com"])
	assert.NoError(t, err)

	now = issued
	_, err = svc.Register(registerInput("late@example.com", "requester"))
	require.NoError(t, err)
	now = issued.Add(61 * time.Minute)
	_, err = svc.RedeemCode("late@example.com", notifier.codes["late@example.com"])
	assert.ErrorIs(t, err, models.ErrInvalidOrExpiredCode)
}

func TestRegisterDeliveryFailureStillCommits(t *testing.T) {
	svc, store, notifier := newTestIdentity()
	notifier.failAll = true

	result, err := svc.Register(registerInput("degraded@example.com", "requester"))
	require.NoError(t, err)
	assert.True(t, result.DeliveryDegraded)

	// the account and its code committed; redemption works without the mail
	code := store.codeFor(result.UserID)
	require.NotEmpty(t, code)
	user, err := svc.RedeemCode("degraded@example.com", code)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, store, _ := newTestIdentity()

	_, err := svc.Register(registerInput("  Mixed.Case@Example.COM ", "requester"))
	require.NoError(t, err)

	_, err = store.FindByEmail("mixed.case@example.com")
	assert.NoError(t, err)

	_, err = svc.Register(registerInput("MIXED.CASE@example.com", "requester"))
	assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
}

func TestUpsertProfile(t *testing.T) {
	svc, _, notifier := newTestIdentity()

	result, err := svc.Register(registerInput("pro@example.com", "provider"))
	require.NoError(t, err)
	_, err = svc.RedeemCode("pro@example.com", notifier.codes["pro@example.com"])
	require.NoError(t, err)

	profile, err := svc.UpsertProfile(result.UserID, "distributed systems", 50)
	require.NoError(t, err)
	assert.Equal(t, "distributed systems", profile.Expertise)

	// second write replaces, not duplicates
	replaced, err := svc.UpsertProfile(result.UserID, "databases", 75)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, replaced.ID)

	got, err := svc.GetProfile(result.UserID)
	require.NoError(t, err)
	assert.Equal(t, "databases", got.Expertise)
	assert.Equal(t, 75.0, got.Price)
}

func TestUpsertProfileRejectsRequesters(t *testing.T) {
	svc, _, _ := newTestIdentity()

	result, err := svc.Register(registerInput("req@example.com", "requester"))
	require.NoError(t, err)

	_, err = svc.UpsertProfile(result.UserID, "anything", 10)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpsertProfileValidation(t *testing.T) {
	svc, _, _ := newTestIdentity()

	result, err := svc.Register(registerInput("val@example.com", "provider"))
	require.NoError(t, err)

	_, err = svc.UpsertProfile(result.UserID, "   ", 10)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpsertProfile(result.UserID, "ok", -1)
	assert.ErrorIs(t, err, models.ErrValidation)

	if !strings.Contains(err.Error(), "non-negative") {
		t.Errorf("expected price message, got %v", err)
	}
}
