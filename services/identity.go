package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/slotbook/slotbook/auth"
	"github.com/slotbook/slotbook/models"
	"github.com/slotbook/slotbook/notify"
	"github.com/slotbook/slotbook/utils"
)

// CredentialStore is the durable identity state consumed by the identity
// engine. The gorm implementation lives in store/; tests use an in-memory one.
type CredentialStore interface {
	CreateAccount(user *models.User, code *models.VerificationCode) error
	FindByEmail(email string) (*models.User, error)
	GetUser(id uint) (*models.User, error)
	RedeemCode(email, code string, now time.Time) (*models.User, error)
	UpsertProfile(profile *models.ProviderProfile) error
	GetProfile(userID uint) (*models.ProviderProfile, error)
	SetProfilePicture(userID uint, url string) error
}

// CodeTTL is how long a verification code stays redeemable.
const CodeTTL = time.Hour

// IdentityService orchestrates signup, code redemption and login gating.
type IdentityService struct {
	creds    CredentialStore
	hasher   auth.Hasher
	tokens   *auth.TokenIssuer
	notifier notify.Notifier
	validate *validator.Validate
	now      func() time.Time
}

func NewIdentityService(creds CredentialStore, hasher auth.Hasher, tokens *auth.TokenIssuer, notifier notify.Notifier) *IdentityService {
	return &IdentityService{
		creds:    creds,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *IdentityService) WithClock(now func() time.Time) *IdentityService {
	s.now = now
	return s
}

type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=requester provider"`
}

type RegisterResult struct {
	UserID uint
	// DeliveryDegraded is true when the account committed but the code mail
	// did not go out. The account is still verifiable.
	DeliveryDegraded bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account together with its verification code,
// then mails the code. A duplicate email is rejected the same way whether the
// pre-check or the storage constraint catches it.
func (s *IdentityService) Register(in RegisterInput) (*RegisterResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      models.Role(in.Role),
	}
	code := &models.VerificationCode{
		Code:      utils.GenerateCode(),
		ExpiresAt: s.now().Add(CodeTTL),
	}
	if err := s.creds.CreateAccount(user, code); err != nil {
		return nil, err
	}

	degraded := false
	if s.notifier != nil {
		if err := s.notifier.SendCode(user.Email, code.Code); err != nil {
			log.Printf("failed to deliver verification code to %s: %v", user.Email, err)
			degraded = true
		}
	}
	return &RegisterResult{UserID: user.ID, DeliveryDegraded: degraded}, nil
}

// Authenticate checks the password against the stored verifier and, for
// verified accounts only, returns a signed 24h token bound to (id, role).
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *IdentityService) Authenticate(email, password string) (string, error) {
	user, err := s.creds.FindByEmail(normalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !s.hasher.Check(password, user.Password) {
		return "", models.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return "", models.ErrUnverifiedAccount
	}
	return s.tokens.Issue(user.ID, user.Role)
}

// RedeemCode flips the account to verified and consumes the code.
func (s *IdentityService) RedeemCode(email, code string) (*models.User, error) {
	return s.creds.RedeemCode(normalizeEmail(email), code, s.now())
}

// UpsertProfile creates or replaces the provider's expertise/price profile.
func (s *IdentityService) UpsertProfile(userID uint, expertise string, price float64) (*models.ProviderProfile, error) {
	if strings.TrimSpace(expertise) == "" || price < 0 {
		return nil, fmt.Errorf("%w: expertise must be non-empty and price non-negative", models.ErrValidation)
	}

	user, err := s.creds.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleProvider {
		return nil, models.ErrForbidden
	}

	profile := &models.ProviderProfile{
		UserID:    userID,
		Expertise: expertise,
		Price:     price,
	}
	if err := s.creds.UpsertProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *IdentityService) GetProfile(userID uint) (*models.ProviderProfile, error) {
	return s.creds.GetProfile(userID)
}

func (s *IdentityService) SetProfilePicture(userID uint, url string) error {
	return s.creds.SetProfilePicture(userID, url)
}
