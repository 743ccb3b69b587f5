package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slotbook/slotbook/models"
)

// CredentialStore is the only component touching durable identity state:
// users, verification codes and provider profiles.
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// storageErr classifies an unexpected database failure as retryable
// infrastructure trouble rather than a caller mistake.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
}

// CreateAccount inserts the user and its verification code as one transaction.
// The email pre-check is only an optimization; the unique constraint on email
// is authoritative, so a register/register race still yields exactly one row.
func (s *CredentialStore) CreateAccount(user *models.User, code *models.VerificationCode) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			return models.ErrDuplicateIdentity
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err)
		}

		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrDuplicateIdentity
			}
			return storageErr(err)
		}

		code.UserID = user.ID
		if err := tx.Create(code).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
}

func (s *CredentialStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

func (s *CredentialStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

// RedeemCode marks the account verified and deletes the code in one
// transaction. A code that is absent, wrong or past its expiry looks the same
// to the caller, and a second redemption fails because the row is gone.
func (s *CredentialStore) RedeemCode(email, code string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var vc models.VerificationCode
		err := tx.Joins("JOIN users ON users.id = verification_codes.user_id").
			Where("users.email = ? AND verification_codes.code = ? AND verification_codes.expires_at > ?",
				email, code, now).
			First(&vc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrInvalidOrExpiredCode
		}
		if err != nil {
			return storageErr(err)
		}

		if err := tx.First(&user, vc.UserID).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Model(&user).Update("is_verified", true).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Delete(&vc).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertProfile creates or replaces the provider's profile row.
func (s *CredentialStore) UpsertProfile(profile *models.ProviderProfile) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"expertise", "price", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *CredentialStore) GetProfile(userID uint) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &profile, nil
}

func (s *CredentialStore) SetProfilePicture(userID uint, url string) error {
	res := s.db.Model(&models.ProviderProfile{}).
		Where("user_id = ?", userID).
		Update("picture_url", url)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
