package otp

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/farmlink/internal/models"
)

// GormStore is the database-backed ChallengeStore.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new challenge row.
func (s *GormStore) Create(userID uuid.UUID, phone, code string, expiresAt time.Time) error {
	challenge := models.OTPChallenge{
		UserID:    userID,
		Phone:     phone,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	return s.db.Create(&challenge).Error
}

// Consume runs a single conditional UPDATE, so two concurrent requests with
// the same code cannot both flip the consumed flag.
func (s *GormStore) Consume(userID uuid.UUID, code string, now time.Time) (bool, error) {
	res := s.db.Model(&models.OTPChallenge{}).
		Where("user_id = ? AND code = ? AND consumed = ? AND expires_at > ?", userID, code, false, now).
		Updates(map[string]interface{}{"consumed": true, "used_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
