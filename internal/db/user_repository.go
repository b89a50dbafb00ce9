package db

import (
	"encoding/json"
	"fmt"

	"github.com/terraincognita07/dailypulse/internal/models"
	"gorm.io/gorm"
)

const normalizedBadgesSQL = `CASE WHEN badges IS NULL OR badges = '' OR badges = 'null' THEN '[]' ELSE badges END`

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	if user.Badges == nil {
		user.Badges = []models.Badge{}
	}
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string, mustChangePassword bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

func (repo *UserRepository) UpdateByID(userID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// AppendBadgeIfAbsent appends badge to the user's badge list in a single
// statement unless a badge of the same type is already present.
func (repo *UserRepository) AppendBadgeIfAbsent(userID uint, badge models.Badge) (bool, error) {
	encoded, err := json.Marshal(badge)
	if err != nil {
		return false, fmt.Errorf("encode badge: %w", err)
	}

	result := repo.database.Exec(
		`UPDATE users SET badges = json_insert(`+normalizedBadgesSQL+`, '$[#]', json(?))
WHERE id = ? AND NOT EXISTS (
  SELECT 1 FROM json_each(`+normalizedBadgesSQL+`) WHERE json_extract(json_each.value, '$.type') = ?
)`,
		string(encoded),
		userID,
		badge.Type,
	)
	if result.Error != nil {
		return false, fmt.Errorf("append badge: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
