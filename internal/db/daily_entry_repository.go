package db

import (
	"github.com/terraincognita07/dailypulse/internal/models"
	"gorm.io/gorm"
)

type DailyEntryRepository struct {
	database *gorm.DB
}

func NewDailyEntryRepository(database *gorm.DB) *DailyEntryRepository {
	return &DailyEntryRepository{database: database}
}

// List returns at most limit entries of the user ordered by orderClause, which
// must be a trusted column expression such as "date DESC".
func (repo *DailyEntryRepository) List(userID uint, orderClause string, limit int) ([]models.DailyEntry, error) {
	query := repo.database.Where("user_id = ?", userID).Order(orderClause).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	entries := make([]models.DailyEntry, 0)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *DailyEntryRepository) FindByID(userID uint, entryID string) (models.DailyEntry, bool, error) {
	entry := models.DailyEntry{}
	result := repo.database.
		Where("user_id = ? AND id = ?", userID, entryID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DailyEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *DailyEntryRepository) FindByDate(userID uint, date string) (models.DailyEntry, bool, error) {
	entry := models.DailyEntry{}
	result := repo.database.
		Where("user_id = ? AND date = ?", userID, date).
		Order("updated_at DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.DailyEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailyEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *DailyEntryRepository) Create(entry *models.DailyEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *DailyEntryRepository) Save(entry *models.DailyEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *DailyEntryRepository) Delete(userID uint, entryID string) (bool, error) {
	result := repo.database.Where("user_id = ? AND id = ?", userID, entryID).Delete(&models.DailyEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListInDateRange returns entries with from <= date <= to. Dates are stored as
// YYYY-MM-DD so lexical comparison matches calendar order.
func (repo *DailyEntryRepository) ListInDateRange(userID uint, from string, to string) ([]models.DailyEntry, error) {
	entries := make([]models.DailyEntry, 0)
	err := repo.database.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC, updated_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
