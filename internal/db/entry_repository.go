package db

import (
	"time"

	"github.com/kmizuno/tally/internal/models"
	"gorm.io/gorm"
)

// EntryRepository scopes every read and write to the owning user. This is
// the application-side counterpart of the row-level security policies the
// hosted variant relied on: no query leaves this package without a user_id
// predicate.
type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) ListByUser(userID uint) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserRange returns entries with date in [fromStart, toEnd); nil
// bounds leave that side open.
func (repo *EntryRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error) {
	query := repo.database.Model(&models.Entry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("date < ?", *toEnd)
	}

	entries := make([]models.Entry, 0)
	if err := query.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) FindByIDForUser(userID uint, entryID uint) (models.Entry, bool, error) {
	entry := models.Entry{}
	result := repo.database.
		Where("id = ? AND user_id = ?", entryID, userID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Entry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

func (repo *EntryRepository) Create(entry *models.Entry) error {
	return repo.database.Create(entry).Error
}

func (repo *EntryRepository) Save(entry *models.Entry) error {
	return repo.database.Save(entry).Error
}

// DeleteByIDForUser reports whether a row was actually removed so callers
// can distinguish "not yours" from "gone".
func (repo *EntryRepository) DeleteByIDForUser(userID uint, entryID uint) (bool, error) {
	result := repo.database.
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.Entry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *EntryRepository) DeleteAllForUser(userID uint) error {
	return repo.database.Where("user_id = ?", userID).Delete(&models.Entry{}).Error
}
