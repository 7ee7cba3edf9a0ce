package repository

import (
	"nutrack/internal/models"

	"gorm.io/gorm"
)

type MealRepository interface {
	Create(meal *models.Meal) error
	FindByID(id string) (*models.Meal, error)
	FindAllByUserID(userID uint) ([]models.Meal, error)
	FindByUserIDAndDate(userID uint, date string) ([]models.Meal, error)
	FindByUserIDAndDateRange(userID uint, startDate, endDate string) ([]models.Meal, error)
	Update(meal *models.Meal) error
	Delete(id string) error
	CountByUserID(userID uint) (int64, error)
}

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(meal *models.Meal) error {
	return r.db.Create(meal).Error
}

func (r *mealRepository) FindByID(id string) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.First(&meal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepository) FindAllByUserID(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepository) FindByUserIDAndDate(userID uint, date string) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.Where("user_id = ? AND date = ?", userID, date).
		Order("timestamp DESC").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepository) FindByUserIDAndDateRange(userID uint, startDate, endDate string) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, startDate, endDate).
		Order("timestamp DESC").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepository) Update(meal *models.Meal) error {
	return r.db.Save(meal).Error
}

func (r *mealRepository) Delete(id string) error {
	return r.db.Unscoped().Delete(&models.Meal{}, "id = ?", id).Error
}

func (r *mealRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Meal{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
