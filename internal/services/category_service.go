package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/javigracia12/toofinance/internal/errors"
	"github.com/javigracia12/toofinance/internal/models"
)

const maxCategoryLabel = 50

var (
	whitespace = regexp.MustCompile(`\s+`)
	hexColor   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// categoryService handles category-related business logic.
type categoryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db, now: time.Now}
}

// GetUserCategories returns the user's categories, defaults first. The
// defaults are created the first time a user has none.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	if err := s.ensureDefaults(userID); err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("is_custom ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// CreateCategory creates a custom category. Its slug is derived from the
// label and the creation time.
func (s *categoryService) CreateCategory(userID, label, color string) (*models.Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category label is required")
	}
	if len(label) > maxCategoryLabel {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category label is too long")
	}
	if !hexColor.MatchString(color) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "color must be a hex color like #a1b2c3")
	}
	if err := s.ensureDefaults(userID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(label) = ?", userID, strings.ToLower(label)).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:   userID,
		Slug:     customSlug(label, s.now()),
		Label:    label,
		Color:    strings.ToLower(color),
		IsCustom: true,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a custom category. Expenses keep their slug and
// are reported under the fallback category.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.IsCustom {
		return apperrors.ErrCategoryNotCustom
	}
	if err := s.db.Delete(&category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CategoryExists reports whether slug names one of the user's categories.
func (s *categoryService) CategoryExists(userID, slug string) (bool, error) {
	if err := s.ensureDefaults(userID); err != nil {
		return false, err
	}
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND slug = ?", userID, slug).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

func (s *categoryService) ensureDefaults(userID string) error {
	var count int64
	if err := s.db.Unscoped().Model(&models.Category{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	defaults := make([]models.Category, len(models.DefaultCategories))
	for i, d := range models.DefaultCategories {
		defaults[i] = models.Category{UserID: userID, Slug: d.Slug, Label: d.Label, Color: d.Color}
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "slug"}},
		DoNothing: true,
	}).Create(&defaults).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// customSlug builds "<kebab-label>-<unix millis>".
func customSlug(label string, at time.Time) string {
	base := whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "-")
	return fmt.Sprintf("%s-%d", base, at.UnixMilli())
}
