package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/k1llushka/vtb-finance-tracker1/internal/errors"
	"github.com/k1llushka/vtb-finance-tracker1/internal/logger"
	"github.com/k1llushka/vtb-finance-tracker1/internal/models"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
)

// defaultCategories is the system-provided category set, seeded once with a
// nil owner and read-shared by every user.
var defaultCategories = []models.Category{
	{Name: "Salary", Type: models.CategoryTypeIncome, Icon: "bi-wallet2", Color: "#27AE60"},
	{Name: "Gift", Type: models.CategoryTypeIncome, Icon: "bi-gift", Color: "#9B51E0"},
	{Name: "Transfer", Type: models.CategoryTypeIncome, Icon: "bi-arrow-left-right", Color: "#0066CC"},
	{Name: "Investments", Type: models.CategoryTypeIncome, Icon: "bi-graph-up", Color: "#F2994A"},
	{Name: "Pension", Type: models.CategoryTypeIncome, Icon: "bi-piggy-bank", Color: "#56CCF2"},
	{Name: "Food", Type: models.CategoryTypeExpense, Icon: "bi-cart", Color: "#EB5757"},
	{Name: "Transport", Type: models.CategoryTypeExpense, Icon: "bi-bus-front", Color: "#F2994A"},
	{Name: "Utilities", Type: models.CategoryTypeExpense, Icon: "bi-house", Color: "#2F80ED"},
	{Name: "Shopping", Type: models.CategoryTypeExpense, Icon: "bi-bag", Color: "#BB6BD9"},
	{Name: "Credit", Type: models.CategoryTypeExpense, Icon: "bi-credit-card", Color: "#EB5757"},
	{Name: "Entertainment", Type: models.CategoryTypeExpense, Icon: "bi-controller", Color: "#F2C94C"},
	{Name: "Health", Type: models.CategoryTypeExpense, Icon: "bi-heart-pulse", Color: "#27AE60"},
	{Name: "Education", Type: models.CategoryTypeExpense, Icon: "bi-book", Color: "#2D9CDB"},
}

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// visibleScope restricts a query to categories the user may see: their own
// plus the system defaults.
func visibleScope(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? OR is_default = ?", userID, true)
	}
}

// CreateCategory creates a new category owned by the user.
func (s *categoryService) CreateCategory(
	userID uint,
	name string,
	categoryType models.CategoryType,
	description string,
	icon string,
	color string,
) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:      &userID,
		Name:        name,
		Type:        categoryType,
		Description: description,
		Icon:        icon,
		Color:       color,
		IsActive:    true,
	}

	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories returns a paginated list of the user's categories plus
// the system defaults, optionally filtered by type.
func (s *categoryService) GetUserCategories(userID uint, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Scopes(visibleScope(userID))
	if categoryType != nil {
		base = base.Where("type = ?", *categoryType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID returns a category by ID if it is visible to the user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Scopes(visibleScope(userID)).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a user-owned category. Default categories are read-only.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, description, icon, color string, isActive *bool) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategory
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrDuplicateCategory
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a user-owned category. Transactions referencing it
// are detached (category set to null) and its budgets are removed, all in
// one database transaction. The category row is hard-deleted so the name
// and type can be reused afterwards.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("category_id = ?", category.ID).Delete(&models.Budget{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// SeedDefaults inserts any missing system default categories. It is safe to
// call on every startup.
func (s *categoryService) SeedDefaults() error {
	for _, def := range defaultCategories {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("user_id IS NULL AND name = ? AND type = ? AND is_default = ?", def.Name, def.Type, true).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			continue
		}

		category := def
		category.IsDefault = true
		category.IsActive = true
		if err := s.db.Create(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Infow("seeded default category", "name", category.Name, "type", category.Type)
	}
	return nil
}
