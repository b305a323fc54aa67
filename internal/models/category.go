package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Default categories are seeded
// by the system with a nil UserID and are readable by every user.
type Category struct {
	Base
	UserID      *uint        `gorm:"index;uniqueIndex:idx_categories_owner_name_type" json:"user_id,omitempty"`
	Name        string       `gorm:"not null;uniqueIndex:idx_categories_owner_name_type" json:"name"`
	Type        CategoryType `gorm:"not null;uniqueIndex:idx_categories_owner_name_type" json:"type"`
	Description string       `json:"description"`
	Icon        string       `gorm:"default:bi-wallet2" json:"icon"`
	Color       string       `gorm:"size:7;default:#0d6efd" json:"color"`
	IsDefault   bool         `gorm:"default:false" json:"is_default"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
