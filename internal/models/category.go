package models

// Category is a user-owned expense category. Expenses reference it by Slug.
type Category struct {
	Base
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_slug" json:"user_id"`
	Slug     string `gorm:"not null;uniqueIndex:idx_categories_user_slug" json:"slug"`
	Label    string `gorm:"not null" json:"label"`
	Color    string `gorm:"not null" json:"color"`
	IsCustom bool   `gorm:"not null" json:"is_custom"`
}

// DefaultCategory describes a category seeded for every new user.
type DefaultCategory struct {
	Slug  string
	Label string
	Color string
}

// DefaultCategories are created the first time a user lists categories.
var DefaultCategories = []DefaultCategory{
	{Slug: "food", Label: "Food", Color: "#f97316"},
	{Slug: "dining", Label: "Dining", Color: "#ea580c"},
	{Slug: "transport", Label: "Transport", Color: "#3b82f6"},
	{Slug: "shopping", Label: "Shopping", Color: "#ec4899"},
	{Slug: "entertainment", Label: "Entertainment", Color: "#8b5cf6"},
	{Slug: "bills", Label: "Bills & Utilities", Color: "#06b6d4"},
	{Slug: "health", Label: "Health", Color: "#22c55e"},
}

// Fallback presentation for expenses whose category no longer exists.
const (
	UncategorizedSlug  = "other"
	UncategorizedLabel = "Other"
	UncategorizedColor = "#6b7280"
)
