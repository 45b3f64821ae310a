package models

// Recipe is one row of the recipes table.
// Image holds the raw object-store key, never a URL.
type Recipe struct {
	ID          uint   `gorm:"primaryKey"`
	RecipeType  string `gorm:"size:30"`
	Title       string `gorm:"size:100"`
	Name        string `gorm:"size:100;uniqueIndex"` // title, lower-cased, spaces removed
	Overview    string `gorm:"size:5000"`
	Method      string `gorm:"size:20000"`
	Ingredients string `gorm:"size:20000"`
	Tags        string `gorm:"size:5000"`
	Portions    string `gorm:"size:200"`
	Author      string `gorm:"size:100"`
	Image       string `gorm:"size:100"`
}

func (Recipe) TableName() string {
	return "recipes"
}
