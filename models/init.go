package models

import "gorm.io/gorm"

// Migrate creates or updates all tables. Users go first: every other table references them
func Migrate(tx *gorm.DB) error {
	return tx.AutoMigrate(&User{}, &Group{}, &Post{}, &Comment{}, &Follow{})
}
