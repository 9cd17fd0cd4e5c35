package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: UserID follows AuthorID. The pair is unique
type Follow struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"not null;index:uniq_u_a,priority:1,unique"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint64 `gorm:"not null;index:uniq_u_a,priority:2,unique;index"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// FollowCreate is idempotent: following an author twice keeps a single row
func FollowCreate(tx *gorm.DB, userID, authorID uint64) error {
	f := Follow{UserID: userID, AuthorID: authorID}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&f).Error
}

// FollowDelete reports whether a relation existed
func FollowDelete(tx *gorm.DB, userID, authorID uint64) (bool, error) {
	result := tx.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&Follow{})
	return result.RowsAffected > 0, result.Error
}

func IsFollowing(tx *gorm.DB, userID, authorID uint64) (bool, error) {
	var count int64
	err := tx.Model(&Follow{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count).Error
	return count > 0, err
}

func FollowCount(tx *gorm.DB, userID uint64) (count int64, err error) {
	err = tx.Model(&Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return
}
