package models

import (
	"feedserver/utils"
	"strings"

	"gorm.io/gorm"
)

// Post.CreatedAt is the publication time in unix milliseconds. It is set once on insert and never updated
type Post struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt int64   `gorm:"autoCreateTime:milli;index" json:"pub_date"`
	UpdatedAt int64   `gorm:"autoUpdateTime:milli" json:"-"`
	AuthorID  uint64  `gorm:"not null;index" json:"author_id"`
	Author    User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID   *uint64 `gorm:"index" json:"group_id,omitempty"`
	Group     *Group  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Text      string  `gorm:"type:text;not null" json:"text"`
	ImageURL  string  `gorm:"type:varchar(500)" json:"image,omitempty"`
}

// NewestFirst is the ordering used by every post listing
func NewestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("posts.created_at DESC").Order("posts.id DESC")
}

// ValidateText trims the text of a post or comment and rejects it if nothing is left
func ValidateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", utils.NewValidationError("text is required")
	}
	return text, nil
}

func PostByID(tx *gorm.DB, id uint64) (p Post, err error) {
	return p, firstOrNotFound(tx.Preload("Author").Preload("Group").First(&p, id), "post")
}

// PostDelete removes the post and its comments
func PostDelete(tx *gorm.DB, id uint64) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		result := tx.Delete(&Post{}, id)
		if result.Error != nil {
			return utils.NewDatabaseError(result.Error)
		}
		if result.RowsAffected == 0 {
			return utils.NewNotFoundError("post")
		}
		return nil
	})
}
