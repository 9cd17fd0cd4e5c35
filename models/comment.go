package models

import "gorm.io/gorm"

type Comment struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created"`
	PostID    uint64 `gorm:"not null;index" json:"post_id"`
	Post      Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID  uint64 `gorm:"not null;index" json:"-"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Text      string `gorm:"type:text;not null" json:"text"`
}

// CommentsForPost returns the comments of a post, newest first
func CommentsForPost(tx *gorm.DB, postID uint64) (comments []Comment, err error) {
	err = tx.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return
}
