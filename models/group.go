package models

import (
	"errors"
	"feedserver/utils"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

const maxGroupTitleLength = 200

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Group struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt   int64  `json:"-"`
	UpdatedAt   int64  `json:"-"`
	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string `gorm:"type:varchar(100);index:uniq_slug,unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func GroupCreate(tx *gorm.DB, title, slug, description string) (g Group, err error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxGroupTitleLength {
		return g, utils.NewValidationError("title must be 1-200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return g, utils.NewValidationError("slug may only contain letters, numbers, underscores and hyphens")
	}
	if _, err = GroupBySlug(tx, slug); err == nil {
		return g, utils.NewConflictError("group slug is already taken")
	} else if !errors.Is(err, utils.ErrNotFound) {
		return g, err
	}
	g = Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	if err = tx.Create(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Group{}, utils.NewConflictError("group slug is already taken")
		}
		return Group{}, utils.NewDatabaseError(err)
	}
	return g, nil
}

func GroupBySlug(tx *gorm.DB, slug string) (g Group, err error) {
	return g, firstOrNotFound(tx.First(&g, "slug = ?", slug), "group")
}

// GroupDelete removes the group. Its posts survive with the group reference cleared
func GroupDelete(tx *gorm.DB, slug string) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		g, err := GroupBySlug(tx, slug)
		if err != nil {
			return err
		}
		if err = tx.Model(&Post{}).Where("group_id = ?", g.ID).Update("group_id", nil).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		if err = tx.Delete(&g).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		return nil
	})
}
