package models

import (
	"errors"
	"feedserver/utils"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxUsernameLength = 150

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"-"`
	UpdatedAt int64  `json:"-"`
	Username  string `gorm:"type:varchar(150);index:uniq_username,unique;not null" json:"username"`
	Password  string `gorm:"type:varchar(128)" json:"-"`
	IsAdmin   bool   `gorm:"not null;default:false" json:"-"`
}

func UserCreate(tx *gorm.DB, username, plainTextPassword string) (u User, err error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return u, utils.NewValidationError("username must be 1-150 characters")
	}
	if plainTextPassword == "" {
		return u, utils.NewValidationError("password is required")
	}
	if _, err = UserByUsername(tx, username); err == nil {
		return u, utils.NewConflictError("username is already taken")
	} else if !errors.Is(err, utils.ErrNotFound) {
		return u, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return u, err
	}
	u.Username = username
	u.Password = string(hash)
	if err = tx.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, utils.NewConflictError("username is already taken")
		}
		return User{}, utils.NewDatabaseError(err)
	}
	return u, nil
}

func UserLogin(tx *gorm.DB, username, plainTextPassword string) (u User, success bool) {
	u, err := UserByUsername(tx, username)
	if err != nil {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) != nil {
		return User{}, false
	}
	return u, true
}

func UserByID(tx *gorm.DB, id uint64) (u User, err error) {
	return u, firstOrNotFound(tx.First(&u, id), "user")
}

func UserByUsername(tx *gorm.DB, username string) (u User, err error) {
	return u, firstOrNotFound(tx.First(&u, "username = ?", username), "user")
}

// UserDelete removes the user together with everything the user owns:
// their posts (and the comments under them), their comments and all follow rows in both directions
func UserDelete(tx *gorm.DB, id uint64) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		if _, err := UserByID(tx, id); err != nil {
			return err
		}
		postIDs := tx.Model(&Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?) OR author_id = ?", postIDs, id).Delete(&Comment{}).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&Post{}).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&Follow{}).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		if err := tx.Delete(&User{}, id).Error; err != nil {
			return utils.NewDatabaseError(err)
		}
		return nil
	})
}

func firstOrNotFound(result *gorm.DB, what string) error {
	if result.Error == nil {
		return nil
	}
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError(what)
	}
	return utils.NewDatabaseError(result.Error)
}
