package posts

import (
	"bytes"
	"context"
	"feedserver/auth"
	"feedserver/models"
	"feedserver/storage"
	"feedserver/utils"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "posts/"

// Outcome of a guarded post mutation. Denied is not an error: the caller is sent back to the post
type Outcome int

const (
	Updated Outcome = iota
	Denied
)

type EditResult struct {
	Outcome Outcome
	Post    models.Post
}

type Image struct {
	Reader   io.Reader
	Filename string
}

type Service struct {
	db           *gorm.DB
	images       storage.ImageStore
	imageMaxSize uint
}

// NewService builds the mutation service. With a nil image store posts can only be text
func NewService(db *gorm.DB, images storage.ImageStore, imageMaxSize uint) *Service {
	return &Service{db: db, images: images, imageMaxSize: imageMaxSize}
}

func (s *Service) CreatePost(ctx context.Context, caller auth.Caller, text, groupSlug string, image *Image) (models.Post, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return models.Post{}, err
	}
	text, err := models.ValidateText(text)
	if err != nil {
		return models.Post{}, err
	}
	tx := s.db.WithContext(ctx)
	post := models.Post{AuthorID: caller.ID, Text: text}
	if post.Group, err = s.optionalGroup(tx, groupSlug); err != nil {
		return models.Post{}, err
	}
	if post.Group != nil {
		post.GroupID = &post.Group.ID
	}
	imagePath := ""
	if image != nil {
		if imagePath, post.ImageURL, err = s.saveImage(ctx, image); err != nil {
			return models.Post{}, err
		}
	}
	if err = tx.Omit("Author", "Group").Create(&post).Error; err != nil {
		if imagePath != "" {
			if deleteErr := s.images.Delete(ctx, imagePath); deleteErr != nil {
				slog.Error("cannot remove image of a failed post", "path", imagePath, "error", deleteErr)
			}
		}
		return models.Post{}, utils.NewDatabaseError(err)
	}
	post.Author = models.User{ID: caller.ID, Username: caller.Username}
	slog.Info("post created", "post_id", post.ID, "author_id", caller.ID)
	return post, nil
}

// EditPost changes text and group. The publication time never changes.
// A caller that is not the author gets Denied and the post is left as it was
func (s *Service) EditPost(ctx context.Context, caller auth.Caller, postID uint64, text, groupSlug string) (EditResult, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return EditResult{}, err
	}
	tx := s.db.WithContext(ctx)
	post, err := models.PostByID(tx, postID)
	if err != nil {
		return EditResult{}, err
	}
	if !auth.CanModifyPost(caller, &post) {
		return EditResult{Outcome: Denied, Post: post}, nil
	}
	if text, err = models.ValidateText(text); err != nil {
		return EditResult{}, err
	}
	group, err := s.optionalGroup(tx, groupSlug)
	if err != nil {
		return EditResult{}, err
	}
	var groupID *uint64
	if group != nil {
		groupID = &group.ID
	}
	err = tx.Model(&models.Post{ID: post.ID}).
		Select("Text", "GroupID", "UpdatedAt").
		Updates(models.Post{Text: text, GroupID: groupID}).Error
	if err != nil {
		return EditResult{}, utils.NewDatabaseError(err)
	}
	post.Text = text
	post.GroupID = groupID
	post.Group = group
	return EditResult{Outcome: Updated, Post: post}, nil
}

// DeletePost follows the same author-only rule as EditPost
func (s *Service) DeletePost(ctx context.Context, caller auth.Caller, postID uint64) (Outcome, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return Denied, err
	}
	tx := s.db.WithContext(ctx)
	post, err := models.PostByID(tx, postID)
	if err != nil {
		return Denied, err
	}
	if !auth.CanModifyPost(caller, &post) {
		return Denied, nil
	}
	if err = models.PostDelete(tx, post.ID); err != nil {
		return Denied, err
	}
	slog.Info("post deleted", "post_id", post.ID, "author_id", caller.ID)
	return Updated, nil
}

func (s *Service) AddComment(ctx context.Context, caller auth.Caller, postID uint64, text string) (models.Comment, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return models.Comment{}, err
	}
	tx := s.db.WithContext(ctx)
	if _, err := models.PostByID(tx, postID); err != nil {
		return models.Comment{}, err
	}
	text, err := models.ValidateText(text)
	if err != nil {
		return models.Comment{}, err
	}
	comment := models.Comment{PostID: postID, AuthorID: caller.ID, Text: text}
	if err = tx.Omit("Post", "Author").Create(&comment).Error; err != nil {
		return models.Comment{}, utils.NewDatabaseError(err)
	}
	comment.Author = models.User{ID: caller.ID, Username: caller.Username}
	return comment, nil
}

// Follow is idempotent. Following yourself is rejected
func (s *Service) Follow(ctx context.Context, caller auth.Caller, username string) error {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return err
	}
	tx := s.db.WithContext(ctx)
	author, err := models.UserByUsername(tx, username)
	if err != nil {
		return err
	}
	if author.ID == caller.ID {
		return utils.NewValidationError("you cannot follow yourself")
	}
	if err = models.FollowCreate(tx, caller.ID, author.ID); err != nil {
		return utils.NewDatabaseError(err)
	}
	return nil
}

// Unfollow of an author the caller does not follow is a no-op
func (s *Service) Unfollow(ctx context.Context, caller auth.Caller, username string) error {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return err
	}
	tx := s.db.WithContext(ctx)
	author, err := models.UserByUsername(tx, username)
	if err != nil {
		return err
	}
	if _, err = models.FollowDelete(tx, caller.ID, author.ID); err != nil {
		return utils.NewDatabaseError(err)
	}
	return nil
}

func (s *Service) optionalGroup(tx *gorm.DB, slug string) (*models.Group, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := models.GroupBySlug(tx, slug)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// saveImage shrinks the upload, stores it as JPEG and returns its storage path and URL
func (s *Service) saveImage(ctx context.Context, image *Image) (string, string, error) {
	if s.images == nil {
		return "", "", utils.NewValidationError("image uploads are disabled")
	}
	buf := bytes.Buffer{}
	if _, err := utils.ShrinkImage(s.imageMaxSize, image.Reader, &buf); err != nil {
		return "", "", utils.NewValidationError("uploaded file is not a supported image")
	}
	path := imageFolder + uuid.New().String() + ".jpg"
	url, err := s.images.Save(ctx, path, &buf, int64(buf.Len()), "image/jpeg")
	if err != nil {
		slog.Error("cannot store post image", "filename", image.Filename, "error", err)
		return "", "", &utils.AppError{Code: utils.CodeDatabase, Message: "cannot store image", Origin: err}
	}
	return path, url, nil
}
