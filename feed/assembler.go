package feed

import (
	"context"
	"feedserver/models"
	"feedserver/utils"

	"gorm.io/gorm"
)

type Assembler struct {
	db    *gorm.DB
	cache PageCache
}

// NewAssembler builds the feed reader. cache may be nil, then the global feed is always read fresh
func NewAssembler(db *gorm.DB, cache PageCache) *Assembler {
	return &Assembler{db: db, cache: cache}
}

type PostDetail struct {
	Post     models.Post      `json:"post"`
	Comments []models.Comment `json:"comments"`
}

type Profile struct {
	Author    models.User `json:"author"`
	PostCount int64       `json:"post_count"`
	Following bool        `json:"following"`
	Page      Page        `json:"page_obj"`
}

type scope func(tx *gorm.DB) *gorm.DB

// ListAll returns a page of all posts. Pages of the default size are served through the page cache
func (a *Assembler) ListAll(ctx context.Context, number, size int) (Page, error) {
	number, size = normalize(number, size)
	cacheable := a.cache != nil && size == PageSize
	if cacheable {
		if page, ok := a.cache.Get(ctx, number); ok {
			return page, nil
		}
	}
	page, err := a.list(ctx, nil, number, size)
	if err != nil {
		return page, err
	}
	if cacheable {
		a.cache.Set(ctx, number, page)
	}
	return page, nil
}

func (a *Assembler) ListByGroup(ctx context.Context, slug string, number, size int) (Page, error) {
	group, err := models.GroupBySlug(a.db.WithContext(ctx), slug)
	if err != nil {
		return Page{}, err
	}
	return a.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("posts.group_id = ?", group.ID)
	}, number, size)
}

func (a *Assembler) ListByAuthor(ctx context.Context, username string, number, size int) (Page, error) {
	author, err := models.UserByUsername(a.db.WithContext(ctx), username)
	if err != nil {
		return Page{}, err
	}
	return a.listByAuthorID(ctx, author.ID, number, size)
}

// ListFollowedFeed returns posts by every author userID follows. Following no one gives an empty page
func (a *Assembler) ListFollowedFeed(ctx context.Context, userID uint64, number, size int) (Page, error) {
	return a.list(ctx, func(tx *gorm.DB) *gorm.DB {
		followed := a.db.WithContext(ctx).Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
		return tx.Where("posts.author_id IN (?)", followed)
	}, number, size)
}

// Profile is the author page: their posts, post count and whether viewerID follows them (viewerID 0 is anonymous)
func (a *Assembler) Profile(ctx context.Context, username string, viewerID uint64, number, size int) (Profile, error) {
	tx := a.db.WithContext(ctx)
	author, err := models.UserByUsername(tx, username)
	if err != nil {
		return Profile{}, err
	}
	page, err := a.listByAuthorID(ctx, author.ID, number, size)
	if err != nil {
		return Profile{}, err
	}
	profile := Profile{Author: author, PostCount: page.TotalItems, Page: page}
	if viewerID != 0 && viewerID != author.ID {
		if profile.Following, err = models.IsFollowing(tx, viewerID, author.ID); err != nil {
			return Profile{}, utils.NewDatabaseError(err)
		}
	}
	return profile, nil
}

// GetPost always reads from the store, never from the page cache
func (a *Assembler) GetPost(ctx context.Context, id uint64) (PostDetail, error) {
	tx := a.db.WithContext(ctx)
	post, err := models.PostByID(tx, id)
	if err != nil {
		return PostDetail{}, err
	}
	comments, err := models.CommentsForPost(tx, id)
	if err != nil {
		return PostDetail{}, utils.NewDatabaseError(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return PostDetail{Post: post, Comments: comments}, nil
}

func (a *Assembler) listByAuthorID(ctx context.Context, authorID uint64, number, size int) (Page, error) {
	return a.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("posts.author_id = ?", authorID)
	}, number, size)
}

func (a *Assembler) list(ctx context.Context, where scope, number, size int) (Page, error) {
	number, size = normalize(number, size)
	if where == nil {
		where = func(tx *gorm.DB) *gorm.DB { return tx }
	}
	total := int64(0)
	if err := a.db.WithContext(ctx).Model(&models.Post{}).Scopes(where).Count(&total).Error; err != nil {
		return Page{}, utils.NewDatabaseError(err)
	}
	// Compare page numbers, not offsets: (number-1)*size overflows for huge page numbers
	if int64(number-1) >= pageCount(total, size) {
		return newPage(number, size, total, nil), nil
	}
	offset := (number - 1) * size
	items := []models.Post{}
	err := a.db.WithContext(ctx).
		Scopes(where, models.NewestFirst).
		Preload("Author").
		Preload("Group").
		Offset(offset).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return Page{}, utils.NewDatabaseError(err)
	}
	return newPage(number, size, total, items), nil
}
