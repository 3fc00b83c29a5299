package domain

import (
	"context"
	"io"
	"time"
)

// Article is representing the Article data struct
type Article struct {
	ID        int64     // Unique identifier for the article
	Title     string    // Article title
	Content   string    // Article body content, markdown
	Slug      string    // Routing identifier derived from Title
	Draft     bool      // Drafts are only visible to their owner
	Thumbnail string    // Media reference of the thumbnail image
	User      User      // Author information
	Tags      []Tag     // At most MaxTagsPerArticle
	UpdatedAt time.Time // Last update timestamp
	CreatedAt time.Time // Creation timestamp

	// Stats and Comments are only filled on detail reads.
	Stats    ArticleStats
	Comments []*Comment
}

// VisibleTo reports whether viewerID may see the article. viewerID 0 is anonymous.
func (a *Article) VisibleTo(viewerID int64) bool {
	return !a.Draft || (viewerID != 0 && a.User.ID == viewerID)
}

// ArticleStats are aggregates computed on read, never stored.
type ArticleStats struct {
	Likes        int64
	SpecialLikes int64
	Saves        int64
	Comments     int64
}

// ArticleFilter narrows a published article listing.
type ArticleFilter struct {
	Cursor     string
	Num        int64
	TagSlug    string
	AuthorSlug string

	// Feed switches to "written by any of AuthorIDs OR tagged with any of TagIDs".
	Feed      bool
	AuthorIDs []int64
	TagIDs    []int64
}

// ArticleUpdate is a partial update. Nil fields are left unchanged.
type ArticleUpdate struct {
	Title   *string
	Content *string
	Draft   *bool
	Tags    *[]string
}

// ArticleRepository defines the contract for article data persistence
type ArticleRepository interface {
	// Fetch retrieves a page of published articles, newest first.
	// cursor: pass the cursor returned by the previous page, or empty string for the first page.
	// Returns: articles, next cursor for the next page, and error if any.
	Fetch(ctx context.Context, f ArticleFilter) ([]Article, string, error)

	// FetchDrafts returns the user's drafts, newest first.
	FetchDrafts(ctx context.Context, userID int64) ([]Article, error)

	// GetByIDs retrieves published articles by given IDs, keeping the order of ids.
	GetByIDs(ctx context.Context, ids []int64) ([]Article, error)

	// GetByID retrieves a single article by its ID, drafts included.
	// Returns ErrNotFound if the article doesn't exist.
	GetByID(ctx context.Context, id int64) (Article, error)

	// GetBySlug retrieves a single article by its slug, drafts included.
	// Returns ErrNotFound if the article doesn't exist.
	GetBySlug(ctx context.Context, slug string) (Article, error)

	// Store creates a new article with its tags in one transaction.
	// Backfills ID, Slug, Tags and timestamps.
	Store(ctx context.Context, a *Article, tags []string) error

	// Update writes title, content and draft, regenerating the slug when the title
	// changed, and replaces the tag set when tags is not nil. One transaction.
	Update(ctx context.Context, a *Article, tags *[]string) error

	SetThumbnail(ctx context.Context, id int64, ref string) error

	// Delete removes an article and its likes, saves, tag links, comments and votes.
	// Returns ErrNotFound if not exists
	Delete(ctx context.Context, id int64) error

	// FetchIDs pages over all article ids in ascending order.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// ArticleDBRepository is the database half of ArticleRepository: it fills
// Article.User with the author id only.
type ArticleDBRepository interface {
	ArticleRepository
}

type ArticleUsecase interface {
	Fetch(ctx context.Context, f ArticleFilter) ([]Article, string, error)
	Feed(ctx context.Context, userID int64, cursor string, num int64) ([]Article, string, error)
	FetchDrafts(ctx context.Context, userID int64) ([]Article, error)
	FetchSaved(ctx context.Context, userID int64) ([]Article, error)
	GetBySlug(ctx context.Context, slug string, viewerID int64) (Article, error)
	Store(ctx context.Context, a *Article, tags []string) error
	Update(ctx context.Context, actorID int64, slug string, u ArticleUpdate) (Article, error)
	Delete(ctx context.Context, actorID int64, slug string) error
	SetThumbnail(ctx context.Context, actorID int64, slug, filename string, r io.Reader) (Article, error)

	Like(ctx context.Context, actorID int64, slug string, special bool) error
	Unlike(ctx context.Context, actorID int64, slug string, special bool) error
	Save(ctx context.Context, actorID int64, slug string) error
	Unsave(ctx context.Context, actorID int64, slug string) error

	InitBloomFilter(ctx context.Context) error
}
