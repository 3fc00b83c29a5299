package domain

import (
	"context"
	"strings"
)

// MaxTagsPerArticle caps the tag set of one article.
const MaxTagsPerArticle = 5

// MaxTagNameLength is the longest accepted tag name, in runes.
const MaxTagNameLength = 30

// Tag is a label shared by many articles and followed by users.
type Tag struct {
	ID   int64
	Name string
	Slug string

	ArticlesCount  int64
	FollowersCount int64
}

// NormalizeTagNames trims, drops empty names and collapses duplicates, keeping
// first-seen order. It rejects sets larger than MaxTagsPerArticle.
func NormalizeTagNames(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	res := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if len([]rune(n)) > MaxTagNameLength {
			return nil, NewFieldError("tags", "Ensure each tag has no more than 30 characters.")
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, n)
	}
	if len(res) > MaxTagsPerArticle {
		return nil, NewValidationError("You can't assign more than five tags")
	}
	return res, nil
}

type TagRepository interface {
	// Fetch lists every tag ordered by name.
	Fetch(ctx context.Context) ([]Tag, error)

	// GetBySlug returns ErrNotFound for unknown slugs.
	GetBySlug(ctx context.Context, slug string) (Tag, error)

	GetByIDs(ctx context.Context, ids []int64) ([]Tag, error)

	// ReplaceForArticle swaps the article's whole tag set in one transaction,
	// creating missing tags by name.
	ReplaceForArticle(ctx context.Context, articleID int64, names []string) ([]Tag, error)

	// CountArticles counts published articles carrying the tag.
	CountArticles(ctx context.Context, tagID int64) (int64, error)
}

type TagUsecase interface {
	Fetch(ctx context.Context) ([]Tag, error)
	GetBySlug(ctx context.Context, slug string) (Tag, error)
	Followed(ctx context.Context, userID int64) ([]Tag, error)
	Follow(ctx context.Context, actorID int64, slug string) error
	Unfollow(ctx context.Context, actorID int64, slug string) error
}
