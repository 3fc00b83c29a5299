package domain

import (
	"context"
	"time"
)

// EdgeKind names a many-to-many relationship table between an actor (always a user)
// and a target entity.
type EdgeKind string

const (
	EdgeArticleLike        EdgeKind = "article_like"
	EdgeArticleSpecialLike EdgeKind = "article_special_like"
	EdgeArticleSave        EdgeKind = "article_save"
	EdgeUserFollow         EdgeKind = "user_follow"
	EdgeTagFollow          EdgeKind = "tag_follow"
	EdgeCommentVote        EdgeKind = "comment_vote"
)

// Edge is one relationship instance, e.g. user 3 saved article 7.
// Flag carries the per-edge payload of kinds that have one (the downvote flag of a comment vote).
type Edge struct {
	Kind      EdgeKind
	ActorID   int64
	TargetID  int64
	Flag      bool
	CreatedAt time.Time
}

// EdgeRepository persists edges. Every kind lives in its own table; uniqueness of
// (actor, target) per kind is enforced by the store.
type EdgeRepository interface {
	// Insert creates the edge. The existence check and the insert run in one transaction.
	// Returns ErrEdgeExists if the edge is already there.
	Insert(ctx context.Context, e Edge) error

	// Remove deletes the edge. Returns ErrEdgeMissing if there was nothing to delete.
	Remove(ctx context.Context, e Edge) error

	Exists(ctx context.Context, e Edge) (bool, error)

	// CountByTarget counts the edges of kind pointing at target.
	CountByTarget(ctx context.Context, kind EdgeKind, targetID int64) (int64, error)

	// CountByTargets is the batch version of CountByTarget; missing targets count 0.
	CountByTargets(ctx context.Context, kind EdgeKind, targetIDs []int64) (map[int64]int64, error)

	// ListTargets returns the targets the actor has an edge to, newest first.
	ListTargets(ctx context.Context, kind EdgeKind, actorID int64) ([]int64, error)

	// ListActors returns the actors that have an edge to target, newest first.
	ListActors(ctx context.Context, kind EdgeKind, targetID int64) ([]int64, error)
}
