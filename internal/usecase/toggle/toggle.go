// Package toggle holds the one state machine shared by likes, saves, follows and
// comment votes: an edge is either absent or present, adding a present edge and
// removing an absent one are errors, and a guard may forbid the actor outright.
package toggle

import (
	"context"
	"errors"

	"github.com/Guyuepp/social-blog/domain"
)

// Op is the requested transition.
type Op int8

const (
	Add    Op = 1
	Remove Op = -1
)

func (o Op) String() string {
	switch o {
	case Add:
		return "ADD"
	case Remove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Guard vetoes a transition before the store is touched, e.g. an owner liking their
// own article. It returns nil to let the transition through.
type Guard func(ctx context.Context, actorID, targetID int64, op Op) error

// Rule binds one edge kind to its guard and its user-facing messages.
type Rule struct {
	Edges     domain.EdgeRepository
	Kind      domain.EdgeKind
	Guard     Guard
	Duplicate string // message when adding an edge that exists
	Missing   string // message when removing an edge that doesn't
}

// Add creates the edge, with flag as its payload.
func (r Rule) Add(ctx context.Context, actorID, targetID int64, flag bool) error {
	return r.apply(ctx, Add, domain.Edge{Kind: r.Kind, ActorID: actorID, TargetID: targetID, Flag: flag})
}

// Remove deletes the edge.
func (r Rule) Remove(ctx context.Context, actorID, targetID int64) error {
	return r.apply(ctx, Remove, domain.Edge{Kind: r.Kind, ActorID: actorID, TargetID: targetID})
}

func (r Rule) apply(ctx context.Context, op Op, e domain.Edge) error {
	if r.Guard != nil {
		if err := r.Guard(ctx, e.ActorID, e.TargetID, op); err != nil {
			return err
		}
	}

	var err error
	switch op {
	case Add:
		err = r.Edges.Insert(ctx, e)
	case Remove:
		err = r.Edges.Remove(ctx, e)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrEdgeExists):
		return domain.NewDuplicateStateError(r.Duplicate)
	case errors.Is(err, domain.ErrEdgeMissing):
		return domain.NewMissingStateError(r.Missing)
	default:
		return err
	}
}

// ExcludeSelf rejects transitions where actor and target are the same entity.
func ExcludeSelf(onAdd, onRemove error) Guard {
	return func(_ context.Context, actorID, targetID int64, op Op) error {
		if actorID != targetID {
			return nil
		}
		if op == Add {
			return onAdd
		}
		return onRemove
	}
}

// ExcludeOwner rejects transitions where the actor owns the target.
// owner resolves the target's owner id.
func ExcludeOwner(owner func(ctx context.Context, targetID int64) (int64, error), onAdd, onRemove error) Guard {
	return func(ctx context.Context, actorID, targetID int64, op Op) error {
		ownerID, err := owner(ctx, targetID)
		if err != nil {
			return err
		}
		if ownerID != actorID {
			return nil
		}
		if op == Add {
			return onAdd
		}
		return onRemove
	}
}
