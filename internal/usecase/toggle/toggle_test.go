package toggle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/usecase/toggle"
)

// memEdges is an in-memory EdgeRepository keyed by kind, actor and target.
type memEdges struct {
	rows map[domain.Edge]struct{}
	err  error
}

func newMemEdges() *memEdges {
	return &memEdges{rows: map[domain.Edge]struct{}{}}
}

func key(e domain.Edge) domain.Edge {
	return domain.Edge{Kind: e.Kind, ActorID: e.ActorID, TargetID: e.TargetID}
}

func (m *memEdges) Insert(_ context.Context, e domain.Edge) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[key(e)]; ok {
		return domain.ErrEdgeExists
	}
	m.rows[key(e)] = struct{}{}
	return nil
}

func (m *memEdges) Remove(_ context.Context, e domain.Edge) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[key(e)]; !ok {
		return domain.ErrEdgeMissing
	}
	delete(m.rows, key(e))
	return nil
}

func (m *memEdges) Exists(_ context.Context, e domain.Edge) (bool, error) {
	_, ok := m.rows[key(e)]
	return ok, nil
}

func (m *memEdges) CountByTarget(_ context.Context, kind domain.EdgeKind, targetID int64) (int64, error) {
	var n int64
	for e := range m.rows {
		if e.Kind == kind && e.TargetID == targetID {
			n++
		}
	}
	return n, nil
}

func (m *memEdges) CountByTargets(ctx context.Context, kind domain.EdgeKind, ids []int64) (map[int64]int64, error) {
	res := make(map[int64]int64, len(ids))
	for _, id := range ids {
		res[id], _ = m.CountByTarget(ctx, kind, id)
	}
	return res, nil
}

func (m *memEdges) ListTargets(_ context.Context, kind domain.EdgeKind, actorID int64) ([]int64, error) {
	var res []int64
	for e := range m.rows {
		if e.Kind == kind && e.ActorID == actorID {
			res = append(res, e.TargetID)
		}
	}
	return res, nil
}

func (m *memEdges) ListActors(_ context.Context, kind domain.EdgeKind, targetID int64) ([]int64, error) {
	var res []int64
	for e := range m.rows {
		if e.Kind == kind && e.TargetID == targetID {
			res = append(res, e.ActorID)
		}
	}
	return res, nil
}

func followRule(edges domain.EdgeRepository) toggle.Rule {
	return toggle.Rule{
		Edges: edges,
		Kind:  domain.EdgeUserFollow,
		Guard: toggle.ExcludeSelf(
			domain.NewValidationError("Can't follow yourself"),
			domain.NewValidationError("Can't unfollow yourself"),
		),
		Duplicate: "Already following",
		Missing:   "You're not following that person",
	}
}

func TestRuleAddThenDuplicate(t *testing.T) {
	edges := newMemEdges()
	rule := followRule(edges)

	require.NoError(t, rule.Add(context.Background(), 1, 2, false))

	err := rule.Add(context.Background(), 1, 2, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateState)
	assert.Equal(t, "Already following", err.Error())
	assert.Len(t, edges.rows, 1)
}

func TestRuleRemoveMissing(t *testing.T) {
	rule := followRule(newMemEdges())

	err := rule.Remove(context.Background(), 1, 2)
	assert.ErrorIs(t, err, domain.ErrMissingState)
	assert.Equal(t, "You're not following that person", err.Error())
}

func TestRuleRemoveExisting(t *testing.T) {
	edges := newMemEdges()
	rule := followRule(edges)

	require.NoError(t, rule.Add(context.Background(), 1, 2, false))
	require.NoError(t, rule.Remove(context.Background(), 1, 2))
	assert.Empty(t, edges.rows)
}

func TestExcludeSelfBlocksBothDirections(t *testing.T) {
	edges := newMemEdges()
	rule := followRule(edges)

	for _, id := range []int64{1, 7, 42} {
		err := rule.Add(context.Background(), id, id, false)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
		assert.Equal(t, "Can't follow yourself", err.Error())

		err = rule.Remove(context.Background(), id, id)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
		assert.Equal(t, "Can't unfollow yourself", err.Error())
	}
	assert.Empty(t, edges.rows)
}

func TestExcludeOwner(t *testing.T) {
	owners := map[int64]int64{10: 1}
	owner := func(_ context.Context, id int64) (int64, error) {
		o, ok := owners[id]
		if !ok {
			return 0, domain.ErrNotFound
		}
		return o, nil
	}
	edges := newMemEdges()
	rule := toggle.Rule{
		Edges: edges,
		Kind:  domain.EdgeArticleSave,
		Guard: toggle.ExcludeOwner(owner,
			domain.NewPermissionError("You can't save your own article."),
			domain.NewPermissionError("You can't unsave your own post."),
		),
		Duplicate: "You have already saved this article.",
		Missing:   "You must save before you can unsave.",
	}

	err := rule.Add(context.Background(), 1, 10, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "You can't save your own article.", err.Error())

	err = rule.Remove(context.Background(), 1, 10)
	assert.Equal(t, "You can't unsave your own post.", err.Error())

	err = rule.Add(context.Background(), 2, 99, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, rule.Add(context.Background(), 2, 10, false))
	assert.Len(t, edges.rows, 1)
}

func TestRulePassesStoreErrorsThrough(t *testing.T) {
	edges := newMemEdges()
	edges.err = errors.New("connection refused")
	rule := followRule(edges)

	err := rule.Add(context.Background(), 1, 2, false)
	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}
