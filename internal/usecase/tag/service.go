package tag

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/usecase/toggle"
)

type service struct {
	tagRepo  domain.TagRepository
	edgeRepo domain.EdgeRepository
	follow   toggle.Rule
}

var _ domain.TagUsecase = (*service)(nil)

func NewService(t domain.TagRepository, e domain.EdgeRepository) *service {
	return &service{
		tagRepo:  t,
		edgeRepo: e,
		follow: toggle.Rule{
			Edges:     e,
			Kind:      domain.EdgeTagFollow,
			Duplicate: "Already following.",
			Missing:   "You're not following that tag.",
		},
	}
}

func (s *service) Fetch(ctx context.Context) ([]domain.Tag, error) {
	return s.tagRepo.Fetch(ctx)
}

// GetBySlug returns the tag with its article and follower counts.
func (s *service) GetBySlug(ctx context.Context, slug string) (domain.Tag, error) {
	t, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Tag{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		t.ArticlesCount, err = s.tagRepo.CountArticles(gctx, t.ID)
		return
	})
	g.Go(func() (err error) {
		t.FollowersCount, err = s.edgeRepo.CountByTarget(gctx, domain.EdgeTagFollow, t.ID)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.Tag{}, err
	}
	return t, nil
}

func (s *service) Followed(ctx context.Context, userID int64) ([]domain.Tag, error) {
	ids, err := s.edgeRepo.ListTargets(ctx, domain.EdgeTagFollow, userID)
	if err != nil {
		return nil, err
	}
	return s.tagRepo.GetByIDs(ctx, ids)
}

func (s *service) Follow(ctx context.Context, actorID int64, slug string) error {
	t, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.follow.Add(ctx, actorID, t.ID, false)
}

func (s *service) Unfollow(ctx context.Context, actorID int64, slug string) error {
	t, err := s.tagRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.follow.Remove(ctx, actorID, t.ID)
}
