package article

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/usecase/toggle"
)

const (
	maxTitleLength = 50
	bloomInitBatch = 1000
)

type Service struct {
	articleRepo domain.ArticleRepository
	edgeRepo    domain.EdgeRepository
	commentRepo domain.CommentRepository
	comments    domain.CommentUsecase
	bloomRepo   domain.BloomRepository
	media       domain.MediaStore
	notifier    domain.NotificationSink

	like        toggle.Rule
	specialLike toggle.Rule
	save        toggle.Rule
}

var _ domain.ArticleUsecase = (*Service)(nil)

// NewService will create a new article service object
func NewService(
	a domain.ArticleRepository,
	e domain.EdgeRepository,
	cr domain.CommentRepository,
	cu domain.CommentUsecase,
	b domain.BloomRepository,
	m domain.MediaStore,
	n domain.NotificationSink,
) *Service {
	s := &Service{
		articleRepo: a,
		edgeRepo:    e,
		commentRepo: cr,
		comments:    cu,
		bloomRepo:   b,
		media:       m,
		notifier:    n,
	}

	likeGuard := toggle.ExcludeOwner(s.ownerOf,
		domain.NewPermissionError("Can't like your own post."),
		domain.NewPermissionError("Can't unlike your own post."),
	)
	s.like = toggle.Rule{
		Edges:     e,
		Kind:      domain.EdgeArticleLike,
		Guard:     likeGuard,
		Duplicate: "Can't like twice.",
		Missing:   "You haven't liked this article.",
	}
	s.specialLike = toggle.Rule{
		Edges:     e,
		Kind:      domain.EdgeArticleSpecialLike,
		Guard:     likeGuard,
		Duplicate: "Can't special like twice.",
		Missing:   "You haven't special liked this article.",
	}
	s.save = toggle.Rule{
		Edges: e,
		Kind:  domain.EdgeArticleSave,
		Guard: toggle.ExcludeOwner(s.ownerOf,
			domain.NewPermissionError("You can't save your own article."),
			domain.NewPermissionError("You can't unsave your own post."),
		),
		Duplicate: "You have already saved this article.",
		Missing:   "You must save before you can unsave.",
	}
	return s
}

func (a *Service) ownerOf(ctx context.Context, articleID int64) (int64, error) {
	ar, err := a.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	return ar.User.ID, nil
}

// visible loads the article by slug; drafts of other users are reported as missing.
func (a *Service) visible(ctx context.Context, slug string, viewerID int64) (domain.Article, error) {
	ar, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Article{}, err
	}
	if !ar.VisibleTo(viewerID) {
		return domain.Article{}, domain.ErrNotFound
	}
	return ar, nil
}

// owned loads an article the actor may modify.
func (a *Service) owned(ctx context.Context, actorID int64, slug string) (domain.Article, error) {
	ar, err := a.visible(ctx, slug, actorID)
	if err != nil {
		return domain.Article{}, err
	}
	if ar.User.ID != actorID {
		return domain.Article{}, domain.ErrForbidden
	}
	return ar, nil
}

func validateTitle(title string) error {
	n := len([]rune(strings.TrimSpace(title)))
	switch {
	case n == 0:
		return domain.NewFieldError("title", "This field may not be blank.")
	case n > maxTitleLength:
		return domain.NewFieldError("title", "Ensure this field has no more than 50 characters.")
	}
	return nil
}

func (a *Service) Fetch(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, string, error) {
	f.Feed = false
	return a.articleRepo.Fetch(ctx, f)
}

func (a *Service) Feed(ctx context.Context, userID int64, cursor string, num int64) ([]domain.Article, string, error) {
	g, gctx := errgroup.WithContext(ctx)
	var authorIDs, tagIDs []int64
	g.Go(func() (err error) {
		authorIDs, err = a.edgeRepo.ListTargets(gctx, domain.EdgeUserFollow, userID)
		return
	})
	g.Go(func() (err error) {
		tagIDs, err = a.edgeRepo.ListTargets(gctx, domain.EdgeTagFollow, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	return a.articleRepo.Fetch(ctx, domain.ArticleFilter{
		Cursor:    cursor,
		Num:       num,
		Feed:      true,
		AuthorIDs: authorIDs,
		TagIDs:    tagIDs,
	})
}

func (a *Service) FetchDrafts(ctx context.Context, userID int64) ([]domain.Article, error) {
	return a.articleRepo.FetchDrafts(ctx, userID)
}

func (a *Service) FetchSaved(ctx context.Context, userID int64) ([]domain.Article, error) {
	ids, err := a.edgeRepo.ListTargets(ctx, domain.EdgeArticleSave, userID)
	if err != nil {
		return nil, err
	}
	return a.articleRepo.GetByIDs(ctx, ids)
}

// GetBySlug returns the article with its counters and comment tree.
func (a *Service) GetBySlug(ctx context.Context, slug string, viewerID int64) (domain.Article, error) {
	res, err := a.visible(ctx, slug, viewerID)
	if err != nil {
		return domain.Article{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Stats.Likes, err = a.edgeRepo.CountByTarget(gctx, domain.EdgeArticleLike, res.ID)
		return
	})
	g.Go(func() (err error) {
		res.Stats.SpecialLikes, err = a.edgeRepo.CountByTarget(gctx, domain.EdgeArticleSpecialLike, res.ID)
		return
	})
	g.Go(func() (err error) {
		res.Stats.Saves, err = a.edgeRepo.CountByTarget(gctx, domain.EdgeArticleSave, res.ID)
		return
	})
	g.Go(func() error {
		counts, err := a.commentRepo.CountByArticles(gctx, []int64{res.ID})
		if err != nil {
			return err
		}
		res.Stats.Comments = counts[res.ID]
		return nil
	})
	g.Go(func() (err error) {
		res.Comments, err = a.comments.FetchTree(gctx, res.ID)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.Article{}, err
	}
	return res, nil
}

func (a *Service) Store(ctx context.Context, m *domain.Article, tags []string) error {
	if err := validateTitle(m.Title); err != nil {
		return err
	}
	if err := a.articleRepo.Store(ctx, m, tags); err != nil {
		return err
	}
	if err := a.bloomRepo.Add(ctx, m.ID); err != nil {
		logrus.Warnf("failed to add article %d to bloom filter: %v", m.ID, err)
	}
	return nil
}

func (a *Service) Update(ctx context.Context, actorID int64, slug string, u domain.ArticleUpdate) (domain.Article, error) {
	ar, err := a.owned(ctx, actorID, slug)
	if err != nil {
		return domain.Article{}, err
	}

	if u.Title != nil {
		if err := validateTitle(*u.Title); err != nil {
			return domain.Article{}, err
		}
		ar.Title = *u.Title
	}
	if u.Content != nil {
		ar.Content = *u.Content
	}
	if u.Draft != nil {
		ar.Draft = *u.Draft
	}
	if err := a.articleRepo.Update(ctx, &ar, u.Tags); err != nil {
		return domain.Article{}, err
	}
	return a.articleRepo.GetByID(ctx, ar.ID)
}

func (a *Service) Delete(ctx context.Context, actorID int64, slug string) error {
	ar, err := a.owned(ctx, actorID, slug)
	if err != nil {
		return err
	}
	if err := a.articleRepo.Delete(ctx, ar.ID); err != nil {
		return err
	}
	a.removeMedia(ctx, ar.Thumbnail)
	return nil
}

func (a *Service) SetThumbnail(ctx context.Context, actorID int64, slug, filename string, r io.Reader) (domain.Article, error) {
	ar, err := a.owned(ctx, actorID, slug)
	if err != nil {
		return domain.Article{}, err
	}

	ref, err := a.media.Save(ctx, domain.MediaThumbnails, filename, r)
	if err != nil {
		return domain.Article{}, err
	}
	if err := a.articleRepo.SetThumbnail(ctx, ar.ID, ref); err != nil {
		a.removeMedia(ctx, ref)
		return domain.Article{}, err
	}
	a.removeMedia(ctx, ar.Thumbnail)

	ar.Thumbnail = ref
	return ar, nil
}

func (a *Service) removeMedia(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := a.media.Remove(ctx, ref); err != nil {
		logrus.Warnf("failed to remove media %q: %v", ref, err)
	}
}

func (a *Service) Like(ctx context.Context, actorID int64, slug string, special bool) error {
	ar, err := a.visible(ctx, slug, actorID)
	if err != nil {
		return err
	}

	rule, verb := a.like, domain.VerbLiked
	if special {
		rule, verb = a.specialLike, domain.VerbSpecialLiked
	}
	if err := rule.Add(ctx, actorID, ar.ID, false); err != nil {
		return err
	}

	a.notifier.Notify(domain.Notification{
		ReceiverID: ar.User.ID,
		ActorID:    actorID,
		Verb:       verb,
		ArticleID:  ar.ID,
	})
	return nil
}

func (a *Service) Unlike(ctx context.Context, actorID int64, slug string, special bool) error {
	ar, err := a.visible(ctx, slug, actorID)
	if err != nil {
		return err
	}
	rule := a.like
	if special {
		rule = a.specialLike
	}
	return rule.Remove(ctx, actorID, ar.ID)
}

func (a *Service) Save(ctx context.Context, actorID int64, slug string) error {
	ar, err := a.visible(ctx, slug, actorID)
	if err != nil {
		return err
	}
	return a.save.Add(ctx, actorID, ar.ID, false)
}

func (a *Service) Unsave(ctx context.Context, actorID int64, slug string) error {
	ar, err := a.visible(ctx, slug, actorID)
	if err != nil {
		return err
	}
	return a.save.Remove(ctx, actorID, ar.ID)
}

// InitBloomFilter loads every article id into the bloom filter.
func (a *Service) InitBloomFilter(ctx context.Context) error {
	var cursor int64
	for {
		ids, err := a.articleRepo.FetchIDs(ctx, cursor, bloomInitBatch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := a.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
	}
}
