package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/usecase/toggle"
)

type service struct {
	commentRepo domain.CommentRepository
	articleRepo domain.ArticleRepository
	userRepo    domain.UserRepository
	bloomRepo   domain.BloomRepository
	notifier    domain.NotificationSink
	vote        toggle.Rule
}

var _ domain.CommentUsecase = (*service)(nil)

func NewService(
	commentRepo domain.CommentRepository,
	articleRepo domain.ArticleRepository,
	userRepo domain.UserRepository,
	edgeRepo domain.EdgeRepository,
	bloomRepo domain.BloomRepository,
	notifier domain.NotificationSink,
) *service {
	return &service{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		bloomRepo:   bloomRepo,
		notifier:    notifier,
		vote: toggle.Rule{
			Edges:     edgeRepo,
			Kind:      domain.EdgeCommentVote,
			Duplicate: "You have already voted on this comment.",
			Missing:   "You haven't voted on this comment.",
		},
	}
}

// mustExists consults the bloom filter first; a filter error falls through to the database.
func (s *service) mustExists(ctx context.Context, id int64) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err != nil {
		logrus.Warnf("bloom filter unavailable: %v", err)
		return nil
	}
	if !exists {
		logrus.Warnf("bloom filter says article %d does not exist", id)
		return domain.ErrNotFound
	}
	return nil
}

func (s *service) visibleArticle(ctx context.Context, articleID, viewerID int64) (domain.Article, error) {
	ar, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return domain.Article{}, err
	}
	if !ar.VisibleTo(viewerID) {
		return domain.Article{}, domain.ErrNotFound
	}
	return ar, nil
}

// load returns the comment if its article is visible to viewerID.
func (s *service) load(ctx context.Context, id, viewerID int64) (*domain.Comment, error) {
	c, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleArticle(ctx, c.ArticleID, viewerID); err != nil {
		return nil, err
	}
	return c, nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	switch n := len([]rune(body)); {
	case n == 0:
		return "", domain.NewFieldError("body", "This field may not be blank.")
	case n > domain.MaxCommentLength:
		return "", domain.NewFieldError("body", "Ensure this field has no more than 300 characters.")
	}
	return body, nil
}

func (s *service) Create(ctx context.Context, c *domain.Comment) error {
	body, err := validateBody(c.Body.Text())
	if err != nil {
		return err
	}
	if err := s.mustExists(ctx, c.ArticleID); err != nil {
		return err
	}
	ar, err := s.visibleArticle(ctx, c.ArticleID, c.UserID)
	if err != nil {
		return err
	}

	var parent *domain.Comment
	if c.ParentID != 0 {
		parent, err = s.commentRepo.GetByID(ctx, c.ParentID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewFieldError("parent", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", c.ParentID))
		}
		if err != nil {
			return err
		}
		if parent.ArticleID != c.ArticleID {
			return domain.NewFieldError(domain.NonFieldErrors, "Parent comment must have the same article id")
		}
	}

	c.Body = domain.ActiveBody(body)
	if err := s.commentRepo.Store(ctx, c); err != nil {
		return err
	}

	if user, err := s.userRepo.GetByID(ctx, c.UserID); err == nil {
		c.User = &user
	}
	c.Replies = []*domain.Comment{}

	n := domain.Notification{
		ReceiverID: ar.User.ID,
		ActorID:    c.UserID,
		Verb:       domain.VerbCommented,
		ArticleID:  c.ArticleID,
		CommentID:  c.ID,
	}
	if parent != nil {
		n.ReceiverID = parent.UserID
		n.Verb = domain.VerbReplied
	}
	s.notifier.Notify(n)
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64, viewerID int64) (*domain.Comment, error) {
	c, err := s.load(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.fillUsers(ctx, []*domain.Comment{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, actorID, id int64, body string) (*domain.Comment, error) {
	c, err := s.load(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if c.UserID != actorID {
		return nil, domain.ErrForbidden
	}
	if c.Body.IsDeleted() {
		return nil, domain.NewValidationError("Can't edit a deleted comment.")
	}
	body, err = validateBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateBody(ctx, id, domain.ActiveBody(body)); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id, actorID)
}

// Delete blanks the comment body. The row stays so its replies keep their parent.
func (s *service) Delete(ctx context.Context, actorID, id int64) error {
	c, err := s.load(ctx, id, actorID)
	if err != nil {
		return err
	}
	if c.UserID != actorID {
		return domain.ErrForbidden
	}
	if c.Body.IsDeleted() {
		return nil
	}
	return s.commentRepo.UpdateBody(ctx, id, domain.DeletedBody())
}

func (s *service) FetchByArticle(ctx context.Context, slug string, viewerID int64) ([]*domain.Comment, error) {
	ar, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !ar.VisibleTo(viewerID) {
		return nil, domain.ErrNotFound
	}
	return s.FetchTree(ctx, ar.ID)
}

func (s *service) FetchTree(ctx context.Context, articleID int64) ([]*domain.Comment, error) {
	flat, err := s.commentRepo.FetchByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if err := s.fillUsers(ctx, flat); err != nil {
		return nil, err
	}
	return domain.BuildCommentTree(flat), nil
}

func (s *service) fillUsers(ctx context.Context, comments []*domain.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(comments))
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.UserID]; !ok {
			seen[c.UserID] = struct{}{}
			ids = append(ids, c.UserID)
		}
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, c := range comments {
		if u, ok := byID[c.UserID]; ok {
			c.User = &u
		}
	}
	return nil
}

func (s *service) Vote(ctx context.Context, actorID, id int64, downvote bool) error {
	if _, err := s.load(ctx, id, actorID); err != nil {
		return err
	}
	return s.vote.Add(ctx, actorID, id, downvote)
}

func (s *service) Unvote(ctx context.Context, actorID, id int64) error {
	if _, err := s.load(ctx, id, actorID); err != nil {
		return err
	}
	return s.vote.Remove(ctx, actorID, id)
}
