package notification

import (
	"context"

	"github.com/Guyuepp/social-blog/domain"
)

const fetchLimit = 50

type service struct {
	repo     domain.NotificationRepository
	userRepo domain.UserRepository
}

var _ domain.NotificationUsecase = (*service)(nil)

func NewService(r domain.NotificationRepository, u domain.UserRepository) *service {
	return &service{repo: r, userRepo: u}
}

// Fetch returns the latest notifications of receiverID with their actors filled.
func (s *service) Fetch(ctx context.Context, receiverID int64) ([]domain.Notification, error) {
	res, err := s.repo.FetchByReceiver(ctx, receiverID, fetchLimit)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return res, nil
	}

	ids := make([]int64, 0, len(res))
	seen := make(map[int64]bool, len(res))
	for _, n := range res {
		if !seen[n.ActorID] {
			seen[n.ActorID] = true
			ids = append(ids, n.ActorID)
		}
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range res {
		if u, ok := byID[res[i].ActorID]; ok {
			res[i].Actor = &u
		}
	}
	return res, nil
}

func (s *service) MarkRead(ctx context.Context, receiverID, id int64) error {
	return s.repo.MarkRead(ctx, receiverID, id)
}

func (s *service) MarkAllRead(ctx context.Context, receiverID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, receiverID)
}
