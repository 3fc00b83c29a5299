package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/social-blog/domain"
	"github.com/Guyuepp/social-blog/internal/usecase/toggle"
)

const (
	minPasswordLength  = 6
	maxDisplayNameLen  = 50
	maxDescriptionLen  = 500
	msgUsernamePattern = "The username may only contain A-Z, a-z, 0-9 and _"
	msgPasswordShort   = "This password is too short. It must contain at least 6 characters."
	msgBadCredentials  = "Unable to log in with provided credentials."
)

var usernamePattern = regexp.MustCompile(`^\w+$`)

// ErrInvalidToken is returned for malformed, expired or revoked tokens.
var ErrInvalidToken = &domain.Error{Kind: domain.KindAuthentication, Message: "Invalid token."}

type tokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Service struct {
	userRepo   domain.UserRepository
	edgeRepo   domain.EdgeRepository
	tokens     domain.TokenRepository
	media      domain.MediaStore
	notifier   domain.NotificationSink
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	follow     toggle.Rule
}

var _ domain.UserUsecase = (*Service)(nil)

func NewService(
	u domain.UserRepository,
	e domain.EdgeRepository,
	t domain.TokenRepository,
	m domain.MediaStore,
	n domain.NotificationSink,
	jwtSecret []byte,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		userRepo:   u,
		edgeRepo:   e,
		tokens:     t,
		media:      m,
		notifier:   n,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		follow: toggle.Rule{
			Edges: e,
			Kind:  domain.EdgeUserFollow,
			Guard: toggle.ExcludeSelf(
				domain.NewValidationError("Can't follow yourself"),
				domain.NewValidationError("Can't unfollow yourself"),
			),
			Duplicate: "Already following",
			Missing:   "You're not following that person",
		},
	}
}

// WithBcryptCost lowers the hashing cost, for tests.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

func (s *Service) Register(ctx context.Context, r domain.Registration) (string, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	fields := domain.FieldErrors{}
	if !usernamePattern.MatchString(r.Username) {
		fields.Add("username", msgUsernamePattern)
	}
	if len(r.Password) < minPasswordLength {
		fields.Add("password", msgPasswordShort)
	}
	if err := fields.Err(); err != nil {
		return "", err
	}

	if taken, err := s.userRepo.ExistsUsername(ctx, r.Username, 0); err != nil {
		return "", err
	} else if taken {
		fields.Add("username", "user with this username already exists.")
	}
	if taken, err := s.userRepo.ExistsEmail(ctx, r.Email); err != nil {
		return "", err
	} else if taken {
		fields.Add("email", "user with this email already exists.")
	}
	if err := fields.Err(); err != nil {
		return "", err
	}

	if r.Password != r.Password2 {
		return "", domain.NewFieldError("password", "Passwords must match.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	u := domain.User{
		Username: r.Username,
		Email:    r.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Insert(ctx, &u); err != nil {
		return "", err
	}
	return s.issueToken(u)
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.NewFieldError(domain.NonFieldErrors, msgBadCredentials)
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", domain.NewFieldError(domain.NonFieldErrors, msgBadCredentials)
	}
	return s.issueToken(u)
}

func (s *Service) issueToken(u domain.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *Service) Authenticate(ctx context.Context, raw string) (domain.Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.ExpiresAt == nil {
		return domain.Claims{}, ErrInvalidToken
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		logrus.Errorf("failed to check token denylist: %v", err)
		return domain.Claims{}, err
	}
	if revoked {
		return domain.Claims{}, ErrInvalidToken
	}

	// a signed token outlives its account unless checked here
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Claims{}, ErrInvalidToken
	}
	if err != nil {
		return domain.Claims{}, err
	}

	return domain.Claims{
		UserID:    u.ID,
		Username:  u.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) Logout(ctx context.Context, claims domain.Claims) error {
	return s.tokens.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt))
}

func (s *Service) ChangePassword(ctx context.Context, id int64, newPassword1, newPassword2 string) error {
	if newPassword1 != newPassword2 {
		return domain.NewFieldError("new_password2", "The two password fields didn't match.")
	}
	if len(newPassword1) < minPasswordLength {
		return domain.NewFieldError("new_password2", msgPasswordShort)
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword1), s.bcryptCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return s.userRepo.Update(ctx, &u)
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *Service) UpdateUsername(ctx context.Context, id int64, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return domain.User{}, domain.NewFieldError("username", msgUsernamePattern)
	}
	taken, err := s.userRepo.ExistsUsername(ctx, username, id)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, domain.NewFieldError("username", "A user with that username already exists.")
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u.Username = username
	if err := s.userRepo.Update(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Service) Fetch(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.Fetch(ctx)
}

// GetProfile returns the user with both sides of the follow graph.
func (s *Service) GetProfile(ctx context.Context, slug string) (domain.Profile, error) {
	u, err := s.userRepo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Profile{}, err
	}

	p := domain.Profile{User: u}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.edgeRepo.ListActors(gctx, domain.EdgeUserFollow, u.ID)
		if err != nil {
			return err
		}
		p.Followers, err = s.usersInOrder(gctx, ids)
		return err
	})
	g.Go(func() error {
		ids, err := s.edgeRepo.ListTargets(gctx, domain.EdgeUserFollow, u.ID)
		if err != nil {
			return err
		}
		p.Following, err = s.usersInOrder(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Service) usersInOrder(ctx context.Context, ids []int64) ([]domain.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	res := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) (domain.User, error) {
	fields := domain.FieldErrors{}
	if p.DisplayName != nil && len([]rune(*p.DisplayName)) > maxDisplayNameLen {
		fields.Add("display_name", "Ensure this field has no more than 50 characters.")
	}
	if p.Description != nil && len([]rune(*p.Description)) > maxDescriptionLen {
		fields.Add("description", "Ensure this field has no more than 500 characters.")
	}
	if err := fields.Err(); err != nil {
		return domain.User{}, err
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Description != nil {
		u.Description = *p.Description
	}

	oldAvatar := u.Avatar
	if p.Avatar != nil {
		ref, err := s.media.Save(ctx, domain.MediaAvatars, p.AvatarName, p.Avatar)
		if err != nil {
			return domain.User{}, err
		}
		u.Avatar = ref
	}

	if err := s.userRepo.Update(ctx, &u); err != nil {
		if u.Avatar != oldAvatar {
			s.removeMedia(ctx, u.Avatar)
		}
		return domain.User{}, err
	}
	if u.Avatar != oldAvatar {
		s.removeMedia(ctx, oldAvatar)
	}
	return u, nil
}

func (s *Service) removeMedia(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.media.Remove(ctx, ref); err != nil {
		logrus.Warnf("failed to remove media %q: %v", ref, err)
	}
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeMedia(ctx, u.Avatar)
	return nil
}

func (s *Service) Follow(ctx context.Context, actorID int64, slug string) error {
	target, err := s.userRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.follow.Add(ctx, actorID, target.ID, false); err != nil {
		return err
	}
	s.notifier.Notify(domain.Notification{
		ReceiverID: target.ID,
		ActorID:    actorID,
		Verb:       domain.VerbFollowed,
	})
	return nil
}

func (s *Service) Unfollow(ctx context.Context, actorID int64, slug string) error {
	target, err := s.userRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.follow.Remove(ctx, actorID, target.ID)
}
