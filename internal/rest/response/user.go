package response

import "github.com/Guyuepp/social-blog/domain"

// UserBrief is the author block embedded in articles, comments and follow lists.
type UserBrief struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

type User struct {
	UserBrief
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type Profile struct {
	User
	Followers []UserBrief `json:"followers"`
	Following []UserBrief `json:"following"`
}

// Account is the body of /auth/user/.
type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (b *Builder) UserBrief(u *domain.User) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{
		ID:          u.ID,
		Username:    u.Username,
		Slug:        u.Slug,
		DisplayName: u.DisplayName,
		Avatar:      b.mediaURL(u.Avatar),
	}
}

func (b *Builder) User(u *domain.User) User {
	return User{
		UserBrief:   *b.UserBrief(u),
		Description: u.Description,
		CreatedAt:   u.CreatedAt.Format(DateTimeFormat),
	}
}

func (b *Builder) Users(us []domain.User) []User {
	res := make([]User, len(us))
	for i := range us {
		res[i] = b.User(&us[i])
	}
	return res
}

func (b *Builder) briefs(us []domain.User) []UserBrief {
	res := make([]UserBrief, len(us))
	for i := range us {
		res[i] = *b.UserBrief(&us[i])
	}
	return res
}

func (b *Builder) Profile(p *domain.Profile) Profile {
	return Profile{
		User:      b.User(&p.User),
		Followers: b.briefs(p.Followers),
		Following: b.briefs(p.Following),
	}
}

func NewAccountFromDomain(u *domain.User) Account {
	return Account{ID: u.ID, Username: u.Username}
}
