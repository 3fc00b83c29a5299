package model

import (
	"time"

	"github.com/Guyuepp/social-blog/domain"
)

type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Username    string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email       string    `gorm:"type:varchar(191);uniqueIndex;not null"`
	Password    string    `gorm:"type:varchar(128);not null"`
	Slug        string    `gorm:"type:varchar(191);uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(50)"`
	Description string    `gorm:"type:text"`
	Avatar      string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"type:datetime"`
	UpdatedAt   time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "users"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:          m.ID,
		Username:    m.Username,
		Email:       m.Email,
		Password:    m.Password,
		Slug:        m.Slug,
		DisplayName: m.DisplayName,
		Description: m.Description,
		Avatar:      m.Avatar,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Password:    u.Password,
		Slug:        u.Slug,
		DisplayName: u.DisplayName,
		Description: u.Description,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
