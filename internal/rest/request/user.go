package request

import "github.com/Guyuepp/social-blog/domain"

type Register struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

func (r *Register) ToDomain() domain.Registration {
	return domain.Registration{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		Password2: r.Password2,
	}
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PasswordChange struct {
	NewPassword1 string `json:"new_password1" binding:"required"`
	NewPassword2 string `json:"new_password2" binding:"required"`
}

type UserUpdate struct {
	Username string `json:"username" binding:"required,max=150,username"`
}
