package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/social-blog/domain"
)

func TestFieldErrorMessageIsSorted(t *testing.T) {
	fields := domain.FieldErrors{}
	fields.Add("username", "taken")
	fields.Add("email", "taken")
	fields.Add("password", "too short")
	fields.Add("email", "invalid")
	err := fields.Err()

	for i := 0; i < 20; i++ {
		assert.Equal(t, "email: taken, invalid; password: too short; username: taken", err.Error())
	}
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestErrorMessageFallsBackToKind(t *testing.T) {
	err := &domain.Error{Kind: domain.KindNotFound}
	assert.Equal(t, domain.KindNotFound.String(), err.Error())
	assert.Equal(t, "Not found.", domain.ErrNotFound.Error())
}
