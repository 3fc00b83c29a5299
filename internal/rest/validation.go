package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Guyuepp/social-blog/domain"
)

var (
	registerOnce    sync.Once
	usernamePattern = regexp.MustCompile(`^\w+$`)
	bracketIndex    = regexp.MustCompile(`\[\d+\]$`)
)

// registerValidators teaches gin's validator our json field names and rules.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "The username may only contain A-Z, a-z, 0-9 and _"
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}

// bindingError converts a gin binding failure into a domain validation error.
func bindingError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		fields := domain.FieldErrors{}
		for _, fe := range ves {
			fields.Add(bracketIndex.ReplaceAllString(fe.Field(), ""), fieldMessage(fe))
		}
		return fields.Err()
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return domain.NewFieldError(typeErr.Field, fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type))
	case errors.As(err, &syntaxErr):
		return domain.NewValidationError("JSON parse error - " + syntaxErr.Error())
	default:
		return domain.NewValidationError(err.Error())
	}
}

// bindJSON binds the request body into obj, rendering a 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		renderError(c, bindingError(err))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for bodies that may be omitted entirely.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		renderError(c, bindingError(err))
		return false
	}
	return true
}
