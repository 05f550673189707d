package router

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

var registerOnce sync.Once

// registerValidators installs the custom `username` binding tag: 3-20
// characters, letters, digits and underscores only.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return usernamePattern.MatchString(fl.Field().String())
			})
		}
	})
}
