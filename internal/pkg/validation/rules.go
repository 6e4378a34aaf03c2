package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Usernames are lowercase handles: letters, digits, dot, underscore, hyphen
	UsernamePattern = `^[a-z0-9._\-]{3,80}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Username *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
}

// RegisterCustomValidators attaches the platform's custom rules to gin's
// binding validator. Call once during startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("username", validUsername)
}

func validUsername(fl validator.FieldLevel) bool {
	return CompiledPatterns.Username.MatchString(fl.Field().String())
}
