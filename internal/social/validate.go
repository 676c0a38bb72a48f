package social

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 4
	MaxMessageLength  = 255
)

// Lengths are counted in characters, not bytes.
type registration struct {
	Username string `validate:"notblank"`
	Password string `validate:"min_password"`
}

type messageText struct {
	MessageText string `validate:"notblank,max_message"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for unknown tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), isContentRune) >= 0
	})
	_ = v.RegisterValidation("min_password", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= MinPasswordLength
	})
	_ = v.RegisterValidation("max_message", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= MaxMessageLength
	})
	return v
}

// isBlankRune reports whitespace that doesn't count as content. The
// no-break spaces are content, as is NEL.
func isBlankRune(r rune) bool {
	switch {
	case r == '\u00a0', r == '\u2007', r == '\u202f', r == '\u0085':
		return false
	case r >= '\u001c' && r <= '\u001f':
		return true
	}
	return unicode.IsSpace(r)
}

func isContentRune(r rune) bool { return !isBlankRune(r) }

func (s *Service) checkRegistration(username, password string) error {
	if err := s.validate.Struct(registration{Username: username, Password: password}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) checkText(text string) error {
	if err := s.validate.Struct(messageText{MessageText: text}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
