package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/noorweb/noorweb/internal/config"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New(config.ErrValidation)

var validate = validator.New()

// ValidationError maps field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return fmt.Sprintf("%s: %s", config.ErrValidation, strings.Join(parts, "; "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Strength scores a password.
type Strength struct {
	Score     int    `json:"score"`
	Label     string `json:"label"`
	UrduLabel string `json:"urduLabel"`
}

// ValidateEmail returns a user-facing message, or "" when email is valid.
func ValidateEmail(email string) string {
	if email == "" {
		return config.MsgEmailRequired
	}
	if validate.Var(email, "email") != nil {
		return config.MsgEmailInvalid
	}
	lower := strings.ToLower(email)
	for _, suffix := range config.ValidEmailSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return ""
		}
	}
	return config.MsgEmailDomain
}

// ValidatePassword returns the first failed rule, or "".
func ValidatePassword(password string) string {
	switch {
	case utf8.RuneCountInString(password) < config.MinPasswordLen:
		return config.MsgPasswordShort
	case !strings.ContainsFunc(password, unicode.IsUpper):
		return config.MsgPasswordUpper
	case !strings.ContainsFunc(password, isDigit):
		return config.MsgPasswordDigit
	case !strings.ContainsAny(password, config.PasswordSpecialChars):
		return config.MsgPasswordSpecial
	}
	return ""
}

// ValidateName returns a message when name is too short, or "".
func ValidateName(name string) string {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < config.MinNameLength {
		return config.MsgNameShort
	}
	return ""
}

// ValidateRegistration checks every registration field at once.
func ValidateRegistration(name, email, password string) error {
	return collect(map[string]string{
		config.FieldName:     ValidateName(name),
		config.FieldEmail:    ValidateEmail(email),
		config.FieldPassword: ValidatePassword(password),
	})
}

// ValidateLogin only requires a well-formed email and a non-empty password.
func ValidateLogin(email, password string) error {
	pw := ""
	if password == "" {
		pw = config.MsgPasswordRequired
	}
	return collect(map[string]string{
		config.FieldEmail:    ValidateEmail(email),
		config.FieldPassword: pw,
	})
}

// PasswordStrength awards one point per satisfied rule: length of 8, length
// of 12, an uppercase letter, a lowercase letter, a digit, a special character.
func PasswordStrength(password string) Strength {
	n := utf8.RuneCountInString(password)
	checks := []bool{
		n >= config.MinPasswordLen,
		n >= config.StrongLengthLen,
		strings.ContainsFunc(password, unicode.IsUpper),
		strings.ContainsFunc(password, unicode.IsLower),
		strings.ContainsFunc(password, isDigit),
		strings.ContainsAny(password, config.PasswordSpecialChars),
	}
	score := 0
	for _, ok := range checks {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return Strength{Score: score, Label: config.StrengthWeak, UrduLabel: config.StrengthWeakUrdu}
	case score <= 4:
		return Strength{Score: score, Label: config.StrengthMedium, UrduLabel: config.StrengthMediumUrdu}
	default:
		return Strength{Score: score, Label: config.StrengthStrong, UrduLabel: config.StrengthStrongUrdu}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func collect(results map[string]string) error {
	fields := map[string]string{}
	for k, msg := range results {
		if msg != "" {
			fields[k] = msg
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
