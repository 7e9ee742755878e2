package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

var recordIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("recordid", func(fl validator.FieldLevel) bool {
		return recordIDPattern.MatchString(fl.Field().String())
	})
}

// Validate checks cfg using struct tags plus the rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

func validateCustomRules(cfg *Config) error {
	accounts := filepath.Clean(cfg.AccountsPath())
	docs := filepath.Clean(cfg.DocumentsPath())
	if accounts == docs {
		return fmt.Errorf("storage: accounts and documents must use different directories (%s)", accounts)
	}
	if nested(accounts, docs) || nested(docs, accounts) {
		return fmt.Errorf("storage: accounts (%s) and documents (%s) must not be nested", accounts, docs)
	}
	audit := filepath.Clean(cfg.AuditLogPath())
	if nested(accounts, audit) || nested(docs, audit) {
		return fmt.Errorf("storage: audit log %s must not live inside a record directory", audit)
	}
	return nil
}

func nested(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		// Return the first validation error with context
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
