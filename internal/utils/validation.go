package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
)

const (
	// AccountNameMinLen and AccountNameMaxLen bound account display names.
	AccountNameMinLen = 2
	AccountNameMaxLen = 50
)

// accountNamePattern accepts unicode letters and digits alongside the
// punctuation that appears in real institution names ("BPI - Savings & Trust",
// "Banco de Oro (Main)"). The legacy ASCII-only pattern rejected accented
// characters and ampersands, which was a bug, not policy.
var accountNamePattern = regexp.MustCompile(`^[\p{L}\p{N}\s\-_'.()&,/]+$`)

// ValidateAccountName checks length and character set of an account name.
func ValidateAccountName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < AccountNameMinLen || len([]rune(trimmed)) > AccountNameMaxLen {
		return fmt.Errorf("%w: account name must be %d-%d characters", apperrors.ErrValidation, AccountNameMinLen, AccountNameMaxLen)
	}
	if !accountNamePattern.MatchString(trimmed) {
		return fmt.Errorf("%w: account name contains unsupported characters", apperrors.ErrValidation)
	}
	return nil
}
