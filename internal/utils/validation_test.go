package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

func TestValidateAccountName_Valid(t *testing.T) {
	validNames := []string{
		"Savings",
		"BPI - Savings & Trust",
		"Banco de Oro (Main)",
		"Niña's Wallet",
		"日本の口座",
		"Fund 2026",
		"a/b",
		strings.Repeat("a", utils.AccountNameMaxLen),
	}
	for _, name := range validNames {
		assert.NoError(t, utils.ValidateAccountName(name), "name %q should be accepted", name)
	}
}

func TestValidateAccountName_Invalid(t *testing.T) {
	invalidNames := []string{
		"",
		"a",
		"  a  ", // trims to a single rune
		strings.Repeat("a", utils.AccountNameMaxLen+1),
		"Cash <script>",
		"Fees 100%",
	}
	for _, name := range invalidNames {
		err := utils.ValidateAccountName(name)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "name %q should be rejected", name)
	}
}

func TestValidateAccountName_LengthCountsRunes(t *testing.T) {
	// Two runes, more than two bytes.
	assert.NoError(t, utils.ValidateAccountName("ñé"))
}
