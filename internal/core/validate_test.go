package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/hmrcore/internal/hmrerrors"
)

func TestValidateQuery_NilQueryIsInvalid(t *testing.T) {
	err := ValidateQuery(nil)

	require.Error(t, err)
	var ce *hmrerrors.CoreError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, hmrerrors.KindInvalidQuery, ce.Kind)
}

func TestValidateQuery_EmptyOrWhitespaceTextIsInvalid(t *testing.T) {
	require.Error(t, ValidateQuery(&Query{Text: ""}))
	require.Error(t, ValidateQuery(&Query{Text: "   \t\n"}))
}

func TestValidateQuery_ValidQueryPasses(t *testing.T) {
	err := ValidateQuery(&Query{Text: "getUserById"})

	assert.NoError(t, err)
}

func TestValidateQuery_KOverrideZeroIsInvalid(t *testing.T) {
	zero := 0
	err := ValidateQuery(&Query{Text: "q", KOverride: &zero})

	require.Error(t, err)
}

func TestValidateQuery_KOverrideNegativeIsInvalid(t *testing.T) {
	neg := -5
	err := ValidateQuery(&Query{Text: "q", KOverride: &neg})

	require.Error(t, err)
}

func TestValidateQuery_KOverrideAboveMaxIsInvalid(t *testing.T) {
	tooBig := MaxKOverride + 1
	err := ValidateQuery(&Query{Text: "q", KOverride: &tooBig})

	require.Error(t, err)
}

func TestValidateQuery_KOverrideAtMaxIsValid(t *testing.T) {
	max := MaxKOverride
	err := ValidateQuery(&Query{Text: "q", KOverride: &max})

	assert.NoError(t, err)
}

func TestValidateQuery_NilKOverrideIsValid(t *testing.T) {
	err := ValidateQuery(&Query{Text: "q", KOverride: nil})

	assert.NoError(t, err)
}

func TestValidateQuery_UnsupportedFilterKindIsInvalid(t *testing.T) {
	err := ValidateQuery(&Query{Text: "q", Filters: &Filters{Kind: "module"}})

	require.Error(t, err)
}

func TestValidateQuery_SupportedFilterKindsAreValid(t *testing.T) {
	for _, kind := range []string{"function", "class", "file", "chunk", ""} {
		err := ValidateQuery(&Query{Text: "q", Filters: &Filters{Kind: kind}})
		assert.NoError(t, err, "kind %q should be valid", kind)
	}
}
