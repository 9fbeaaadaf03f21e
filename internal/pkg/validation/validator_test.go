package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

type sample struct {
	Name   string  `json:"name" validate:"required,max=5"`
	ID     string  `json:"id_number" validate:"required,sa_id"`
	Born   string  `json:"date_of_birth" validate:"required,isodate"`
	Mobile *string `json:"mobile" validate:"omitempty,phone"`
}

func strPtr(s string) *string { return &s }

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(sample{Name: "Ann", ID: "0101015800087", Born: "2015-02-28", Mobile: strPtr("+27 (82) 555-0101")})
	assert.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(sample{Name: "Annabelle", ID: "123", Born: "2015-02-30", Mobile: strPtr("call me")})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	details := apperrors.DetailsOf(err)
	assert.Equal(t, "name must be at most 5", details["name"])
	assert.Equal(t, "id_number must be 13 digits", details["id_number"])
	assert.Equal(t, "date_of_birth must be a date in YYYY-MM-DD format", details["date_of_birth"])
	assert.Equal(t, "mobile must be a valid phone number", details["mobile"])
}

func TestValidateStructNestedPath(t *testing.T) {
	type wrapper struct {
		Inner sample `json:"student"`
	}
	err := ValidateStruct(wrapper{Inner: sample{ID: "0101015800087", Born: "2015-01-01"}})
	require.Error(t, err)
	assert.Contains(t, apperrors.DetailsOf(err), "student.name")
}

func TestBankPatterns(t *testing.T) {
	assert.True(t, CompiledPatterns.BranchCode.MatchString("250655"))
	assert.False(t, CompiledPatterns.BranchCode.MatchString("25065"))
	assert.True(t, CompiledPatterns.AccountNumber.MatchString("1234567890"))
	assert.False(t, CompiledPatterns.AccountNumber.MatchString("123456789"))
}
