package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// South African ID number - 13 digits
	SAIDPattern = `^\d{13}$`

	// ISO calendar date
	ISODatePattern = `^\d{4}-\d{2}-\d{2}$`

	// Phone numbers allow an optional leading + followed by digits, spaces, dashes and brackets
	PhonePattern = `^\+?[\d\s\-\(\)]+$`

	// Bank branch code - 6 digits
	BranchCodePattern = `^\d{6}$`

	// Bank account number - 10 to 12 digits
	AccountNumberPattern = `^\d{10,12}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	SAID          *regexp.Regexp
	ISODate       *regexp.Regexp
	Phone         *regexp.Regexp
	BranchCode    *regexp.Regexp
	AccountNumber *regexp.Regexp
}{
	SAID:          regexp.MustCompile(SAIDPattern),
	ISODate:       regexp.MustCompile(ISODatePattern),
	Phone:         regexp.MustCompile(PhonePattern),
	BranchCode:    regexp.MustCompile(BranchCodePattern),
	AccountNumber: regexp.MustCompile(AccountNumberPattern),
}

func validateSAID(fl validator.FieldLevel) bool {
	return CompiledPatterns.SAID.MatchString(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !CompiledPatterns.ISODate.MatchString(value) {
		return false
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func validatePhone(fl validator.FieldLevel) bool {
	return CompiledPatterns.Phone.MatchString(fl.Field().String())
}

// customRules are registered on every validator built by this package
var customRules = map[string]validator.Func{
	"sa_id":   validateSAID,
	"isodate": validateISODate,
	"phone":   validatePhone,
}
