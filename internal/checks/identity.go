package checks

import "regexp"

var (
	ssnPattern   = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
)

// CheckIdentity approves the identity when both the SSN and the email match
// their patterns over the whole value. A missing field is a rejection.
func CheckIdentity(req IdentityRequest) Result {
	approved := matches(ssnPattern, req.SSN) && matches(emailPattern, req.Email)
	return newResult(CheckNameIdentity, approved)
}

func ValidSSN(ssn string) bool {
	return ssnPattern.MatchString(ssn)
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func matches(re *regexp.Regexp, s *string) bool {
	return s != nil && re.MatchString(*s)
}
