package checks

import "strings"

// CheckAddress approves the address when street, city, state and zip are
// all present and not blank.
func CheckAddress(req AddressRequest) Result {
	approved := present(req.Street) &&
		present(req.City) &&
		present(req.State) &&
		present(req.Zip)
	return newResult(CheckNameAddress, approved)
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
