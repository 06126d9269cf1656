package httperr

import "errors"

// BusinessError carries a machine-readable rule violation (e.g.
// "time_conflict") from a use case up to the HTTP layer, which owns
// the status code and the human wording.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err wraps a BusinessError with the code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
