package db

import "errors"

// ErrInsufficientCredits is returned by DeductCredit when the user has no
// submission credits remaining (or does not exist).
var ErrInsufficientCredits = errors.New("insufficient credits")
