package entity

import "errors"

var (
	// ErrDataUnavailable is returned when a historical balance, supply or price could not be retrieved.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrConfiguration is returned for inconsistent network/address mappings.
	ErrConfiguration = errors.New("configuration error")
	// ErrDivisionByZero is returned when the prior-period supply is zero.
	ErrDivisionByZero = errors.New("division by zero")
)
