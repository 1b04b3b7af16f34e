package goals

import "errors"

var (
	ErrPeriodNotFound = errors.New("goal period not found")
	ErrNoSourcePeriod = errors.New("no earlier period to copy from")
	ErrUnknownScope   = errors.New("unknown goal scope")
)
