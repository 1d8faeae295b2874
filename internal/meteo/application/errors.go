package application

import "errors"

var (
	// ErrNoCommonTimestamps is returned when neither calendar nor climatological alignment finds shared hours.
	ErrNoCommonTimestamps = errors.New("meteo: no common timestamps found (even with climatological alignment); check that both files contain comparable time series and variables")
	// ErrInvalidStep is returned when the common step is not positive.
	ErrInvalidStep = errors.New("meteo: common step must be positive")
)
