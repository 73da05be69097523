package timeout

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const messageFormat = "Request timeout: The operation took longer than %d seconds to complete. Please try again or contact support if the problem persists."

// Error is returned when the deadline fires before the operation settles.
type Error struct {
	Duration time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf(messageFormat, e.Seconds())
}

// Seconds is the bound rounded to whole seconds.
func (e *Error) Seconds() int {
	return int(math.Round(float64(e.Duration.Milliseconds()) / 1000))
}

func IsTimeout(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
