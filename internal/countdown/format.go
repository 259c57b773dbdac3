package countdown

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidDuration = errors.New("invalid duration")

// FormatTime renders total seconds as MM:SS. There is no hours component,
// so 3661 seconds becomes "61:01". Negative input renders as "00:00".
func FormatTime(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds - minutes*60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// durationLabel is what the display shows right after the duration changes,
// before any tick happens, e.g. "5:00".
func durationLabel(minutes int) string {
	return fmt.Sprintf("%d:00", minutes)
}

// ParseDuration validates the raw value coming from the duration control.
// Only whole positive minutes up to maxMinutes are accepted; maxMinutes <= 0
// means no upper bound.
func ParseDuration(raw string, maxMinutes int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidDuration)
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidDuration, raw)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %d must be positive", ErrInvalidDuration, minutes)
	}
	if maxMinutes > 0 && minutes > maxMinutes {
		return 0, fmt.Errorf("%w: %d is above the max of %d", ErrInvalidDuration, minutes, maxMinutes)
	}

	return minutes, nil
}
