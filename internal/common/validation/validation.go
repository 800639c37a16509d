package validation

import (
	"fmt"
	"strings"
)

const (
	MinWinnerCount = 1
	MaxWinnerCount = 20

	MinPrizeLength = 1
	MaxPrizeLength = 256

	MinDurationSeconds = 10
	MaxDurationSeconds = 60 * 60 * 24 * 30 // 30 days
)

// ValidateWinnerCount проверяет количество победителей
func ValidateWinnerCount(count int) error {
	if count < MinWinnerCount {
		return fmt.Errorf("winner count must be at least %d", MinWinnerCount)
	}
	if count > MaxWinnerCount {
		return fmt.Errorf("winner count cannot exceed %d", MaxWinnerCount)
	}
	return nil
}

// ValidatePrize проверяет описание приза
func ValidatePrize(prize string) error {
	if len(strings.TrimSpace(prize)) < MinPrizeLength {
		return fmt.Errorf("prize description cannot be empty")
	}
	if len(prize) > MaxPrizeLength {
		return fmt.Errorf("prize description cannot exceed %d characters", MaxPrizeLength)
	}
	return nil
}

// ValidateDuration проверяет длительность розыгрыша в секундах
func ValidateDuration(seconds int64) error {
	if seconds < MinDurationSeconds {
		return fmt.Errorf("duration must be at least %d seconds", MinDurationSeconds)
	}
	if seconds > MaxDurationSeconds {
		return fmt.Errorf("duration cannot exceed %d days", MaxDurationSeconds/86400)
	}
	return nil
}

// FormatDuration renders a duration in seconds as a short human-readable
// string, e.g. "2 hours 30 minutes".
func FormatDuration(seconds int64) string {
	if seconds < 60 {
		return plural(seconds, "second")
	}

	minutes := seconds / 60
	if minutes < 60 {
		return plural(minutes, "minute")
	}

	hours := minutes / 60
	if hours < 24 {
		if rem := minutes % 60; rem > 0 {
			return plural(hours, "hour") + " " + plural(rem, "minute")
		}
		return plural(hours, "hour")
	}

	days := hours / 24
	if rem := hours % 24; rem > 0 {
		return plural(days, "day") + " " + plural(rem, "hour")
	}
	return plural(days, "day")
}

// FormatTimestamp renders remaining seconds for display, "Ended" once the
// deadline has passed.
func FormatTimestamp(secondsRemaining float64) string {
	if secondsRemaining <= 0 {
		return "Ended"
	}
	return FormatDuration(int64(secondsRemaining))
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
