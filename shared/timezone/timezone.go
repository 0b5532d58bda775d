package timezone

import (
	"time"

	"github.com/rs/zerolog/log"

	"unires/config"
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation()) //nolint:wrapcheck
}

// ParseDay parses a YYYY-MM-DD value as midnight in the application timezone.
func ParseDay(value string) (time.Time, error) {
	return Parse(time.DateOnly, value)
}

// ParseInstant accepts RFC3339 and converts it to the application timezone.
func ParseInstant(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck
	}

	return ToAppTime(t), nil
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
