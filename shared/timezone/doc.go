// Package timezone holds the application location loaded from APP_TIMEZONE.
//
// Reservation windows, day boundaries for the extension quota and dashboard
// peak hours are all evaluated in this location:
//
//	now := timezone.Now()
//	day, err := timezone.Parse(time.DateOnly, "2026-10-19")
//
// Use IANA names such as "UTC" or "Asia/Jakarta".
package timezone
