package utils

import "time"

// SaoPauloLocation is the timezone for the B3 exchange.
var SaoPauloLocation *time.Location

func init() {
	var err error
	SaoPauloLocation, err = time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback to UTC-3
		SaoPauloLocation = time.FixedZone("BRT", -3*60*60)
	}
}

// SessionStatus represents the current B3 trading session.
type SessionStatus string

const (
	SessionClosed     SessionStatus = "CLOSED"
	SessionPreOpening SessionStatus = "PRE_OPENING"
	SessionOpen       SessionStatus = "OPEN"
	SessionAfterHours SessionStatus = "AFTER_HOURS"
)

// GetSessionStatus returns the current B3 session status.
func GetSessionStatus() SessionStatus {
	return sessionStatusAt(time.Now().In(SaoPauloLocation))
}

func sessionStatusAt(now time.Time) SessionStatus {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return SessionClosed
	}

	timeMinutes := now.Hour()*60 + now.Minute()

	// Pre-opening: 9:45 - 10:00
	if timeMinutes >= 585 && timeMinutes < 600 {
		return SessionPreOpening
	}

	// Regular session: 10:00 - 17:00
	if timeMinutes >= 600 && timeMinutes < 1020 {
		return SessionOpen
	}

	// After-market: 17:30 - 18:00
	if timeMinutes >= 1050 && timeMinutes < 1080 {
		return SessionAfterHours
	}

	return SessionClosed
}

// IsSessionOpen returns true if the regular session is running.
func IsSessionOpen() bool {
	return GetSessionStatus() == SessionOpen
}
