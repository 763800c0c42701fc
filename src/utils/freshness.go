package utils

import (
	"time"

	"aapl-elt/src/logger"

	"github.com/scmhub/calendar"
)

// -----------------------------------------------------------------------------

// TradingCalendar answers trading-day questions for the single instrument
// this pipeline observes (NYSE listed).
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// NewTradingCalendar loads the XNYS calendar, falling back to a plain
// Mon-Fri check if the calendar data is unavailable.
func NewTradingCalendar(log *logger.Logger) *TradingCalendar {
	cal := calendar.GetCalendar("xnys")
	if cal == nil {
		log.Warning("Failed to load XNYS calendar. Using simple fallback (Mon-Fri, America/New_York).")
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether date is a trading day.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}

	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// LastCompletedTradingDay returns the most recent trading day whose session
// has already closed as of now. A daily bar for that date is the newest the
// market-data source can possibly have.
func (tc *TradingCalendar) LastCompletedTradingDay(now time.Time) time.Time {
	if tc.Timezone != nil {
		now = now.In(tc.Timezone)
	}

	candidate := now
	// If today's session has not closed yet (NYSE closes 16:00 local), the
	// newest complete daily bar is from an earlier day.
	if !tc.IsTradingDay(candidate) || candidate.Hour() < 16 {
		candidate = candidate.AddDate(0, 0, -1)
	}

	for !tc.IsTradingDay(candidate) {
		candidate = candidate.AddDate(0, 0, -1)
	}

	return time.Date(candidate.Year(), candidate.Month(), candidate.Day(), 0, 0, 0, 0, time.UTC)
}
