package zaptec

import "time"

// MonthWindow computes the UTC query window for a calendar month. With
// previous set, the window covers the month before now's month; year
// rollover (January back to December, December forward to January) is
// handled by AddDate.
//
// By default the end of the window is 00:00:00 on the month's last day,
// so sessions starting on that day fall outside the window. fullMonth
// moves the end to the first instant of the next month instead.
func MonthWindow(now time.Time, previous, fullMonth bool) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if previous {
		start = start.AddDate(0, -1, 0)
	}

	nextMonth := start.AddDate(0, 1, 0)
	if fullMonth {
		end = nextMonth
	} else {
		end = nextMonth.AddDate(0, 0, -1)
	}
	return start, end
}
