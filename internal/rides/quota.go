package rides

import (
	"time"
)

// DailyCancelLimit is the maximum number of cancellations a rider gets per
// Dhaka calendar day, shared between requesting and cancelling rides.
const DailyCancelLimit = 3

var dhaka = loadDhaka()

func loadDhaka() *time.Location {
	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		// Dhaka has no DST, a fixed offset is equivalent
		return time.FixedZone("Asia/Dhaka", 6*60*60)
	}
	return loc
}

// DayWindow returns [start, end) of the Dhaka calendar day containing now.
func DayWindow(now time.Time) (time.Time, time.Time) {
	local := now.In(dhaka)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, dhaka)
	return start, start.Add(24 * time.Hour)
}
