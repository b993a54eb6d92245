package utils

import (
    "time"
)

// AddOneMonth returns the date one month out, used for the first
// billing date of upsell subscriptions.
func AddOneMonth(date time.Time) time.Time {
    return date.AddDate(0, 1, 0)
}

func FormatDate(date time.Time) string {
    return date.Format("2006-01-02")
}
