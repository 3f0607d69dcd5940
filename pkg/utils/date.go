package utils

import (
	"time"
)

const invoiceDateLayout = "2006-01-02"

func ConvertDateTimeToHumanReadableFormat(datetime int64) string {
	t := time.UnixMilli(datetime).UTC()
	return t.Format("02 January 2006, 15:04 MST")
}

// InvoiceDates returns the issue date and due date in the layout the
// invoicing API expects.
func InvoiceDates(now time.Time, termsDays int) (string, string) {
	if termsDays < 0 {
		termsDays = 0
	}
	return now.Format(invoiceDateLayout), now.AddDate(0, 0, termsDays).Format(invoiceDateLayout)
}
