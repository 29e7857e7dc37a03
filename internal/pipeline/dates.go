package pipeline

import (
	"time"

	"github.com/facturador/facturador/internal/errs"
)

const dateLayout = "2006-01-02"

// Range is a validated ingestion window. EndEpoch is 00:00 UTC of the day
// after the requested end date, so the provider's exclusive "before" filter
// covers the end date in full.
type Range struct {
	StartEpoch int64
	EndEpoch   int64
	BatchLabel string
}

// ParseRange validates a YYYY-MM-DD date pair and derives the epoch window
// and batch label. Dates are interpreted as UTC day boundaries.
func ParseRange(startDate, endDate string) (Range, error) {
	if startDate == "" || endDate == "" {
		return Range{}, errs.Validation("startDate and endDate are required")
	}

	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return Range{}, errs.Validation("invalid date format, use YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return Range{}, errs.Validation("invalid date format, use YYYY-MM-DD")
	}
	if start.After(end) {
		return Range{}, errs.Validation("startDate must be before endDate")
	}

	return Range{
		StartEpoch: start.Unix(),
		EndEpoch:   end.AddDate(0, 0, 1).Unix(),
		BatchLabel: start.Format("2006-01"),
	}, nil
}
