package model

import "time"

// Reading is a single blood-pressure measurement owned by one user.
type Reading struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	Pulse     int       `json:"pulse"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReadingRequest is the body of POST /readings. Zero counts as missing.
type ReadingRequest struct {
	Systolic  int `json:"systolic" validate:"required,gt=0"`
	Diastolic int `json:"diastolic" validate:"required,gt=0"`
	Pulse     int `json:"pulse" validate:"required,gt=0"`
}

// ReadingAggregate holds the unrounded means over an owner's readings and
// the most recent one. Means and Latest are nil when Count is zero.
type ReadingAggregate struct {
	Count        int
	AvgSystolic  *float64
	AvgDiastolic *float64
	AvgPulse     *float64
	Latest       *Reading
}

// Stats is the "stats" object of GET /readings/stats.
type Stats struct {
	AvgSystolic  *float64 `json:"avgSystolic"`
	AvgDiastolic *float64 `json:"avgDiastolic"`
	AvgPulse     *float64 `json:"avgPulse"`
	Count        int      `json:"count"`
	Category     Category `json:"category"`
}

// StatsResponse is the body of GET /readings/stats.
type StatsResponse struct {
	Stats  Stats    `json:"stats"`
	Latest *Reading `json:"latest"`
}

// DeleteReadingResponse is the body of DELETE /readings/{id}.
type DeleteReadingResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// Summarize computes the aggregate of readings ordered newest first.
func Summarize(readings []Reading) ReadingAggregate {
	if len(readings) == 0 {
		return ReadingAggregate{}
	}

	var sys, dia, pulse float64
	for _, r := range readings {
		sys += float64(r.Systolic)
		dia += float64(r.Diastolic)
		pulse += float64(r.Pulse)
	}

	n := float64(len(readings))
	avgSys, avgDia, avgPulse := sys/n, dia/n, pulse/n
	latest := readings[0]

	return ReadingAggregate{
		Count:        len(readings),
		AvgSystolic:  &avgSys,
		AvgDiastolic: &avgDia,
		AvgPulse:     &avgPulse,
		Latest:       &latest,
	}
}
