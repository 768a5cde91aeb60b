package lifecycle

import (
	"math"

	"github.com/mmynk/gamemate/internal/models"
)

// Score bounds, inclusive.
const (
	MinScore = 0
	MaxScore = 10
)

// Scores is one rater's submission for an event.
type Scores struct {
	Host    int
	Food    int
	Overall int
}

// Validate checks that every score lies in [MinScore, MaxScore].
func (s Scores) Validate() error {
	for _, v := range []struct {
		name  string
		score int
	}{{"host", s.Host}, {"food", s.Food}, {"overall", s.Overall}} {
		if v.score < MinScore || v.score > MaxScore {
			return invalidInput("%s score %d outside [%d,%d]", v.name, v.score, MinScore, MaxScore)
		}
	}
	return nil
}

// HasRated reports whether userID already rated the event.
func HasRated(event *models.Event, userID string) bool {
	for _, id := range event.RatedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// ApplyRating appends userID's scores to the event's parallel rating arrays.
// The event is left untouched when an error is returned.
func ApplyRating(event *models.Event, userID string, s Scores) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if HasRated(event, userID) {
		return ErrAlreadyRated
	}
	if err := s.Validate(); err != nil {
		return err
	}

	event.HostRatings = append(event.HostRatings, s.Host)
	event.FoodRatings = append(event.FoodRatings, s.Food)
	event.OverallRatings = append(event.OverallRatings, s.Overall)
	event.RatedUsers = append(event.RatedUsers, userID)
	return nil
}

// Number is the set of types AverageOf accepts.
type Number interface {
	~int | ~int64 | ~float64
}

// AverageOf returns the arithmetic mean rounded half away from zero to one
// decimal place, or 0 for no values.
func AverageOf[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))
	return math.Round(mean*10) / 10
}

// RatingSummary aggregates an event's ratings.
type RatingSummary struct {
	Raters  int
	Host    float64
	Food    float64
	Overall float64
}

// Summarize computes the running averages of an event's ratings.
func Summarize(event *models.Event) RatingSummary {
	return RatingSummary{
		Raters:  len(event.RatedUsers),
		Host:    AverageOf(event.HostRatings),
		Food:    AverageOf(event.FoodRatings),
		Overall: AverageOf(event.OverallRatings),
	}
}
