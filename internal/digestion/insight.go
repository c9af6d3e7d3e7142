package digestion

import (
	"fmt"
	"math"
	"strings"
)

// InsightStatus grades how the latest reading compares with the one before it
type InsightStatus string

const (
	StatusGood    InsightStatus = "good"
	StatusWatch   InsightStatus = "watch"
	StatusCaution InsightStatus = "caution"
)

// DailyInsight is the day-over-day trend verdict
type DailyInsight struct {
	Status            InsightStatus `json:"status"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Suggestions       []string      `json:"suggestions"`
	ComparedLogsCount int           `json:"comparedLogsCount"`
}

// AssessDailyInsight scores the newest reading against the previous one.
// readings must be ordered newest first; only the first two are used.
func AssessDailyInsight(readings []Reading) DailyInsight {
	switch len(readings) {
	case 0:
		return DailyInsight{
			Status:      StatusWatch,
			Title:       "No logs yet",
			Description: "Add a daily log so we can start trend tracking.",
			Suggestions: []string{"Log stool type, hydration, and meals once daily."},
		}
	case 1:
		return DailyInsight{
			Status:      StatusWatch,
			Title:       "Need one more log for comparison",
			Description: "We saved today's entry. Add another day to compare trends.",
			Suggestions: []string{"Continue logging at the same time each day."},
		}
	}

	latest, previous := readings[0], readings[1]
	score := 0

	if inExpectedRange(latest.StoolType) {
		score++
	} else {
		score--
	}

	switch strings.ToLower(latest.Hydration) {
	case "normal", "good":
		score++
	case "low":
		score--
	}

	if latest.StoolFrequency != nil && previous.StoolFrequency != nil {
		diff := *latest.StoolFrequency - *previous.StoolFrequency
		if diff >= -1 && diff <= 1 {
			score++
		}
	}

	insight := DailyInsight{ComparedLogsCount: 1}
	switch {
	case score >= 2:
		insight.Status = StatusGood
		insight.Title = "Digestion trend looks stable"
		insight.Description = "Today's stool and hydration pattern look consistent with a healthy trend."
		insight.Suggestions = []string{
			"Keep meal timing and hydration consistent.",
			"Continue offering fiber-rich fruits and vegetables.",
		}
	case score >= 0:
		insight.Status = StatusWatch
		insight.Title = "Mild variation detected"
		insight.Description = "There are small shifts from the previous log. Keep monitoring tomorrow's pattern."
		insight.Suggestions = []string{
			"Offer water more frequently through the day.",
			"Keep meals simple and avoid multiple new foods at once.",
		}
	default:
		insight.Status = StatusCaution
		insight.Title = "Digestive pattern needs attention"
		insight.Description = "Compared with the previous log, stool and hydration suggest increased digestive stress."
		insight.Suggestions = []string{
			"Prioritize hydration and soft, gentle meals.",
			"If severe symptoms continue, contact your pediatrician.",
		}
	}
	return insight
}

// NutrientTotals sums logged food nutrients
type NutrientTotals struct {
	Calories float64 `json:"calories"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Protein  float64 `json:"protein"`
	Water    float64 `json:"water"`
}

// Rounded returns the totals rounded to one decimal place
func (t NutrientTotals) Rounded() NutrientTotals {
	return NutrientTotals{
		Calories: round1(t.Calories),
		Fiber:    round1(t.Fiber),
		Sugar:    round1(t.Sugar),
		Protein:  round1(t.Protein),
		Water:    round1(t.Water),
	}
}

// SummaryText describes recent logs in one caregiver-facing paragraph
func SummaryText(logCount int, latest *Reading, totals NutrientTotals) string {
	if logCount == 0 || latest == nil {
		return "No logs yet. Add a daily log to start personalized tracking insights."
	}

	stool := "needs attention"
	if inExpectedRange(latest.StoolType) {
		stool = "within expected range"
	}
	hydration := strings.ToLower(latest.Hydration)
	if hydration == "" {
		hydration = "unknown"
	}

	return fmt.Sprintf("From the last %d log(s), digestion trend is %s. Hydration is %s, with total fiber %.1fg and protein %.1fg recorded.",
		logCount, stool, hydration, totals.Fiber, totals.Protein)
}

func inExpectedRange(stoolType *int) bool {
	return stoolType != nil && *stoolType >= 3 && *stoolType <= 5
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
