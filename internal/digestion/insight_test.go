package digestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessDailyInsight(t *testing.T) {
	tests := []struct {
		name     string
		readings []Reading
		want     InsightStatus
		compared int
		title    string
	}{
		{
			name:  "no logs",
			want:  StatusWatch,
			title: "No logs yet",
		},
		{
			name:     "single log",
			readings: []Reading{{StoolType: intPtr(4)}},
			want:     StatusWatch,
			title:    "Need one more log for comparison",
		},
		{
			name: "stable",
			readings: []Reading{
				{StoolType: intPtr(4), StoolFrequency: intPtr(2), Hydration: "good"},
				{StoolType: intPtr(4), StoolFrequency: intPtr(3), Hydration: "normal"},
			},
			want:     StatusGood,
			compared: 1,
			title:    "Digestion trend looks stable",
		},
		{
			name: "mild variation",
			readings: []Reading{
				{StoolType: intPtr(2), StoolFrequency: intPtr(1), Hydration: "normal"},
				{StoolType: intPtr(4), StoolFrequency: intPtr(4)},
			},
			want:     StatusWatch,
			compared: 1,
			title:    "Mild variation detected",
		},
		{
			name: "caution",
			readings: []Reading{
				{StoolType: intPtr(7), StoolFrequency: intPtr(6), Hydration: "low"},
				{StoolType: intPtr(4), StoolFrequency: intPtr(2), Hydration: "good"},
			},
			want:     StatusCaution,
			compared: 1,
			title:    "Digestive pattern needs attention",
		},
		{
			name: "missing frequency skips comparison",
			readings: []Reading{
				{StoolType: intPtr(5), Hydration: "good"},
				{StoolType: intPtr(5), StoolFrequency: intPtr(2)},
			},
			want:     StatusGood,
			compared: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insight := AssessDailyInsight(tt.readings)
			assert.Equal(t, tt.want, insight.Status)
			assert.Equal(t, tt.compared, insight.ComparedLogsCount)
			assert.NotEmpty(t, insight.Suggestions)
			if tt.title != "" {
				assert.Equal(t, tt.title, insight.Title)
			}
		})
	}
}

func TestSummaryText(t *testing.T) {
	totals := NutrientTotals{Fiber: 12.345, Protein: 20.06, Calories: 800.04}.Rounded()
	assert.Equal(t, 12.3, totals.Fiber)
	assert.Equal(t, 20.1, totals.Protein)
	assert.Equal(t, 800.0, totals.Calories)

	text := SummaryText(3, &Reading{StoolType: intPtr(4), Hydration: "Good"}, totals)
	assert.Equal(t, "From the last 3 log(s), digestion trend is within expected range. Hydration is good, with total fiber 12.3g and protein 20.1g recorded.", text)

	text = SummaryText(1, &Reading{StoolType: intPtr(7)}, NutrientTotals{})
	assert.Contains(t, text, "needs attention")
	assert.Contains(t, text, "Hydration is unknown")

	assert.Contains(t, SummaryText(0, nil, NutrientTotals{}), "No logs yet")
}
