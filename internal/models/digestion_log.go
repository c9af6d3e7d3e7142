package models

import "time"

// Hydration labels
const (
	HydrationLow    = "low"
	HydrationNormal = "normal"
	HydrationGood   = "good"
)

// DigestionLog is one daily observation for a child. Logs are immutable once created.
type DigestionLog struct {
	ID             int64     `json:"id"`
	ChildID        int64     `json:"childId"`
	LogDate        string    `json:"logDate"`
	StoolType      *int      `json:"stoolType"`
	StoolFrequency *int      `json:"stoolFrequency"`
	Hydration      *string   `json:"hydration"`
	Notes          string    `json:"notes"`
	CreatedBy      *int64    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	Foods          []LogFood `json:"foodIntake"`
}

// LogFood is a food eaten on the logged day
type LogFood struct {
	ID       int64    `json:"id"`
	LogID    int64    `json:"logId"`
	FoodName string   `json:"foodName"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Calories *float64 `json:"calories"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
	Protein  *float64 `json:"protein"`
	Water    *float64 `json:"water"`
}
