package model

import "time"

// DayFields is one calendar date for one owner. At most one exists per
// (ownerKey, dayKey) pair; it is created lazily the first time any child
// record is saved for that date and never deleted.
//
// The child counts are derived live by aggregation at read time and are never
// persisted, so they cannot drift from the child tables.
type DayFields struct {
	OwnerKey     string     `json:"ownerKey"`
	DayKey       string     `json:"dayKey"`
	DayDate      string     `json:"dayDate"`
	WeightCount  int        `json:"weightCount"`
	SleepCount   int        `json:"sleepCount"`
	MealCount    int        `json:"mealCount"`
	WorkoutCount int        `json:"workoutCount"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

type Day = Record[DayFields]
