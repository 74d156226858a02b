package gym

import "time"

type Gym struct {
	ID               int       `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Location         string    `db:"location" json:"location"`
	SessionTimeHours *int      `db:"session_time_hours" json:"session_time_hours,omitempty"`
	MaxCapacity      *int      `db:"max_capacity" json:"max_capacity,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Settings is the resolved per-gym configuration after fallbacks have
// been applied. Callers get concrete values, never nulls.
type Settings struct {
	SessionHours int `json:"session_hours"`
	MaxCapacity  int `json:"max_capacity"`
}

type CreateGymRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type UpdateSettingsRequest struct {
	SessionTimeHours *int `json:"session_time_hours" binding:"omitempty,min=1,max=24"`
	MaxCapacity      *int `json:"max_capacity" binding:"omitempty,min=1"`
}
