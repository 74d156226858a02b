package announcement

import (
	"time"

	"gymdesk/internal/broadcast"
)

type Announcement struct {
	ID        int       `db:"id" json:"id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PublishRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// PublishResponse pairs the stored announcement with the delivery
// accounting from the member fan-out.
type PublishResponse struct {
	Announcement *Announcement      `json:"announcement"`
	Delivery     *broadcast.Summary `json:"delivery"`
}
