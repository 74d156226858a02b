package checkin

import (
	"time"

	"gymdesk/internal/membership"
)

// Session is one check-in. The checkout time is computed at creation
// from the gym's session length; there is no explicit checkout event.
// A session is active while check_out_time is in the future.
type Session struct {
	ID           int       `db:"id" json:"id"`
	MemberID     int       `db:"member_id" json:"member_id"`
	GymID        int       `db:"gym_id" json:"gym_id"`
	CheckInTime  time.Time `db:"check_in_time" json:"check_in_time"`
	CheckOutTime time.Time `db:"check_out_time" json:"check_out_time"`
}

type SessionWithMember struct {
	Session
	MemberCode string `db:"member_code" json:"member_code"`
	MemberName string `db:"member_name" json:"member_name"`
}

type CheckInRequest struct {
	MemberCode string `json:"member_code" binding:"required"`
}

type CheckInResponse struct {
	Session    *Session          `json:"session"`
	MemberName string            `json:"member_name"`
	Status     membership.Status `json:"membership_status"`
}

type Occupancy struct {
	GymID       int `json:"gym_id"`
	Current     int `json:"current"`
	MaxCapacity int `json:"max_capacity"`
}
