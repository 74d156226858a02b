package member

import (
	"time"

	"gymdesk/internal/membership"
)

// Member is a gym member row. Email and phone are stored as empty
// strings when absent; an empty email means the member cannot receive
// broadcasts. Plan name and price are snapshots taken at assignment
// time, not live joins.
type Member struct {
	ID               int        `db:"id" json:"id"`
	GymID            int        `db:"gym_id" json:"gym_id"`
	MemberCode       string     `db:"member_code" json:"member_code"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email,omitempty"`
	PhoneNumber      string     `db:"phone_number" json:"phone_number,omitempty"`
	Age              *int       `db:"age" json:"age,omitempty"`
	MembershipStatus string     `db:"membership_status" json:"membership_status"`
	JoinDate         time.Time  `db:"join_date" json:"join_date"`
	ExpiryDate       *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	PlanID           *int       `db:"plan_id" json:"plan_id,omitempty"`
	MembershipType   string     `db:"membership_type" json:"membership_type,omitempty"`
	PlanPriceCents   *int64     `db:"plan_price_cents" json:"plan_price_cents,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// EffectiveStatus derives the display status for this member at now.
func (m *Member) EffectiveStatus(now time.Time) membership.Status {
	return membership.EffectiveStatus(m.MembershipStatus, m.ExpiryDate, now)
}

type MemberWithStatus struct {
	Member
	EffectiveStatus membership.Status `json:"effective_status"`
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
	Age         *int   `json:"age" binding:"omitempty,min=1,max=120"`
	PlanID      int    `json:"plan_id" binding:"required"`
}

type ChangePlanRequest struct {
	PlanID int `json:"plan_id" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active expired"`
}
