package admin

import (
	"time"

	"resume-tailor/internal/billing"
)

// UserRow is one entry of the admin user listing.
type UserRow struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	FullName     string                `json:"fullName"`
	CreatedAt    time.Time             `json:"createdAt"`
	Subscription *billing.Subscription `json:"subscription"`
}

// SetSubscriptionRequest is the override body.
type SetSubscriptionRequest struct {
	TargetUserID string `json:"targetUserId"`
	NewStatus    string `json:"newStatus"`
}
