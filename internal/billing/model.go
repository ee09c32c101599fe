package billing

import "time"

// Status is a subscription lifecycle state.
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusExpired  Status = "expired"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

// Subscription is a user's paid plan state. There is at most one per user.
type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	UserEmail        string     `json:"userEmail"`
	Status           Status     `json:"status"`
	StripeCustomerID string     `json:"stripeCustomerId,omitempty"`
	TrialEnd         *time.Time `json:"trialEnd"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// IsActive reports whether the subscription grants access.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == StatusActive
}

// EventType is a provider event the service reacts to.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout.session.completed"
	EventSubscriptionDeleted EventType = "customer.subscription.deleted"
)

// Event is a verified provider webhook reduced to the fields billing uses.
type Event struct {
	ID         string
	Type       EventType
	UserID     string
	CustomerID string
	Email      string
}
