package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeOptions configures StripeGateway.
type StripeOptions struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	AppURL        string
}

// StripeGateway creates hosted checkout sessions and verifies webhooks.
type StripeGateway struct {
	api  *client.API
	opts StripeOptions
}

// NewStripeGateway builds a gateway. The API client is only initialised when a key is set.
func NewStripeGateway(opts StripeOptions) *StripeGateway {
	g := &StripeGateway{opts: opts}
	if opts.SecretKey != "" {
		g.api = &client.API{}
		g.api.Init(opts.SecretKey, nil)
	}
	return g
}

// CheckoutConfigured reports whether checkout sessions can be created.
func (g *StripeGateway) CheckoutConfigured() bool {
	return g.api != nil && g.opts.PriceID != ""
}

// WebhookConfigured reports whether webhook signatures can be checked.
func (g *StripeGateway) WebhookConfigured() bool {
	return g.opts.WebhookSecret != ""
}

// CheckoutURL opens a subscription checkout tagged with the user id.
func (g *StripeGateway) CheckoutURL(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(g.opts.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(g.opts.AppURL + "/dashboard?upgraded=true"),
		CancelURL:         stripe.String(g.opts.AppURL + "/upgrade"),
		ClientReferenceID: stripe.String(userID),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("user_id", userID)
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// ParseEvent verifies the Stripe-Signature header and extracts the fields billing needs.
// Event types other than the two handled ones are returned with only ID and Type set.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.opts.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{ID: evt.ID, Type: EventType(evt.Type)}
	switch out.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		out.UserID = sess.Metadata["user_id"]
		if out.UserID == "" {
			out.UserID = sess.ClientReferenceID
		}
		if sess.Customer != nil {
			out.CustomerID = sess.Customer.ID
		}
		out.Email = sess.CustomerEmail
		if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
			out.Email = sess.CustomerDetails.Email
		}
	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return Event{}, fmt.Errorf("decode subscription: %w", err)
		}
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
	}
	return out, nil
}
