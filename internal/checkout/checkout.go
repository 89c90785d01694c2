// Package checkout hands the local cart off to the payment provider:
// it syncs the cart to the backend, requests a hosted checkout
// session and navigates the user to it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bookshop/internal/backend"
	"bookshop/internal/cart"
	"bookshop/internal/session"
)

//go:generate mockgen -source=checkout.go -destination=mocks/mocks.go -package=mocks

// Gateway is the slice of the backend client the hand-off uses.
type Gateway interface {
	AddToCart(ctx context.Context, token string, productID, quantity int) error
	CreateCheckoutSession(ctx context.Context, token string) (*backend.CheckoutSession, error)
}

// Navigator abstracts moving the user to another page, either the
// payment provider's hosted URL or an internal path like /cart.
type Navigator interface {
	Navigate(url string)
}

// TokenSource yields the access token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ErrLoginRequired is returned when checkout is attempted without a
// stored access token. The user has already been sent to /login.
var ErrLoginRequired = errors.New("you must be logged in to check out")

// ErrNoSessionURL is returned when the backend answers without a
// hosted session URL. The attempt is over; the user retries manually.
var ErrNoSessionURL = errors.New("no payment session URL received")

// Flow runs the checkout hand-off.
type Flow struct {
	cart   *cart.Cart
	tokens TokenSource
	gw     Gateway
	nav    Navigator
	logger *log.Logger
}

func NewFlow(c *cart.Cart, tokens TokenSource, gw Gateway, nav Navigator, logger *log.Logger) *Flow {
	if logger == nil {
		logger = log.Default()
	}
	return &Flow{cart: c, tokens: tokens, gw: gw, nav: nav, logger: logger}
}

// Run performs one checkout attempt.
//
// An empty cart navigates back to /cart without touching the network.
// A missing token navigates to /login and returns ErrLoginRequired.
// Cart lines are synced best-effort: a failed line is logged and
// skipped, never aborting the attempt. Only a missing session URL or
// a failed session request is fatal, and then the user retries by
// running checkout again.
func (f *Flow) Run(ctx context.Context) error {
	items, err := f.cart.Items()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		f.nav.Navigate("/cart")
		return nil
	}

	token, err := f.tokens.Token(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			f.nav.Navigate("/login")
			return ErrLoginRequired
		}
		return err
	}

	for _, it := range items {
		if err := f.gw.AddToCart(ctx, token, it.ID, it.Quantity); err != nil {
			f.logger.Printf("checkout: failed to sync item %d to backend cart: %v", it.ID, err)
		}
	}

	sess, err := f.gw.CreateCheckoutSession(ctx, token)
	if err != nil {
		return fmt.Errorf("create checkout session: %w", err)
	}
	url := sess.RedirectURL()
	if url == "" {
		return ErrNoSessionURL
	}
	f.nav.Navigate(url)
	return nil
}

// ConfirmSuccess clears the local cart after the payment provider
// redirected back to the success page.
func (f *Flow) ConfirmSuccess() error {
	return f.cart.Clear()
}
