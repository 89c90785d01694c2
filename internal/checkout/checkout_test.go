package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/backend"
	"bookshop/internal/cart"
	"bookshop/internal/checkout/mocks"
	"bookshop/internal/product"
	"bookshop/internal/session"
	"bookshop/internal/testutil"
)

func newCart(t *testing.T, items ...cart.LineItem) *cart.Cart {
	t.Helper()
	c := cart.New(testutil.NewStore(t))
	for _, it := range items {
		require.NoError(t, c.Add(it))
	}
	return c
}

func twoLines() []cart.LineItem {
	return []cart.LineItem{
		{ID: 1, Name: "Solaris", Price: "29.99", Format: product.FormatPhysical},
		{ID: 3, Name: "Łąka", Price: "19.90", Format: product.FormatEbook},
	}
}

func TestRun_EmptyCartNavigatesBackWithoutNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mocks.NewMockGateway(ctrl)
	nav := mocks.NewMockNavigator(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	// No gateway or token expectations: any backend call fails the test.
	nav.EXPECT().Navigate("/cart")

	flow := NewFlow(newCart(t), tokens, gw, nav, nil)
	assert.NoError(t, flow.Run(context.Background()))
}

func TestRun_MissingTokenRedirectsToLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mocks.NewMockGateway(ctrl)
	nav := mocks.NewMockNavigator(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	tokens.EXPECT().Token(gomock.Any()).Return("", session.ErrNotLoggedIn)
	nav.EXPECT().Navigate("/login")

	flow := NewFlow(newCart(t, twoLines()...), tokens, gw, nav, nil)
	err := flow.Run(context.Background())
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestRun_SyncsEveryLineAndNavigatesToSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mocks.NewMockGateway(ctrl)
	nav := mocks.NewMockNavigator(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	c := newCart(t, twoLines()...)
	// Second add of the same key bumps the quantity to 2.
	require.NoError(t, c.Add(twoLines()[0]))

	tokens.EXPECT().Token(gomock.Any()).Return("tok", nil)
	gw.EXPECT().AddToCart(gomock.Any(), "tok", 1, 2).Return(nil)
	gw.EXPECT().AddToCart(gomock.Any(), "tok", 3, 1).Return(nil)
	gw.EXPECT().CreateCheckoutSession(gomock.Any(), "tok").
		Return(&backend.CheckoutSession{URL: "https://pay.example.com/s/123"}, nil)
	nav.EXPECT().Navigate("https://pay.example.com/s/123")

	flow := NewFlow(c, tokens, gw, nav, nil)
	assert.NoError(t, flow.Run(context.Background()))
}

func TestRun_FailedLineIsSkippedNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mocks.NewMockGateway(ctrl)
	nav := mocks.NewMockNavigator(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	tokens.EXPECT().Token(gomock.Any()).Return("tok", nil)
	gw.EXPECT().AddToCart(gomock.Any(), "tok", 1, 1).Return(errors.New("boom"))
	gw.EXPECT().AddToCart(gomock.Any(), "tok", 3, 1).Return(nil)
	gw.EXPECT().CreateCheckoutSession(gomock.Any(), "tok").
		Return(&backend.CheckoutSession{CheckoutURL: "https://pay.example.com/s/legacy"}, nil)
	nav.EXPECT().Navigate("https://pay.example.com/s/legacy")

	flow := NewFlow(newCart(t, twoLines()...), tokens, gw, nav, nil)
	assert.NoError(t, flow.Run(context.Background()))
}

func TestRun_SessionFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mocks.NewMockGateway(ctrl)
	nav := mocks.NewMockNavigator(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	tokens.EXPECT().Token(gomock.Any()).Return("tok", nil)
	gw.EXPECT().AddToCart(gomock.Any(), "tok", gomock.Any(), gomock.Any()).Return(nil).Times(2)
	gw.EXPECT().CreateCheckoutSession(gomock.Any(), "tok").
		Return(nil, errors.New("backend down"))

	flow := NewFlow(newCart(t, twoLines()...), tokens, gw, nav, nil)
	assert.Error(t, flow.Run(context.Background()))
}

func TestRun_MissingSessionURLIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := mocks.NewMockGateway(ctrl)
	nav := mocks.NewMockNavigator(ctrl)
	tokens := mocks.NewMockTokenSource(ctrl)

	tokens.EXPECT().Token(gomock.Any()).Return("tok", nil)
	gw.EXPECT().AddToCart(gomock.Any(), "tok", gomock.Any(), gomock.Any()).Return(nil).Times(2)
	gw.EXPECT().CreateCheckoutSession(gomock.Any(), "tok").
		Return(&backend.CheckoutSession{}, nil)

	flow := NewFlow(newCart(t, twoLines()...), tokens, gw, nav, nil)
	err := flow.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoSessionURL)
}

func TestConfirmSuccessClearsCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := newCart(t, twoLines()...)
	flow := NewFlow(c, mocks.NewMockTokenSource(ctrl), mocks.NewMockGateway(ctrl), mocks.NewMockNavigator(ctrl), nil)

	require.NoError(t, flow.ConfirmSuccess())
	items, err := c.Items()
	require.NoError(t, err)
	assert.Empty(t, items)
}
