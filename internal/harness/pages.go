package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ahrdadan/demo-e2e/internal/fixtures"
	"github.com/ahrdadan/demo-e2e/internal/pages/blazedemo"
	"github.com/ahrdadan/demo-e2e/internal/pages/opencart"
)

type loadTimeoutSetter interface {
	SetPageLoadTimeout(d time.Duration)
}

func tune(p loadTimeoutSetter) {
	p.SetPageLoadTimeout(Config().PageLoadTimeout)
}

// BlazeHome returns the BlazeDemo home page, already opened.
func BlazeHome(t testing.TB) *blazedemo.HomePage {
	t.Helper()
	c := Config()
	p := blazedemo.NewHomePage(Page(t), c.BlazeDemoURL, c.ExplicitWait)
	tune(p)
	require.NoError(t, p.OpenHomePage())
	return p
}

// BlazeFlights binds the reserve page to t's session
func BlazeFlights(t testing.TB) *blazedemo.FlightsPage {
	t.Helper()
	p := blazedemo.NewFlightsPage(Page(t), Config().ExplicitWait)
	tune(p)
	return p
}

// BlazePurchase binds the purchase page to t's session
func BlazePurchase(t testing.TB) *blazedemo.PurchasePage {
	t.Helper()
	p := blazedemo.NewPurchasePage(Page(t), Config().ExplicitWait)
	tune(p)
	return p
}

// BlazeConfirmation binds the confirmation page to t's session
func BlazeConfirmation(t testing.TB) *blazedemo.ConfirmationPage {
	t.Helper()
	p := blazedemo.NewConfirmationPage(Page(t), Config().ExplicitWait)
	tune(p)
	return p
}

// OpenCartHome returns the OpenCart home page, already opened.
func OpenCartHome(t testing.TB) *opencart.HomePage {
	t.Helper()
	c := Config()
	p := opencart.NewHomePage(Page(t), c.OpenCartURL, c.ExplicitWait)
	tune(p)
	require.NoError(t, p.OpenHomePage())
	return p
}

// OpenCartLogin returns the login page, already opened.
func OpenCartLogin(t testing.TB) *opencart.LoginPage {
	t.Helper()
	p := LoginPage(t)
	require.NoError(t, p.OpenLoginPage())
	return p
}

// LoginPage binds the login page without navigating
func LoginPage(t testing.TB) *opencart.LoginPage {
	t.Helper()
	c := Config()
	p := opencart.NewLoginPage(Page(t), c.OpenCartURL, c.ExplicitWait)
	tune(p)
	return p
}

// OpenCartRegister returns the registration page, already opened.
func OpenCartRegister(t testing.TB) *opencart.RegisterPage {
	t.Helper()
	p := RegisterPage(t)
	require.NoError(t, p.OpenRegisterPage())
	return p
}

// RegisterPage binds the registration page without navigating
func RegisterPage(t testing.TB) *opencart.RegisterPage {
	t.Helper()
	c := Config()
	p := opencart.NewRegisterPage(Page(t), c.OpenCartURL, c.ExplicitWait)
	tune(p)
	return p
}

// OpenCartCart returns the cart page, already opened.
func OpenCartCart(t testing.TB) *opencart.CartPage {
	t.Helper()
	p := CartPage(t)
	require.NoError(t, p.OpenCartPage())
	return p
}

// CartPage binds the cart page without navigating
func CartPage(t testing.TB) *opencart.CartPage {
	t.Helper()
	c := Config()
	p := opencart.NewCartPage(Page(t), c.OpenCartURL, c.ExplicitWait)
	tune(p)
	return p
}

// SearchResults binds the search results page to t's session
func SearchResults(t testing.TB) *opencart.SearchResultsPage {
	t.Helper()
	p := opencart.NewSearchResultsPage(Page(t), Config().ExplicitWait)
	tune(p)
	return p
}

// Product binds the product page to t's session
func Product(t testing.TB) *opencart.ProductPage {
	t.Helper()
	p := opencart.NewProductPage(Page(t), Config().ExplicitWait)
	tune(p)
	return p
}

// Bookings loads bookings.json
func Bookings(t testing.TB) fixtures.Bookings {
	t.Helper()
	b, err := fixtures.LoadBookings(Config().TestDataDir)
	require.NoError(t, err)
	return b
}

// Users loads users.json
func Users(t testing.TB) fixtures.Users {
	t.Helper()
	u, err := fixtures.LoadUsers(Config().TestDataDir)
	require.NoError(t, err)
	return u
}

// Products loads products.json
func Products(t testing.TB) fixtures.Products {
	t.Helper()
	p, err := fixtures.LoadProducts(Config().TestDataDir)
	require.NoError(t, err)
	return p
}
