package demosite_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrdadan/demo-e2e/internal/demosite"
)

func setupTestServer(t *testing.T) *demosite.Server {
	t.Helper()
	s, err := demosite.New(demosite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Store().Stop() })
	return s
}

// client replays the session cookie like a browser would.
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func newClient(t *testing.T, s *demosite.Server) *client {
	return &client{t: t, app: s.App()}
}

func (c *client) do(method, target string, form url.Values) (*http.Response, string) {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == demosite.SessionCookie {
			c.cookie = ck
		}
	}

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(data)
}

// reply is the JSON answer of the store's form endpoints.
type reply struct {
	Redirect string            `json:"redirect"`
	Success  string            `json:"success"`
	Error    map[string]string `json:"error"`
}

func (c *client) json(target string, form url.Values) reply {
	c.t.Helper()
	resp, body := c.do("POST", target, form)
	require.Equal(c.t, fiber.StatusOK, resp.StatusCode, body)

	var out reply
	require.NoError(c.t, json.Unmarshal([]byte(body), &out), body)
	return out
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t)

	resp, body := newClient(t, s).do("GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result demosite.Response
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.True(t, result.Success)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok, body)
	assert.Equal(t, "ok", data["status"])
}

func TestRequestHeaders(t *testing.T) {
	s := setupTestServer(t)
	c := newClient(t, s)

	resp, _ := c.do("GET", "/health", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", resp.Header.Get("X-Request-ID"))
}

func TestBlazeDemoBookingFlow(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	resp, body := c.do("GET", "/blazedemo/", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome to the Simple Travel Agency!")
	assert.Contains(t, body, `<option value="Paris">Paris</option>`)

	_, body = c.do("POST", "/blazedemo/reserve.php", url.Values{"fromPort": {"Paris"}, "toPort": {"Berlin"}})
	assert.Contains(t, body, "Flights from Paris to Berlin")
	assert.Equal(t, 5, strings.Count(body, "Choose This Flight"))
	assert.Contains(t, body, "$200.98")

	_, body = c.do("POST", "/blazedemo/purchase.php", url.Values{
		"flight": {"9696"}, "price": {"200.98"}, "airline": {"Aer Lingus"},
		"fromPort": {"Paris"}, "toPort": {"Berlin"},
	})
	assert.Contains(t, body, "<p>Airline: Aer Lingus</p>")
	assert.Contains(t, body, "<p>Flight Number: 9696</p>")
	assert.Contains(t, body, "<p>Price: 200.98</p>")
	assert.Contains(t, body, "715.74")

	_, body = c.do("POST", "/blazedemo/confirmation.php", url.Values{
		"total": {"715.74"}, "inputName": {"John Doe"},
		"creditCardNumber": {"4111111111111111"}, "creditCardMonth": {"12"}, "creditCardYear": {"2027"},
	})
	assert.Contains(t, body, "Thank you for your purchase today!")
	assert.Contains(t, body, "PendingCapture")
	assert.Contains(t, body, "715.74 USD")
	assert.Contains(t, body, "xxxxxxxxxxxx1111")
	assert.Contains(t, body, "12 /2027")
}

func TestBlazeDemoPurchaseRejectsBadPrice(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	resp, body := c.do("POST", "/blazedemo/purchase.php", url.Values{"price": {"abc"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result demosite.Response
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "invalid price", result.Error)
}

func TestOpenCartSessionCookie(t *testing.T) {
	s := setupTestServer(t)
	c := newClient(t, s)

	c.do("GET", "/opencart/", nil)
	require.NotNil(t, c.cookie)
	first := c.cookie.Value

	c.do("GET", "/opencart/index.php?route=checkout/cart", nil)
	assert.Equal(t, first, c.cookie.Value)

	sessions, accounts := s.Store().Stats()
	assert.Equal(t, 1, sessions)
	assert.Equal(t, 1, accounts)
}

func TestOpenCartHome(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	_, body := c.do("GET", "/opencart/index.php?route=common/home", nil)
	assert.Equal(t, 4, strings.Count(body, `class="product-thumb"`))
	assert.Contains(t, body, `id="logo"`)
	assert.Contains(t, body, `title="Shopping Cart"`)
}

func TestOpenCartLogin(t *testing.T) {
	c := newClient(t, setupTestServer(t))
	c.do("GET", "/opencart/?route=account/login", nil)

	out := c.json("/opencart/index.php?route=account/login.login", url.Values{"email": {"nobody@example.com"}, "password": {"nope"}})
	assert.Equal(t, "Warning: No match for E-Mail Address and/or Password.", out.Error["warning"])

	out = c.json("/opencart/index.php?route=account/login.login", url.Values{"email": {""}, "password": {""}})
	assert.NotEmpty(t, out.Error)

	out = c.json("/opencart/index.php?route=account/login.login", url.Values{"email": {"Demo@Example.com"}, "password": {"demo123"}})
	assert.Equal(t, "index.php?route=account/account", out.Redirect)

	_, body := c.do("GET", "/opencart/index.php?route=account/account", nil)
	assert.Contains(t, body, "Welcome back Demo User")
}

func TestOpenCartLoginLockout(t *testing.T) {
	s, err := demosite.New(demosite.Options{LoginAttempts: 2})
	require.NoError(t, err)
	t.Cleanup(func() { s.Store().Stop() })
	c := newClient(t, s)
	c.do("GET", "/opencart/?route=account/login", nil)
	target := "/opencart/index.php?route=account/login.login"

	for i := 0; i < 2; i++ {
		out := c.json(target, url.Values{"email": {"demo@example.com"}, "password": {"wrong"}})
		assert.Equal(t, "Warning: No match for E-Mail Address and/or Password.", out.Error["warning"])
	}

	out := c.json(target, url.Values{"email": {"DEMO@example.com"}, "password": {"demo123"}})
	assert.Contains(t, out.Error["warning"], "exceeded allowed number of login attempts")
	assert.Empty(t, out.Redirect)
}

func TestOpenCartLockoutSurvivesOtherRequests(t *testing.T) {
	s, err := demosite.New(demosite.Options{LoginAttempts: 2})
	require.NoError(t, err)
	t.Cleanup(func() { s.Store().Stop() })
	c := newClient(t, s)
	c.do("GET", "/opencart/?route=account/login", nil)
	target := "/opencart/index.php?route=account/login.login"

	for i := 0; i < 2; i++ {
		c.json(target, url.Values{"email": {"demo@example.com"}, "password": {"wrong"}})
		c.json("/opencart/index.php?route=checkout/cart.add", url.Values{"product_id": {"40"}, "quantity": {"1"}})
	}

	out := c.json(target, url.Values{"email": {"demo@example.com"}, "password": {"demo123"}})
	assert.Contains(t, out.Error["warning"], "exceeded allowed number of login attempts")
}

func TestOpenCartRegisteredAccountPersists(t *testing.T) {
	s := setupTestServer(t)
	c := newClient(t, s)
	c.do("GET", "/opencart/?route=account/register", nil)

	out := c.json("/opencart/index.php?route=account/register.register", url.Values{
		"firstname": {"ann"}, "lastname": {"lee"}, "email": {"ann.lee@example.com"},
		"password": {"pass1234"}, "agree": {"1"},
	})
	require.Equal(t, "index.php?route=account/success", out.Redirect)

	c.json("/opencart/index.php?route=extension/opencart/total/coupon.save", url.Values{"coupon": {"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"}})
	c.json("/opencart/index.php?route=checkout/cart.add", url.Values{"product_id": {"40"}, "quantity": {"1"}})

	other := newClient(t, s)
	other.do("GET", "/opencart/?route=account/login", nil)
	out = other.json("/opencart/index.php?route=account/login.login", url.Values{"email": {"ann.lee@example.com"}, "password": {"pass1234"}})
	assert.Equal(t, "index.php?route=account/account", out.Redirect)

	_, body := other.do("GET", "/opencart/index.php?route=account/account", nil)
	assert.Contains(t, body, "ann lee")
}

func TestOpenCartAccountRequiresLogin(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	resp, _ := c.do("GET", "/opencart/index.php?route=account/account", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "account/login")
}

func TestOpenCartRegister(t *testing.T) {
	c := newClient(t, setupTestServer(t))
	c.do("GET", "/opencart/?route=account/register", nil)
	target := "/opencart/index.php?route=account/register.register"

	valid := url.Values{
		"firstname": {"Jane"}, "lastname": {"Roe"}, "email": {"jane.roe@example.com"},
		"password": {"secret12"}, "newsletter": {"1"},
	}

	out := c.json(target, valid)
	errs := out.Error
	assert.Equal(t, "Warning: You must agree to the Privacy Policy!", errs["warning"])

	out = c.json(target, url.Values{"agree": {"1"}, "email": {"invalidemail"}, "password": {"123"}})
	errs = out.Error
	assert.Contains(t, errs, "firstname")
	assert.Contains(t, errs, "lastname")
	assert.Equal(t, "E-Mail Address does not appear to be valid!", errs["email"])
	assert.Equal(t, "Password must be between 4 and 20 characters!", errs["password"])
	assert.NotContains(t, errs, "warning")

	valid.Set("agree", "1")
	out = c.json(target, valid)
	assert.Equal(t, "index.php?route=account/success", out.Redirect)

	_, body := c.do("GET", "/opencart/index.php?route=account/success", nil)
	assert.Contains(t, body, "Your Account Has Been Created!")

	out = c.json(target, valid)
	assert.Equal(t, "Warning: E-Mail Address is already registered!", out.Error["warning"])
}

func TestOpenCartSearch(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	_, body := c.do("GET", "/opencart/?route=product/search&search=macbook", nil)
	assert.Equal(t, 3, strings.Count(body, `class="product-thumb"`))
	assert.Contains(t, body, "MacBook Air")
	assert.Contains(t, body, `id="input-sort"`)

	_, body = c.do("GET", "/opencart/?route=product/search&search=xyznonexistent123456", nil)
	assert.Contains(t, body, "There is no product that matches the search criteria.")
	assert.NotContains(t, body, `id="product-list"`)

	_, body = c.do("GET", "/opencart/?route=product/search&search=", nil)
	assert.Contains(t, body, "There is no product that matches the search criteria.")

	_, body = c.do("GET", "/opencart/?route=product/search&search=mac&sort=p.price-DESC", nil)
	assert.Less(t, strings.Index(body, ">MacBook Pro<"), strings.Index(body, ">MacBook Air<"))
	assert.Less(t, strings.Index(body, ">MacBook Air<"), strings.Index(body, ">MacBook<"))

	_, body = c.do("GET", "/opencart/?route=product/search&search=a&limit=2", nil)
	assert.Equal(t, 2, strings.Count(body, `class="product-thumb"`))
	assert.Contains(t, body, `class="pagination"`)
}

func TestOpenCartSearchPageOutOfRange(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	for _, page := range []string{"99", "4611686018427387905"} {
		resp, body := c.do("GET", "/opencart/?route=product/search&search=a&limit=10&page="+page, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, page)
		assert.NotContains(t, body, `class="product-thumb"`, page)
	}

	resp, body := c.do("GET", "/opencart/?route=product/search&search=a&limit=9223372036854775807", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `class="product-thumb"`)
}

func TestOpenCartProduct(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	_, body := c.do("GET", "/opencart/index.php?route=product/product&product_id=40", nil)
	assert.Contains(t, body, "<h1>iPhone</h1>")
	assert.Contains(t, body, "Product Code: product 11")
	assert.Contains(t, body, "Availability: In Stock")
	assert.Contains(t, body, `<span class="price-new">$123.20</span>`)

	resp, _ := c.do("GET", "/opencart/index.php?route=product/product&product_id=999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestOpenCartCart(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	_, body := c.do("GET", "/opencart/index.php?route=checkout/cart", nil)
	assert.Contains(t, body, "Your shopping cart is empty!")

	out := c.json("/opencart/index.php?route=checkout/cart.add", url.Values{"product_id": {"43"}, "quantity": {"2"}})
	assert.Contains(t, out.Success, "shopping cart")
	c.json("/opencart/index.php?route=checkout/cart.add", url.Values{"product_id": {"43"}})

	out = c.json("/opencart/index.php?route=checkout/cart.add", url.Values{"product_id": {"12345"}})
	assert.NotEmpty(t, out.Error)

	_, body = c.do("GET", "/opencart/index.php?route=checkout/cart", nil)
	assert.Contains(t, body, `id="shopping-cart"`)
	assert.Contains(t, body, `name="quantity" value="3"`)
	assert.Contains(t, body, "$1,806.00")

	key := between(body, `name="key" value="`, `"`)
	require.NotEmpty(t, key)

	out = c.json("/opencart/index.php?route=checkout/cart.edit", url.Values{"key": {key}, "quantity": {"1"}})
	assert.Equal(t, "Success: You have modified your shopping cart!", out.Success)

	_, body = c.do("GET", "/opencart/index.php?route=checkout/cart", nil)
	assert.Contains(t, body, `name="quantity" value="1"`)

	c.json("/opencart/index.php?route=checkout/cart.remove", url.Values{"key": {key}})
	_, body = c.do("GET", "/opencart/index.php?route=checkout/cart", nil)
	assert.Contains(t, body, "Your shopping cart is empty!")
}

func TestOpenCartCheckoutRedirectsWhenEmpty(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	resp, _ := c.do("GET", "/opencart/index.php?route=checkout/checkout", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "checkout/cart")
}

func TestOpenCartCoupon(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	out := c.json("/opencart/index.php?route=extension/opencart/total/coupon.save", url.Values{"coupon": {"SAVE10"}})
	assert.Contains(t, out.Error["warning"], "Coupon is either invalid")
}

func TestOpenCartUnknownRoute(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	resp, body := c.do("GET", "/opencart/index.php?route=does/not.exist", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "The page you requested cannot be found!")
}

func TestOpenCartImages(t *testing.T) {
	c := newClient(t, setupTestServer(t))

	resp, body := c.do("GET", "/opencart/image/43-2.svg", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "MacBook")

	resp, _ = c.do("GET", "/opencart/image/logo.svg", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = c.do("GET", "/opencart/image/nothing.svg", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	s = s[i+len(start):]
	j := strings.Index(s, end)
	if j < 0 {
		return ""
	}
	return s[:j]
}
