package demosite

import (
	"fmt"
	"html/template"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionCookie carries the storefront session id
const SessionCookie = "OCSESSID"

// Storefront messages, worded as the live store words them
const (
	msgLoginMismatch   = "Warning: No match for E-Mail Address and/or Password."
	msgLoginLocked     = "Warning: Your account has exceeded allowed number of login attempts. Please try again in 1 hour."
	msgAgreePolicy     = "Warning: You must agree to the Privacy Policy!"
	msgEmailRegistered = "Warning: E-Mail Address is already registered!"
	msgFirstName       = "First Name must be between 1 and 32 characters!"
	msgLastName        = "Last Name must be between 1 and 32 characters!"
	msgEmailInvalid    = "E-Mail Address does not appear to be valid!"
	msgPassword        = "Password must be between 4 and 20 characters!"
	msgNoResults       = "There is no product that matches the search criteria."
	msgCartEmpty       = "Your shopping cart is empty!"
	msgCartModified    = "Success: You have modified your shopping cart!"
	msgCouponEmpty     = "Warning: Please enter a coupon code!"
	msgCouponInvalid   = "Warning: Coupon is either invalid, expired or reached its usage limit!"
	msgProductMissing  = "Warning: Product not found!"
)

const defaultSearchLimit = 10

type header struct {
	Title     string
	LoggedIn  bool
	CartCount int
	CartTotal string
}

type ocPage struct {
	header
	Data any
}

type ocHomeView struct {
	Featured []Product
}

type ocSearchView struct {
	Search      string
	Description bool
	Sort        string
	Limit       int
	Products    []Product
	SortOptions []selectOption
	Limits      []selectOption
	Pages       []pageLink
	Total       int
}

type selectOption struct {
	Label    string
	URL      string
	Selected bool
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type cartLine struct {
	Key      string
	Product  Product
	Quantity int
	Total    int
}

type ocCartView struct {
	Lines    []cartLine
	SubTotal int
	Total    int
}

// sessionMiddleware resolves the OCSESSID cookie to a live session.
func (s *Server) sessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, created := s.store.Session(c.Cookies(SessionCookie))
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals("session", sess)
		return c.Next()
	}
}

func session(c *fiber.Ctx) *Session {
	sess, _ := c.Locals("session").(*Session)
	return sess
}

// openCartDispatch routes on the route query parameter like index.php does.
func (s *Server) openCartDispatch(c *fiber.Ctx) error {
	route := c.Query("route", "common/home")
	// 3.x style separators are accepted as well.
	route = strings.ReplaceAll(route, "|", ".")

	handlers := map[string]fiber.Handler{
		"common/home":                          s.ocHome,
		"account/login":                        s.ocLoginPage,
		"account/login.login":                  s.ocLogin,
		"account/logout":                       s.ocLogout,
		"account/register":                     s.ocRegisterPage,
		"account/register.register":            s.ocRegister,
		"account/success":                      s.ocSimple("Your Account Has Been Created!", "oc-success"),
		"account/forgotten":                    s.ocSimple("Forgot Your Password?", "oc-forgotten"),
		"account/account":                      s.ocAccount,
		"account/wishlist.add":                 s.ocWishlistAdd,
		"product/compare.add":                  s.ocCompareAdd,
		"product/search":                       s.ocSearch,
		"product/product":                      s.ocProduct,
		"checkout/cart":                        s.ocCart,
		"checkout/cart.add":                    s.ocCartAdd,
		"checkout/cart.edit":                   s.ocCartEdit,
		"checkout/cart.remove":                 s.ocCartRemove,
		"checkout/checkout":                    s.ocCheckout,
		"extension/opencart/total/coupon.save": s.ocCouponSave,
	}

	h, ok := handlers[route]
	if !ok {
		c.Status(fiber.StatusNotFound)
		return s.renderOC(c, "Page Not Found!", "oc-notfound", nil)
	}
	return h(c)
}

func (s *Server) headerFor(c *fiber.Ctx, title string) header {
	sess := session(c)
	h := header{Title: title, CartTotal: money(0)}
	if sess == nil {
		return h
	}
	view := cartView(sess)
	for _, l := range view.Lines {
		h.CartCount += l.Quantity
	}
	h.CartTotal = money(view.Total)
	h.LoggedIn = sess.Customer != ""
	return h
}

func (s *Server) renderOC(c *fiber.Ctx, title, name string, data any) error {
	return s.render(c, name, ocPage{header: s.headerFor(c, title), Data: data})
}

func (s *Server) ocSimple(title, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return s.renderOC(c, title, name, nil)
	}
}

func (s *Server) ocHome(c *fiber.Ctx) error {
	return s.renderOC(c, "Your Store", "oc-home", ocHomeView{Featured: featuredProducts()})
}

func (s *Server) ocLoginPage(c *fiber.Ctx) error {
	if sess := session(c); sess != nil && sess.Customer != "" {
		return c.Redirect("index.php?route=account/account")
	}
	return s.renderOC(c, "Account Login", "oc-login", nil)
}

func (s *Server) ocLogin(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if email != "" && s.attempts.Locked(email) {
		return warning(c, msgLoginLocked)
	}
	if email == "" || password == "" || !s.store.Authenticate(email, password) {
		if email != "" {
			left := s.attempts.Fail(email)
			s.log.Debug("Login failed", zap.String("email", email), zap.Int("attempts_left", left))
		}
		return warning(c, msgLoginMismatch)
	}

	s.attempts.Reset(email)
	s.store.Login(session(c).ID, email)
	s.log.Info("Customer logged in", zap.String("email", email))
	return c.JSON(fiber.Map{"redirect": "index.php?route=account/account"})
}

func (s *Server) ocLogout(c *fiber.Ctx) error {
	s.store.Logout(session(c).ID)
	return c.Redirect("index.php?route=common/home")
}

func (s *Server) ocAccount(c *fiber.Ctx) error {
	sess := session(c)
	if sess.Customer == "" {
		return c.Redirect("index.php?route=account/login")
	}
	account, _ := s.store.Account(sess.Customer)
	return s.renderOC(c, "My Account", "oc-account", account)
}

func (s *Server) ocRegisterPage(c *fiber.Ctx) error {
	return s.renderOC(c, "Register Account", "oc-register", nil)
}

// validateRegistration returns the per-field errors of a registration form.
func validateRegistration(a Account) map[string]string {
	errs := map[string]string{}
	if n := len([]rune(strings.TrimSpace(a.FirstName))); n < 1 || n > 32 {
		errs["firstname"] = msgFirstName
	}
	if n := len([]rune(strings.TrimSpace(a.LastName))); n < 1 || n > 32 {
		errs["lastname"] = msgLastName
	}
	if addr, err := mail.ParseAddress(a.Email); err != nil || addr.Address != a.Email || !strings.Contains(a.Email[strings.LastIndex(a.Email, "@"):], ".") {
		errs["email"] = msgEmailInvalid
	}
	if n := len([]rune(a.Password)); n < 4 || n > 20 {
		errs["password"] = msgPassword
	}
	return errs
}

func (s *Server) ocRegister(c *fiber.Ctx) error {
	account := Account{
		FirstName:  c.FormValue("firstname"),
		LastName:   c.FormValue("lastname"),
		Email:      strings.TrimSpace(c.FormValue("email")),
		Password:   c.FormValue("password"),
		Newsletter: c.FormValue("newsletter") == "1",
	}

	errs := validateRegistration(account)
	if c.FormValue("agree") != "1" {
		errs["warning"] = msgAgreePolicy
	}
	if len(errs) > 0 {
		return c.JSON(fiber.Map{"error": errs})
	}

	if !s.store.Register(account) {
		return warning(c, msgEmailRegistered)
	}

	s.store.Login(session(c).ID, account.Email)
	s.log.Info("Customer registered", zap.String("email", account.Email), zap.Bool("newsletter", account.Newsletter))
	return c.JSON(fiber.Map{"redirect": "index.php?route=account/success"})
}

func (s *Server) ocSearch(c *fiber.Ctx) error {
	term := c.Query("search")
	inDescription := c.Query("description") == "true"
	sortKey := c.Query("sort", sortOptions[0].Value)

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultSearchLimit
	}
	if maxLimit := limitOptions[len(limitOptions)-1]; limit > maxLimit {
		limit = maxLimit
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	results := searchCatalog(term, inDescription, sortKey)
	view := ocSearchView{
		Search:      term,
		Description: inDescription,
		Sort:        sortKey,
		Limit:       limit,
		Total:       len(results),
	}

	link := func(sortKey string, limit, page int) string {
		q := url.Values{}
		q.Set("route", "product/search")
		q.Set("search", term)
		if inDescription {
			q.Set("description", "true")
		}
		q.Set("sort", sortKey)
		q.Set("limit", strconv.Itoa(limit))
		if page > 1 {
			q.Set("page", strconv.Itoa(page))
		}
		return "index.php?" + q.Encode()
	}

	for _, o := range sortOptions {
		view.SortOptions = append(view.SortOptions, selectOption{Label: o.Label, URL: link(o.Value, limit, 1), Selected: o.Value == sortKey})
	}
	for _, l := range limitOptions {
		view.Limits = append(view.Limits, selectOption{Label: strconv.Itoa(l), URL: link(sortKey, l, 1), Selected: l == limit})
	}

	pages := (len(results) + limit - 1) / limit
	if pages > 1 {
		for p := 1; p <= pages; p++ {
			view.Pages = append(view.Pages, pageLink{Number: p, URL: link(sortKey, limit, p), Current: p == page})
		}
	}

	if page <= pages {
		start := (page - 1) * limit
		end := start + limit
		if end > len(results) {
			end = len(results)
		}
		view.Products = results[start:end]
	}

	title := "Search"
	if term != "" {
		title = "Search - " + term
	}
	return s.renderOC(c, title, "oc-search", view)
}

func (s *Server) ocProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Query("product_id"))
	p, ok := productByID(id)
	if !ok {
		c.Status(fiber.StatusNotFound)
		return s.renderOC(c, "Product not found!", "oc-notfound", nil)
	}
	return s.renderOC(c, p.Name, "oc-product", p)
}

func (s *Server) ocCart(c *fiber.Ctx) error {
	return s.renderOC(c, "Shopping Cart", "oc-cart", cartView(session(c)))
}

func (s *Server) ocCheckout(c *fiber.Ctx) error {
	view := cartView(session(c))
	if len(view.Lines) == 0 {
		return c.Redirect("index.php?route=checkout/cart")
	}
	return s.renderOC(c, "Checkout", "oc-checkout", view)
}

func cartView(sess *Session) ocCartView {
	var view ocCartView
	if sess == nil {
		return view
	}
	for _, item := range sess.Cart {
		p, ok := productByID(item.ProductID)
		if !ok {
			continue
		}
		line := cartLine{Key: item.Key, Product: p, Quantity: item.Quantity, Total: p.Price * item.Quantity}
		view.Lines = append(view.Lines, line)
		view.SubTotal += line.Total
	}
	view.Total = view.SubTotal
	return view
}

func (s *Server) ocCartAdd(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.FormValue("product_id"))
	p, ok := productByID(id)
	if !ok {
		return warning(c, msgProductMissing)
	}
	quantity, err := strconv.Atoi(c.FormValue("quantity", "1"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	s.store.AddToCart(session(c).ID, p.ID, quantity)
	s.log.Debug("Added to cart", zap.Int("product_id", p.ID), zap.Int("quantity", quantity))

	return c.JSON(fiber.Map{"success": fmt.Sprintf(
		`Success: You have added <a href="%s">%s</a> to your <a href="index.php?route=checkout/cart">shopping cart</a>!`,
		productURL(p.ID), template.HTMLEscapeString(p.Name))})
}

func (s *Server) ocCartEdit(c *fiber.Ctx) error {
	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		return warning(c, "Warning: Quantity must be a number!")
	}
	if !s.store.SetQuantity(session(c).ID, c.FormValue("key"), quantity) {
		return warning(c, msgProductMissing)
	}
	return c.JSON(fiber.Map{"success": msgCartModified})
}

func (s *Server) ocCartRemove(c *fiber.Ctx) error {
	if !s.store.RemoveFromCart(session(c).ID, c.FormValue("key")) {
		return warning(c, msgProductMissing)
	}
	return c.JSON(fiber.Map{"success": msgCartModified})
}

func (s *Server) ocCouponSave(c *fiber.Ctx) error {
	if strings.TrimSpace(c.FormValue("coupon")) == "" {
		return warning(c, msgCouponEmpty)
	}
	return warning(c, msgCouponInvalid)
}

func (s *Server) ocWishlistAdd(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.FormValue("product_id"))
	p, ok := productByID(id)
	if !ok {
		return warning(c, msgProductMissing)
	}
	name := template.HTMLEscapeString(p.Name)
	if session(c).Customer == "" {
		return c.JSON(fiber.Map{"success": fmt.Sprintf(
			`You must <a href="index.php?route=account/login">login</a> or <a href="index.php?route=account/register">create an account</a> to save <a href="%s">%s</a> to your <a href="index.php?route=account/wishlist">wish list</a>!`,
			productURL(p.ID), name)})
	}
	return c.JSON(fiber.Map{"success": fmt.Sprintf(
		`Success: You have added <a href="%s">%s</a> to your <a href="index.php?route=account/wishlist">wish list</a>!`,
		productURL(p.ID), name)})
}

func (s *Server) ocCompareAdd(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.FormValue("product_id"))
	p, ok := productByID(id)
	if !ok {
		return warning(c, msgProductMissing)
	}
	return c.JSON(fiber.Map{"success": fmt.Sprintf(
		`Success: You have added <a href="%s">%s</a> to your <a href="index.php?route=product/compare">product comparison</a>!`,
		productURL(p.ID), template.HTMLEscapeString(p.Name))})
}

func productURL(id int) string {
	return "index.php?route=product/product&amp;product_id=" + strconv.Itoa(id)
}

func warning(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"error": fiber.Map{"warning": msg}})
}

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="228" height="228" viewBox="0 0 228 228">` +
	`<rect width="228" height="228" fill="#e9ecef"/>` +
	`<text x="114" y="120" font-family="Arial" font-size="16" text-anchor="middle" fill="#6c757d">%s</text></svg>`

// ocImage serves a placeholder for every catalog image and the logo.
func (s *Server) ocImage(c *fiber.Ctx) error {
	name := strings.TrimSuffix(c.Params("name"), ".svg")
	label := "Your Store"
	if id, err := strconv.Atoi(strings.SplitN(name, "-", 2)[0]); err == nil {
		p, ok := productByID(id)
		if !ok {
			return fiber.ErrNotFound
		}
		label = p.Name
	} else if name != "logo" {
		return fiber.ErrNotFound
	}

	c.Set(fiber.HeaderContentType, "image/svg+xml")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.SendString(fmt.Sprintf(placeholderSVG, template.HTMLEscapeString(label)))
}
