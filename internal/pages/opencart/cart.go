package opencart

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// EmptyTotal is reported for the totals of an empty cart
const EmptyTotal = "$0.00"

// Cart page locators
var (
	CartItems         = pages.CSS("#shopping-cart tbody tr")
	CartProductNames  = pages.CSS("#shopping-cart tbody tr td:nth-child(2) a")
	CartQuantities    = pages.CSS("#shopping-cart input[name*='quantity']")
	CartUnitPrices    = pages.CSS("#shopping-cart tbody tr td:nth-child(5)")
	CartRowTotals     = pages.CSS("#shopping-cart tbody tr td:nth-child(6)")
	CartRemoveButtons = pages.CSS("#shopping-cart button[type='submit'].btn-danger")
	CartUpdateButtons = pages.CSS("#shopping-cart button[type='submit'].btn-primary")
	CartSubtotal      = pages.CSS("#checkout-total tr:first-child td:last-child")
	CartTotal         = pages.CSS("#checkout-total tr:last-child td:last-child")
	CheckoutButton    = pages.LinkText("Checkout")
	ContinueShopping  = pages.LinkText("Continue Shopping")
	EmptyCartContinue = pages.LinkText("Continue")
	EmptyCartMessage  = pages.CSS("#content p")
	CouponInput       = pages.ID("input-coupon")
	ApplyCouponButton = pages.ID("button-coupon")
	EstimateShipping  = pages.CSS("#accordion .accordion-button")
	CartAlert         = pages.CSS("#alert .alert")
)

// CartSummary is a snapshot of the cart table and totals.
type CartSummary struct {
	ItemCount  int      `json:"item_count"`
	Products   []string `json:"products"`
	Quantities []int    `json:"quantities"`
	Subtotal   string   `json:"subtotal"`
	Total      string   `json:"total"`
}

// CartPage is the checkout/cart route.
type CartPage struct {
	*pages.BasePage
	url string
}

// NewCartPage binds the cart of the store at base to page.
func NewCartPage(page *rod.Page, base string, timeout time.Duration) *CartPage {
	return &CartPage{
		BasePage: pages.NewBasePage(page, timeout, "CartPage"),
		url:      RouteURL(base, "checkout/cart"),
	}
}

// OpenCartPage navigates straight to the cart route.
func (c *CartPage) OpenCartPage() error {
	if err := c.Open(c.url); err != nil {
		return err
	}
	return c.WaitForPageLoad()
}

// IsOnCartPage reports whether the URL is the cart route
func (c *CartPage) IsOnCartPage() bool {
	return containsFold(c.URL(), "checkout/cart")
}

// ItemCount counts the cart rows as rendered.
func (c *CartPage) ItemCount() int {
	return c.Count(CartItems)
}

// IsCartEmpty reports an empty cart, by notice text or by a missing table.
func (c *CartPage) IsCartEmpty() bool {
	if c.ItemCount() > 0 {
		return false
	}
	if c.IsElementPresent(EmptyCartMessage) {
		if text, err := c.Text(EmptyCartMessage); err == nil {
			if containsFold(text, "empty") || containsFold(text, "no products") {
				return true
			}
		}
	}
	return c.ItemCount() == 0
}

// ProductNames returns the product column, empty for an empty cart.
func (c *CartPage) ProductNames() ([]string, error) {
	if c.Count(CartProductNames) == 0 {
		return nil, nil
	}
	return c.Texts(CartProductNames)
}

// ProductQuantities reads every quantity input.
func (c *CartPage) ProductQuantities() ([]int, error) {
	if c.Count(CartQuantities) == 0 {
		return nil, nil
	}
	values, err := c.Attributes(CartQuantities, "value")
	if err != nil {
		return nil, err
	}

	quantities := make([]int, 0, len(values))
	for _, v := range values {
		q, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("quantity %q: %w", v, err)
		}
		quantities = append(quantities, q)
	}
	return quantities, nil
}

// UpdateQuantity sets the index-th row's quantity and presses its update
// button, then waits for the table to show the new value.
func (c *CartPage) UpdateQuantity(index, quantity int) error {
	inputs, err := c.FindElements(CartQuantities)
	if err != nil {
		return err
	}
	buttons, err := c.FindElements(CartUpdateButtons)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(inputs) || index >= len(buttons) {
		return fmt.Errorf("%w: cart row %d of %d", pages.ErrIndexOutOfRange, index, len(inputs))
	}

	if err := c.TypeInto(inputs[index], strconv.Itoa(quantity), true); err != nil {
		return err
	}
	if err := c.ClickElement(buttons[index]); err != nil {
		return err
	}

	updated := c.WaitUntil(func() bool {
		q, err := c.ProductQuantities()
		return err == nil && index < len(q) && q[index] == quantity
	}, 0)
	if !updated {
		return fmt.Errorf("%w: cart row %d never showed quantity %d", pages.ErrTimeout, index, quantity)
	}
	c.Logger().Info("Updated product quantity", zap.Int("index", index), zap.Int("quantity", quantity))
	return nil
}

// RemoveProduct removes the index-th row and waits for the table to shrink.
func (c *CartPage) RemoveProduct(index int) error {
	before := c.ItemCount()
	c.Logger().Info("Removing product", zap.Int("index", index))

	if err := c.ClickNth(CartRemoveButtons, index, false); err != nil {
		return err
	}
	if !c.WaitUntil(func() bool { return c.ItemCount() < before }, 0) {
		return fmt.Errorf("%w: cart still has %d rows after removal", pages.ErrTimeout, before)
	}
	return nil
}

// RemoveAllProducts removes rows until the cart is empty.
func (c *CartPage) RemoveAllProducts() error {
	for attempts := c.ItemCount(); !c.IsCartEmpty(); attempts-- {
		if attempts < 0 {
			return fmt.Errorf("cart still holds %d rows", c.ItemCount())
		}
		if err := c.RemoveProduct(0); err != nil {
			return err
		}
		if err := c.WaitForPageLoad(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CartPage) Subtotal() (string, error) { return c.Text(CartSubtotal) }
func (c *CartPage) Total() (string, error)    { return c.Text(CartTotal) }

// ProceedToCheckout follows the Checkout button
func (c *CartPage) ProceedToCheckout() error {
	c.Logger().Info("Proceeding to checkout")
	return c.ClickAndWaitForNavigation(CheckoutButton)
}

// ContinueShopping follows the Continue Shopping button, or the plain
// Continue button an empty cart shows instead.
func (c *CartPage) ContinueShopping() error {
	if c.IsElementPresent(ContinueShopping) {
		return c.ClickAndWaitForNavigation(ContinueShopping)
	}
	return c.ClickAndWaitForNavigation(EmptyCartContinue)
}

// ApplyCoupon submits a coupon code.
func (c *CartPage) ApplyCoupon(code string) error {
	if err := c.TypeText(CouponInput, code, true); err != nil {
		return err
	}
	return c.Click(ApplyCouponButton)
}

// AlertMessage waits briefly for the cart alert and returns its text.
func (c *CartPage) AlertMessage() (string, error) {
	if !c.IsElementVisible(CartAlert, alertWait) {
		return "", fmt.Errorf("%w: cart alert", pages.ErrTimeout)
	}
	return c.Text(CartAlert)
}

// IsProductInCart reports whether any row's name contains name, ignoring case.
func (c *CartPage) IsProductInCart(name string) bool {
	names, err := c.ProductNames()
	if err != nil {
		return false
	}
	for _, n := range names {
		if containsFold(n, name) {
			return true
		}
	}
	return false
}

// Summary collects counts, names, quantities and totals; totals read
// EmptyTotal when the cart is empty.
func (c *CartPage) Summary() (CartSummary, error) {
	s := CartSummary{
		ItemCount: c.ItemCount(),
		Subtotal:  EmptyTotal,
		Total:     EmptyTotal,
	}

	var err error
	if s.Products, err = c.ProductNames(); err != nil {
		return s, err
	}
	if s.Quantities, err = c.ProductQuantities(); err != nil {
		return s, err
	}
	if c.IsCartEmpty() {
		return s, nil
	}
	if s.Subtotal, err = c.Subtotal(); err != nil {
		return s, err
	}
	if s.Total, err = c.Total(); err != nil {
		return s, err
	}
	return s, nil
}
