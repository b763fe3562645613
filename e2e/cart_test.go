//go:build e2e

package e2e

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ahrdadan/demo-e2e/internal/harness"
	"github.com/ahrdadan/demo-e2e/internal/pages/opencart"
)

type CartSuite struct {
	harness.Suite
}

func TestCart(t *testing.T) {
	suite.Run(t, new(CartSuite))
}

// addFromSearch adds the first result for term and waits for the store
// to confirm it.
func (s *CartSuite) addFromSearch(home *opencart.HomePage, term string) {
	s.Require().NoError(home.OpenHomePage())
	s.Require().NoError(home.SearchProduct(term))

	results := harness.SearchResults(s.T())
	s.Require().Positive(results.ProductCount(), term)
	s.Require().NoError(results.AddToCart(0))
	s.Require().True(results.IsSuccessMessageDisplayed(), term)
}

// filledCart adds the first result for each term and opens the cart.
func (s *CartSuite) filledCart(terms ...string) *opencart.CartPage {
	home := harness.OpenCartHome(s.T())
	for _, term := range terms {
		s.addFromSearch(home, term)
	}
	cart := harness.OpenCartCart(s.T())
	s.Require().False(cart.IsCartEmpty())
	return cart
}

func hasCurrency(s string) bool {
	return strings.ContainsAny(s, "$£€")
}

func (s *CartSuite) TestEmptyCartMessage() {
	s.Mark(harness.Smoke, harness.Cart)
	cart := harness.OpenCartCart(s.T())

	s.True(cart.IsOnCartPage())
	s.True(cart.IsCartEmpty())
	s.Zero(cart.ItemCount())
}

func (s *CartSuite) TestAddProductToCartFromHome() {
	s.Mark(harness.Smoke, harness.Cart)
	home := harness.OpenCartHome(s.T())
	s.Require().Positive(home.FeaturedProductsCount())

	s.Require().NoError(home.AddFeaturedProductToCart(0))
	s.Require().True(home.IsSuccessMessageDisplayed())

	msg, err := home.SuccessMessage()
	s.Require().NoError(err)
	s.Contains(strings.ToLower(msg), "cart")
}

func (s *CartSuite) TestAddProductToCartFromProductPage() {
	s.Mark(harness.Smoke, harness.Cart)
	s.Require().NoError(harness.OpenCartHome(s.T()).SearchProduct("MacBook"))
	results := harness.SearchResults(s.T())
	s.Require().Positive(results.ProductCount())
	s.Require().NoError(results.ClickProduct(0))

	product := harness.Product(s.T())
	name, err := product.ProductName()
	s.Require().NoError(err)
	s.NotEmpty(name)

	s.Require().NoError(product.AddToCart())
	s.True(product.IsSuccessMessageDisplayed())
}

func (s *CartSuite) TestAddMultipleProductsToCart() {
	s.Mark(harness.Regression, harness.Cart)
	products := harness.Products(s.T()).CartProducts()
	cart := s.filledCart(products...)

	s.Equal(len(products), cart.ItemCount())
	for _, p := range products {
		s.True(cart.IsProductInCart(p), p)
	}
}

func (s *CartSuite) TestUpdateProductQuantityInCart() {
	s.Mark(harness.Regression, harness.Cart)
	cart := s.filledCart("iPhone")

	before, err := cart.ProductQuantities()
	s.Require().NoError(err)
	s.Require().NotEmpty(before)

	s.Require().NoError(cart.UpdateQuantity(0, before[0]+1))
	s.Require().NoError(cart.WaitForPageLoad())

	after, err := cart.ProductQuantities()
	s.Require().NoError(err)
	s.Require().NotEmpty(after)
	s.Equal(before[0]+1, after[0])
}

func (s *CartSuite) TestRemoveProductFromCart() {
	s.Mark(harness.Regression, harness.Cart)
	cart := s.filledCart("iPhone")
	before := cart.ItemCount()

	s.Require().NoError(cart.RemoveProduct(0))
	s.Require().NoError(cart.WaitForPageLoad())

	s.True(cart.IsCartEmpty() || cart.ItemCount() < before)
}

func (s *CartSuite) TestCartTotalsDisplayed() {
	s.Mark(harness.Regression, harness.Cart)
	cart := s.filledCart("MacBook")

	subtotal, err := cart.Subtotal()
	s.Require().NoError(err)
	total, err := cart.Total()
	s.Require().NoError(err)

	s.True(hasCurrency(subtotal), subtotal)
	s.True(hasCurrency(total), total)
}

func (s *CartSuite) TestAddProductWithQuantity() {
	s.Mark(harness.Regression, harness.Cart)
	s.Require().NoError(harness.OpenCartHome(s.T()).SearchProduct("iPhone"))
	results := harness.SearchResults(s.T())
	s.Require().Positive(results.ProductCount())
	s.Require().NoError(results.ClickProduct(0))

	product := harness.Product(s.T())
	s.Require().NoError(product.AddToCartWithQuantity(3))
	s.True(product.IsSuccessMessageDisplayed())

	q, err := product.Quantity()
	s.Require().NoError(err)
	s.Equal(3, q)
}

func (s *CartSuite) TestContinueShoppingFromCart() {
	s.Mark(harness.Regression, harness.Cart)
	cart := harness.OpenCartCart(s.T())

	s.Require().NoError(cart.ContinueShopping())
	s.False(cart.IsOnCartPage())
	s.True(cart.IsElementVisible(opencart.HomeLogo, 0))
}

func (s *CartSuite) TestCartSummary() {
	s.Mark(harness.Regression, harness.Cart)
	cart := s.filledCart("Samsung")

	summary, err := cart.Summary()
	s.Require().NoError(err)
	s.Positive(summary.ItemCount)
	s.NotEmpty(summary.Products)
	s.NotEmpty(summary.Quantities)
	s.True(hasCurrency(summary.Total), summary.Total)
}

func (s *CartSuite) TestInvalidCouponRejected() {
	s.Mark(harness.Regression, harness.Cart)
	cart := s.filledCart("iPhone")

	s.Require().NoError(cart.ApplyCoupon("NOSUCHCOUPON"))
	msg, err := cart.AlertMessage()
	s.Require().NoError(err)
	s.Contains(strings.ToLower(msg), "coupon")
}
