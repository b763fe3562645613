package opencart

import (
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Home page locators
var (
	HomeSearchInput      = pages.CSS("#search input[name='search']")
	HomeSearchButton     = pages.CSS("#search button")
	MyAccountMenu        = pages.XPath(`//div[@id='top']//a[contains(@class, 'dropdown-toggle')][contains(normalize-space(.), 'My Account')]`)
	MenuLoginLink        = pages.XPath(`//ul[contains(@class, 'dropdown-menu')]//a[normalize-space(.)='Login']`)
	MenuRegisterLink     = pages.XPath(`//ul[contains(@class, 'dropdown-menu')]//a[normalize-space(.)='Register']`)
	FeaturedProducts     = pages.CSS("#content .product-thumb")
	FeaturedAddToCart    = pages.CSS("#content .product-thumb button[formaction*='cart.add']")
	HomeSuccessAlert     = pages.CSS("#alert .alert-success")
	HomeLogo             = pages.CSS("#logo")
	HomeShoppingCartLink = pages.CSS("#top a[title='Shopping Cart']")
)

// HomePage is the storefront landing page with the header search and menus.
type HomePage struct {
	*pages.BasePage
	url string
}

// NewHomePage binds the storefront at base to page.
func NewHomePage(page *rod.Page, base string, timeout time.Duration) *HomePage {
	return &HomePage{
		BasePage: pages.NewBasePage(page, timeout, "OpenCartHomePage"),
		url:      RouteURL(base, "common/home"),
	}
}

// OpenHomePage loads the landing page.
func (h *HomePage) OpenHomePage() error {
	if err := h.Open(h.url); err != nil {
		return err
	}
	if err := h.WaitForPageLoad(); err != nil {
		return err
	}
	h.Logger().Info("Opened OpenCart home page")
	return nil
}

// SearchProduct types term into the header search and clicks the button.
func (h *HomePage) SearchProduct(term string) error {
	h.Logger().Info("Searching for product", zap.String("term", term))
	if err := h.TypeText(HomeSearchInput, term, true); err != nil {
		return err
	}
	return h.ClickAndWaitForNavigation(HomeSearchButton)
}

// SearchProductWithEnter submits the header search with the Enter key.
func (h *HomePage) SearchProductWithEnter(term string) error {
	h.Logger().Info("Searching for product with Enter", zap.String("term", term))
	if err := h.TypeText(HomeSearchInput, term, true); err != nil {
		return err
	}
	return h.PressEnter(HomeSearchInput)
}

// GoToLogin opens the My Account menu and follows Login.
func (h *HomePage) GoToLogin() error {
	return h.followAccountMenu(MenuLoginLink)
}

// GoToRegister opens the My Account menu and follows Register.
func (h *HomePage) GoToRegister() error {
	return h.followAccountMenu(MenuRegisterLink)
}

func (h *HomePage) followAccountMenu(link pages.Locator) error {
	if err := h.Click(MyAccountMenu); err != nil {
		return err
	}
	return h.ClickAndWaitForNavigation(link)
}

// FeaturedProductsCount counts the product cards on the page.
func (h *HomePage) FeaturedProductsCount() int {
	return h.Count(FeaturedProducts)
}

// AddFeaturedProductToCart clicks the index-th card's add-to-cart button.
func (h *HomePage) AddFeaturedProductToCart(index int) error {
	h.Logger().Info("Adding featured product to cart", zap.Int("index", index))
	return h.ClickNth(FeaturedAddToCart, index, false)
}

// IsSuccessMessageDisplayed waits briefly for the success alert
func (h *HomePage) IsSuccessMessageDisplayed() bool {
	return h.IsElementVisible(HomeSuccessAlert, alertWait)
}

// SuccessMessage returns the success alert text
func (h *HomePage) SuccessMessage() (string, error) {
	return h.Text(HomeSuccessAlert)
}

// IsLogoDisplayed reports whether the store logo is visible
func (h *HomePage) IsLogoDisplayed() bool {
	return h.IsElementVisible(HomeLogo, 0)
}

// GoToCart follows the header Shopping Cart link
func (h *HomePage) GoToCart() error {
	return h.ClickAndWaitForNavigation(HomeShoppingCartLink)
}
