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

// Product page locators
var (
	ProductName         = pages.CSS("#content h1")
	ProductPrice        = pages.CSS(".price-new")
	ProductDescription  = pages.CSS("#tab-description")
	QuantityInput       = pages.ID("input-quantity")
	AddToCartButton     = pages.ID("button-cart")
	AddToWishlist       = pages.CSS("button[formaction*='wishlist']")
	AddToCompare        = pages.CSS("button[formaction*='compare']")
	ProductImages       = pages.CSS(".image-additional img")
	MainImage           = pages.CSS(".image-thumb img")
	ReviewsTab          = pages.CSS("a[href='#tab-review']")
	DescriptionTab      = pages.CSS("a[href='#tab-description']")
	SpecificationTab    = pages.CSS("a[href='#tab-specification']")
	BrandLink           = pages.CSS("#content ul.list-unstyled a")
	ProductSuccessAlert = pages.CSS(".alert-success")
	StockStatus         = pages.CSS("#content ul.list-unstyled li:last-child")
	ProductCode         = pages.CSS("#content ul.list-unstyled li:first-child")
	RatingStars         = pages.CSS(".rating .fa-stack")
)

// ProductPage is a single product's detail view.
type ProductPage struct {
	*pages.BasePage
}

// NewProductPage binds the product page to page
func NewProductPage(page *rod.Page, timeout time.Duration) *ProductPage {
	return &ProductPage{BasePage: pages.NewBasePage(page, timeout, "ProductPage")}
}

func (p *ProductPage) ProductName() (string, error)  { return p.Text(ProductName) }
func (p *ProductPage) ProductPrice() (string, error) { return p.Text(ProductPrice) }
func (p *ProductPage) StockStatus() (string, error)  { return p.Text(StockStatus) }
func (p *ProductPage) ProductCode() (string, error)  { return p.Text(ProductCode) }

// SetQuantity replaces the quantity field
func (p *ProductPage) SetQuantity(quantity int) error {
	return p.TypeText(QuantityInput, strconv.Itoa(quantity), true)
}

// Quantity reads the quantity field back.
func (p *ProductPage) Quantity() (int, error) {
	v, err := p.Attribute(QuantityInput, "value")
	if err != nil {
		return 0, err
	}
	q, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", v, err)
	}
	return q, nil
}

// AddToCart clicks the add-to-cart button.
func (p *ProductPage) AddToCart() error {
	name, _ := p.ProductName()
	p.Logger().Info("Adding product to cart", zap.String("product", name))
	return p.Click(AddToCartButton)
}

// AddToCartWithQuantity sets the quantity then adds to cart.
func (p *ProductPage) AddToCartWithQuantity(quantity int) error {
	if err := p.SetQuantity(quantity); err != nil {
		return err
	}
	return p.AddToCart()
}

func (p *ProductPage) AddToWishlist() error { return p.Click(AddToWishlist) }
func (p *ProductPage) AddToCompare() error  { return p.Click(AddToCompare) }

// IsSuccessMessageDisplayed waits briefly for the success alert
func (p *ProductPage) IsSuccessMessageDisplayed() bool {
	return p.IsElementVisible(ProductSuccessAlert, alertWait)
}

// SuccessMessage returns the success alert text
func (p *ProductPage) SuccessMessage() (string, error) {
	return p.Text(ProductSuccessAlert)
}

func (p *ProductPage) SwitchToReviewsTab() error       { return p.Click(ReviewsTab) }
func (p *ProductPage) SwitchToDescriptionTab() error   { return p.Click(DescriptionTab) }
func (p *ProductPage) SwitchToSpecificationTab() error { return p.Click(SpecificationTab) }

// IsInStock checks the availability line for "In Stock".
func (p *ProductPage) IsInStock() bool {
	status, err := p.StockStatus()
	return err == nil && containsFold(status, "in stock")
}

// ClickMainImage opens the enlarged image
func (p *ProductPage) ClickMainImage() error {
	return p.Click(MainImage)
}

// ImageCount counts the additional thumbnails
func (p *ProductPage) ImageCount() int {
	return p.Count(ProductImages)
}
