package opencart

import (
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Search results locators
var (
	ResultsSearchInput    = pages.ID("input-search")
	ResultsSearchButton   = pages.ID("button-search")
	SearchInDescription   = pages.ID("input-description")
	CategoryDropdown      = pages.Name("category_id")
	SearchSubcategories   = pages.Name("sub_category")
	ResultsProductItems   = pages.CSS("#product-list .product-thumb")
	ResultsProductNames   = pages.CSS("#product-list .product-thumb .description h4 a")
	ResultsProductPrices  = pages.CSS("#product-list .product-thumb .price")
	ResultsAddToCart      = pages.CSS("#product-list button[formaction*='cart.add']")
	ResultsAddToWishlist  = pages.CSS("#product-list button[formaction*='wishlist']")
	ResultsCompareButtons = pages.CSS("#product-list button[formaction*='compare']")
	NoResultsMessage      = pages.CSS("#content p")
	SortDropdown          = pages.ID("input-sort")
	ShowDropdown          = pages.ID("input-limit")
	ListViewButton        = pages.ID("button-list")
	GridViewButton        = pages.ID("button-grid")
	Pagination            = pages.CSS(".pagination")
	Breadcrumb            = pages.CSS(".breadcrumb")
	ResultsSuccessAlert   = pages.CSS("#alert .alert-success")
	ListViewProductLayout = pages.CSS("#product-list .product-list")
	GridViewProductLayout = pages.CSS("#product-list .product-grid")
)

// SearchResultsPage is the product/search route.
type SearchResultsPage struct {
	*pages.BasePage
}

// NewSearchResultsPage binds the search results page to page
func NewSearchResultsPage(page *rod.Page, timeout time.Duration) *SearchResultsPage {
	return &SearchResultsPage{BasePage: pages.NewBasePage(page, timeout, "SearchResultsPage")}
}

// IsOnSearchPage reports whether the URL is the search route
func (s *SearchResultsPage) IsOnSearchPage() bool {
	return containsFold(s.URL(), "search")
}

// ProductCount counts result cards as rendered.
func (s *SearchResultsPage) ProductCount() int {
	return s.Count(ResultsProductItems)
}

// ProductNames returns the result titles, empty when nothing matched.
func (s *SearchResultsPage) ProductNames() ([]string, error) {
	if s.Count(ResultsProductNames) == 0 {
		return nil, nil
	}
	return s.Texts(ResultsProductNames)
}

// ProductPrices returns the price blocks of each result.
func (s *SearchResultsPage) ProductPrices() ([]string, error) {
	if s.Count(ResultsProductPrices) == 0 {
		return nil, nil
	}
	return s.Texts(ResultsProductPrices)
}

// ClickProduct opens the index-th result's product page.
func (s *SearchResultsPage) ClickProduct(index int) error {
	s.Logger().Info("Clicking product", zap.Int("index", index))
	return s.ClickNth(ResultsProductNames, index, true)
}

// ClickProductByName opens the first result whose title contains name,
// ignoring case. It reports false when nothing matched.
func (s *SearchResultsPage) ClickProductByName(name string) (bool, error) {
	names, err := s.ProductNames()
	if err != nil {
		return false, err
	}
	for i, n := range names {
		if containsFold(n, name) {
			s.Logger().Info("Clicking product", zap.String("name", n))
			return true, s.ClickNth(ResultsProductNames, i, true)
		}
	}
	return false, nil
}

// AddToCart clicks the index-th result's add-to-cart button.
func (s *SearchResultsPage) AddToCart(index int) error {
	if err := s.ClickNth(ResultsAddToCart, index, false); err != nil {
		return err
	}
	s.Logger().Info("Added product to cart", zap.Int("index", index))
	return nil
}

// AddToWishlist clicks the index-th result's wishlist button
func (s *SearchResultsPage) AddToWishlist(index int) error {
	return s.ClickNth(ResultsAddToWishlist, index, false)
}

// AddToCompare clicks the index-th result's compare button
func (s *SearchResultsPage) AddToCompare(index int) error {
	return s.ClickNth(ResultsCompareButtons, index, false)
}

// IsSuccessMessageDisplayed waits briefly for the success alert
func (s *SearchResultsPage) IsSuccessMessageDisplayed() bool {
	return s.IsElementVisible(ResultsSuccessAlert, alertWait)
}

// IsNoResultsDisplayed checks the content paragraph for the empty-search notice.
func (s *SearchResultsPage) IsNoResultsDisplayed() bool {
	if !s.IsElementPresent(NoResultsMessage) {
		return false
	}
	text, err := s.Text(NoResultsMessage)
	if err != nil {
		return false
	}
	return containsFold(text, "no product") || containsFold(text, "does not match")
}

// SortBy picks a sort option by its label, e.g. "Price (Low > High)".
func (s *SearchResultsPage) SortBy(option string) error {
	return s.AwaitNavigation(func() error { return s.SelectByText(SortDropdown, option) })
}

// SetItemsPerPage picks the page size by its label.
func (s *SearchResultsPage) SetItemsPerPage(count string) error {
	return s.AwaitNavigation(func() error { return s.SelectByText(ShowDropdown, count) })
}

func (s *SearchResultsPage) SwitchToListView() error { return s.Click(ListViewButton) }
func (s *SearchResultsPage) SwitchToGridView() error { return s.Click(GridViewButton) }

// IsListView reports whether the results use the list layout
func (s *SearchResultsPage) IsListView() bool {
	return s.IsElementPresent(ListViewProductLayout)
}

// IsProductInResults reports whether any title contains name, ignoring case.
func (s *SearchResultsPage) IsProductInResults(name string) bool {
	names, err := s.ProductNames()
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

// RefineSearch reruns the search with keyword, optionally in descriptions too.
func (s *SearchResultsPage) RefineSearch(keyword string, inDescription bool) error {
	if err := s.TypeText(ResultsSearchInput, keyword, true); err != nil {
		return err
	}
	if inDescription {
		selected, err := s.IsSelected(SearchInDescription)
		if err != nil {
			return err
		}
		if !selected {
			if err := s.Click(SearchInDescription); err != nil {
				return err
			}
		}
	}
	return s.ClickAndWaitForNavigation(ResultsSearchButton)
}

// SearchTerm returns the keyword the results were produced for
func (s *SearchResultsPage) SearchTerm() (string, error) {
	return s.Attribute(ResultsSearchInput, "value")
}
