// Package blazedemo holds the page objects for the BlazeDemo flight booking site.
package blazedemo

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Home page locators
var (
	DepartureSelect   = pages.Name("fromPort")
	DestinationSelect = pages.Name("toPort")
	FindFlightsButton = pages.CSS("input[type='submit']")
	HomeHeading       = pages.CSS("h1")
	Logo              = pages.CSS(".navbar-brand")
)

// HomePage is the flight search form.
type HomePage struct {
	*pages.BasePage
	url string
}

// NewHomePage binds the home page at url to page.
func NewHomePage(page *rod.Page, url string, timeout time.Duration) *HomePage {
	return &HomePage{
		BasePage: pages.NewBasePage(page, timeout, "HomePage"),
		url:      url,
	}
}

// OpenHomePage loads the site root.
func (h *HomePage) OpenHomePage() error {
	if err := h.Open(h.url); err != nil {
		return err
	}
	if err := h.WaitForPageLoad(); err != nil {
		return err
	}
	h.Logger().Info("Opened BlazeDemo home page")
	return nil
}

// SelectDepartureCity picks the departure city by option value.
func (h *HomePage) SelectDepartureCity(city string) error {
	h.Logger().Info("Selecting departure city", zap.String("city", city))
	return h.SelectByValue(DepartureSelect, city)
}

// SelectDestinationCity picks the destination city by option value.
func (h *HomePage) SelectDestinationCity(city string) error {
	h.Logger().Info("Selecting destination city", zap.String("city", city))
	return h.SelectByValue(DestinationSelect, city)
}

// ClickFindFlights submits the search and waits for the results page.
func (h *HomePage) ClickFindFlights() error {
	h.Logger().Info("Clicking Find Flights button")
	return h.ClickAndWaitForNavigation(FindFlightsButton)
}

// SearchFlights selects both cities and submits.
func (h *HomePage) SearchFlights(departure, destination string) error {
	if err := h.SelectDepartureCity(departure); err != nil {
		return fmt.Errorf("departure: %w", err)
	}
	if err := h.SelectDestinationCity(destination); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	return h.ClickFindFlights()
}

// PageHeading returns the h1 text
func (h *HomePage) PageHeading() (string, error) {
	return h.Text(HomeHeading)
}

// IsLogoDisplayed reports whether the brand link is visible
func (h *HomePage) IsLogoDisplayed() bool {
	return h.IsElementVisible(Logo, 0)
}
