package blazedemo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Flights page locators
var (
	FlightRows          = pages.CSS("table tbody tr")
	ChooseFlightButtons = pages.CSS("input[type='submit']")
	FlightsHeading      = pages.CSS("h3")
	FlightPrices        = pages.CSS("table tbody tr td:nth-child(6)")
	AirlineNames        = pages.CSS("table tbody tr td:nth-child(3)")
	FlightNumbers       = pages.CSS("table tbody tr td:nth-child(2)")
)

// ErrNoFlights means the results table is empty
var ErrNoFlights = errors.New("no flights listed")

// FlightsPage is the reserve page listing flights for a route.
type FlightsPage struct {
	*pages.BasePage
}

// NewFlightsPage binds the flights page to page
func NewFlightsPage(page *rod.Page, timeout time.Duration) *FlightsPage {
	return &FlightsPage{BasePage: pages.NewBasePage(page, timeout, "FlightsPage")}
}

// IsOnFlightsPage reports whether the URL is the reserve page
func (f *FlightsPage) IsOnFlightsPage() bool {
	return strings.Contains(strings.ToLower(f.URL()), "reserve")
}

// PageHeading returns the h3 text
func (f *FlightsPage) PageHeading() (string, error) {
	return f.Text(FlightsHeading)
}

// NumberOfFlights waits for the table and counts its rows.
func (f *FlightsPage) NumberOfFlights() (int, error) {
	rows, err := f.FindElements(FlightRows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SelectFlight chooses the index-th flight (0-based); an index past the
// last row yields pages.ErrIndexOutOfRange.
func (f *FlightsPage) SelectFlight(index int) error {
	f.Logger().Info("Selecting flight", zap.Int("index", index))
	return f.ClickNth(ChooseFlightButtons, index, true)
}

// FlightPrices returns the price column as displayed, e.g. "$472.56".
func (f *FlightsPage) FlightPrices() ([]string, error) {
	return f.Texts(FlightPrices)
}

// AirlineNames returns the airline column
func (f *FlightsPage) AirlineNames() ([]string, error) {
	return f.Texts(AirlineNames)
}

// FlightNumbers returns the flight number column
func (f *FlightsPage) FlightNumbers() ([]string, error) {
	return f.Texts(FlightNumbers)
}

// CheapestFlightIndex returns the index of the lowest price, the first one on ties.
func (f *FlightsPage) CheapestFlightIndex() (int, error) {
	prices, err := f.FlightPrices()
	if err != nil {
		return 0, err
	}
	return CheapestIndex(prices)
}

// SelectCheapestFlight chooses the lowest priced flight.
func (f *FlightsPage) SelectCheapestFlight() error {
	index, err := f.CheapestFlightIndex()
	if err != nil {
		return err
	}
	if err := f.SelectFlight(index); err != nil {
		return err
	}
	f.Logger().Info("Selected cheapest flight", zap.Int("index", index))
	return nil
}

// ParsePrice turns "$472.56" into 472.56.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, "$", "")), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return v, nil
}

// CheapestIndex returns the position of the first minimum price.
func CheapestIndex(prices []string) (int, error) {
	if len(prices) == 0 {
		return 0, ErrNoFlights
	}

	best := 0
	var lowest float64
	for i, p := range prices {
		v, err := ParsePrice(p)
		if err != nil {
			return 0, err
		}
		if i == 0 || v < lowest {
			best, lowest = i, v
		}
	}
	return best, nil
}
