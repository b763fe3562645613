//go:build e2e

package e2e

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ahrdadan/demo-e2e/internal/harness"
	"github.com/ahrdadan/demo-e2e/internal/pages/blazedemo"
)

type PurchaseSuite struct {
	harness.Suite
}

func TestPurchase(t *testing.T) {
	suite.Run(t, new(PurchaseSuite))
}

// purchase books the first Paris to Berlin flight and returns the form.
func (s *PurchaseSuite) purchase() *blazedemo.PurchasePage {
	route, err := harness.Bookings(s.T()).Route("paris_to_berlin")
	s.Require().NoError(err)
	s.Require().NoError(harness.BlazeHome(s.T()).SearchFlights(route.Departure, route.Destination))
	s.Require().NoError(harness.BlazeFlights(s.T()).SelectFlight(0))
	return harness.BlazePurchase(s.T())
}

func (s *PurchaseSuite) TestPurchasePageLoads() {
	s.Mark(harness.Smoke, harness.Purchase)
	purchase := s.purchase()

	s.True(purchase.IsOnPurchasePage())
	url, err := purchase.CurrentURL()
	s.Require().NoError(err)
	s.Contains(strings.ToLower(url), "purchase")
}

func (s *PurchaseSuite) TestPurchasePageElementsVisible() {
	s.Mark(harness.Smoke, harness.Purchase)
	purchase := s.purchase()

	s.True(purchase.IsElementVisible(blazedemo.NameInput, 0))
	s.True(purchase.IsElementVisible(blazedemo.AddressInput, 0))
	s.True(purchase.IsElementVisible(blazedemo.CityInput, 0))
	s.True(purchase.IsElementVisible(blazedemo.StateInput, 0))
	s.True(purchase.IsElementVisible(blazedemo.ZipInput, 0))
	s.True(purchase.IsElementVisible(blazedemo.CreditCardInput, 0))
	s.True(purchase.IsElementVisible(blazedemo.PurchaseButton, 0))
}

func (s *PurchaseSuite) TestFillPassengerDetails() {
	s.Mark(harness.Regression, harness.Purchase)
	purchase := s.purchase()
	passenger, err := harness.Bookings(s.T()).Passenger()
	s.Require().NoError(err)

	s.Require().NoError(purchase.FillPassengerDetails(passenger))

	name, err := purchase.Attribute(blazedemo.NameInput, "value")
	s.Require().NoError(err)
	s.Equal(passenger.Name, name)
	city, err := purchase.Attribute(blazedemo.CityInput, "value")
	s.Require().NoError(err)
	s.Equal(passenger.City, city)
}

func (s *PurchaseSuite) TestFillPaymentDetails() {
	s.Mark(harness.Regression, harness.Purchase)
	purchase := s.purchase()
	payment, err := harness.Bookings(s.T()).Payment()
	s.Require().NoError(err)

	s.Require().NoError(purchase.FillPaymentDetails(payment))

	card, err := purchase.Attribute(blazedemo.CreditCardInput, "value")
	s.Require().NoError(err)
	s.Equal(payment.CardNumber, card)
}

func (s *PurchaseSuite) TestCompletePurchaseForm() {
	s.Mark(harness.Smoke, harness.Purchase)
	purchase := s.purchase()
	bookings := harness.Bookings(s.T())
	passenger, err := bookings.Passenger()
	s.Require().NoError(err)
	payment, err := bookings.Payment()
	s.Require().NoError(err)

	s.Require().NoError(purchase.CompletePurchase(passenger, payment))
	s.True(harness.BlazeConfirmation(s.T()).IsOnConfirmationPage())
}

func (s *PurchaseSuite) TestSelectedFlightSummary() {
	s.Mark(harness.Regression, harness.Purchase)
	purchase := s.purchase()

	airline, err := purchase.AirlineInfo()
	s.Require().NoError(err)
	s.NotEmpty(airline)
	total, err := purchase.TotalPrice()
	s.Require().NoError(err)
	s.NotEmpty(total)
}
