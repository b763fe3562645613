package blazedemo

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/ahrdadan/demo-e2e/internal/fixtures"
	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Purchase page locators
var (
	NameInput            = pages.ID("inputName")
	AddressInput         = pages.ID("address")
	CityInput            = pages.ID("city")
	StateInput           = pages.ID("state")
	ZipInput             = pages.ID("zipCode")
	CardTypeSelect       = pages.ID("cardType")
	CreditCardInput      = pages.ID("creditCardNumber")
	CreditCardMonthInput = pages.ID("creditCardMonth")
	CreditCardYearInput  = pages.ID("creditCardYear")
	NameOnCardInput      = pages.ID("nameOnCard")
	RememberMeCheckbox   = pages.ID("rememberMe")
	PurchaseButton       = pages.CSS("input[type='submit']")
	PurchaseHeading      = pages.CSS("h2")
	AirlineInfo          = pages.CSS("p:nth-of-type(1)")
	FlightInfo           = pages.CSS("p:nth-of-type(2)")
	PriceInfo            = pages.CSS("p:nth-of-type(3)")
)

// PurchasePage is the passenger and payment form.
type PurchasePage struct {
	*pages.BasePage
}

// NewPurchasePage binds the purchase page to page
func NewPurchasePage(page *rod.Page, timeout time.Duration) *PurchasePage {
	return &PurchasePage{BasePage: pages.NewBasePage(page, timeout, "PurchasePage")}
}

// IsOnPurchasePage reports whether the URL is the purchase page
func (p *PurchasePage) IsOnPurchasePage() bool {
	return strings.Contains(strings.ToLower(p.URL()), "purchase")
}

// PageHeading returns the h2 text
func (p *PurchasePage) PageHeading() (string, error) {
	return p.Text(PurchaseHeading)
}

// FillPassengerDetails types the traveller fields.
func (p *PurchasePage) FillPassengerDetails(passenger fixtures.Passenger) error {
	p.Logger().Info("Filling passenger details", zap.String("name", passenger.Name))

	return p.fill([]field{
		{NameInput, passenger.Name},
		{AddressInput, passenger.Address},
		{CityInput, passenger.City},
		{StateInput, passenger.State},
		{ZipInput, passenger.ZipCode},
	})
}

// FillPaymentDetails picks the card type and types the card fields.
func (p *PurchasePage) FillPaymentDetails(payment fixtures.Payment) error {
	p.Logger().Info("Filling payment details")

	if err := p.SelectByValue(CardTypeSelect, payment.CardType); err != nil {
		return err
	}
	return p.fill([]field{
		{CreditCardInput, payment.CardNumber},
		{CreditCardMonthInput, payment.Month},
		{CreditCardYearInput, payment.Year},
		{NameOnCardInput, payment.NameOnCard},
	})
}

type field struct {
	loc   pages.Locator
	value string
}

func (p *PurchasePage) fill(fields []field) error {
	for _, f := range fields {
		if err := p.TypeText(f.loc, f.value, true); err != nil {
			return err
		}
	}
	return nil
}

// CompletePurchase fills the whole form and submits it.
func (p *PurchasePage) CompletePurchase(passenger fixtures.Passenger, payment fixtures.Payment) error {
	if err := p.FillPassengerDetails(passenger); err != nil {
		return err
	}
	if err := p.FillPaymentDetails(payment); err != nil {
		return err
	}
	return p.ClickPurchase()
}

// ClickPurchase submits the form and waits for the confirmation page.
func (p *PurchasePage) ClickPurchase() error {
	p.Logger().Info("Clicking Purchase Flight button")
	return p.ClickAndWaitForNavigation(PurchaseButton)
}

// TotalPrice returns the price paragraph
func (p *PurchasePage) TotalPrice() (string, error) {
	return p.Text(PriceInfo)
}

// AirlineInfo returns the airline paragraph
func (p *PurchasePage) AirlineInfo() (string, error) {
	return p.Text(AirlineInfo)
}

// FlightInfo returns the flight number paragraph
func (p *PurchasePage) FlightInfo() (string, error) {
	return p.Text(FlightInfo)
}
