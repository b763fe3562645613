package blazedemo

import (
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/ahrdadan/demo-e2e/internal/pages"
)

// Confirmation page locators
var (
	ConfirmationHeading = pages.CSS("h1")
	ConfirmationMessage = pages.CSS(".hero-unit p:first-of-type")
	TransactionID       = pages.CSS("tr:nth-child(1) td:nth-child(2)")
	Status              = pages.CSS("tr:nth-child(2) td:nth-child(2)")
	Amount              = pages.CSS("tr:nth-child(3) td:nth-child(2)")
	CardNumber          = pages.CSS("tr:nth-child(4) td:nth-child(2)")
	Expiration          = pages.CSS("tr:nth-child(5) td:nth-child(2)")
	AuthCode            = pages.CSS("tr:nth-child(6) td:nth-child(2)")
	Timestamp           = pages.CSS("tr:nth-child(7) td:nth-child(2)")
	AllDetails          = pages.CSS("table tr")
)

// ConfirmationPage is the receipt shown after a purchase.
type ConfirmationPage struct {
	*pages.BasePage
}

// NewConfirmationPage binds the confirmation page to page
func NewConfirmationPage(page *rod.Page, timeout time.Duration) *ConfirmationPage {
	return &ConfirmationPage{BasePage: pages.NewBasePage(page, timeout, "ConfirmationPage")}
}

// IsOnConfirmationPage reports whether the URL is the confirmation page
func (c *ConfirmationPage) IsOnConfirmationPage() bool {
	return strings.Contains(strings.ToLower(c.URL()), "confirmation")
}

func (c *ConfirmationPage) Heading() (string, error)       { return c.Text(ConfirmationHeading) }
func (c *ConfirmationPage) Message() (string, error)       { return c.Text(ConfirmationMessage) }
func (c *ConfirmationPage) TransactionID() (string, error) { return c.Text(TransactionID) }
func (c *ConfirmationPage) Status() (string, error)        { return c.Text(Status) }
func (c *ConfirmationPage) Amount() (string, error)        { return c.Text(Amount) }
func (c *ConfirmationPage) CardNumber() (string, error)    { return c.Text(CardNumber) }
func (c *ConfirmationPage) Expiration() (string, error)    { return c.Text(Expiration) }
func (c *ConfirmationPage) AuthCode() (string, error)      { return c.Text(AuthCode) }
func (c *ConfirmationPage) Timestamp() (string, error)     { return c.Text(Timestamp) }

// Details maps every receipt row's label to its value.
func (c *ConfirmationPage) Details() (map[string]string, error) {
	rows, err := c.FindElements(AllDetails)
	if err != nil {
		return nil, err
	}

	details := make(map[string]string, len(rows))
	for _, row := range rows {
		cells, err := row.Elements("td")
		if err != nil || len(cells) < 2 {
			continue
		}
		label, err := cells[0].Text()
		if err != nil {
			return nil, err
		}
		value, err := cells[1].Text()
		if err != nil {
			return nil, err
		}
		details[strings.TrimSpace(label)] = strings.TrimSpace(value)
	}
	return details, nil
}

// IsPurchaseSuccessful checks the heading for a thank-you or confirmation.
func (c *ConfirmationPage) IsPurchaseSuccessful() bool {
	heading, err := c.Heading()
	if err != nil {
		return false
	}
	heading = strings.ToLower(heading)
	return strings.Contains(heading, "thank you") || strings.Contains(heading, "confirmation")
}
