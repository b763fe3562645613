package demosite

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Cities offered by the BlazeDemo search form
var (
	DepartureCities   = []string{"Paris", "Philadelphia", "Boston", "Portland", "San Diego", "Mexico City", "São Paolo"}
	DestinationCities = []string{"Buenos Aires", "Rome", "London", "Berlin", "New York", "Dublin", "Cairo"}
)

// bookingFee is added to every fare on the purchase page
const bookingFee = 514.76

// Flight is one row of the reserve table
type Flight struct {
	Number  string
	Airline string
	Departs string
	Arrives string
	Price   float64
}

// PriceLabel renders the price as shown in the table
func (f Flight) PriceLabel() string { return fmt.Sprintf("$%.2f", f.Price) }

// PriceValue is the hidden form value carried to the purchase page
func (f Flight) PriceValue() string { return strconv.FormatFloat(f.Price, 'f', 2, 64) }

var flightBoard = []Flight{
	{"43", "Virgin America", "1:43 AM", "9:45 PM", 472.56},
	{"234", "United Airlines", "7:43 AM", "12:45 PM", 432.98},
	{"9696", "Aer Lingus", "5:27 AM", "8:22 PM", 200.98},
	{"12", "Virgin America", "11:23 AM", "1:45 PM", 765.32},
	{"4346", "Lufthansa", "1:43 AM", "1:45 PM", 233.98},
}

type blazeHomeView struct {
	Departures   []string
	Destinations []string
}

type reserveView struct {
	From    string
	To      string
	Flights []Flight
}

type purchaseView struct {
	From    string
	To      string
	Flight  string
	Airline string
	Price   string
	Fee     string
	Total   string
}

type confirmationView struct {
	ID         string
	Status     string
	Amount     string
	CardNumber string
	Expiration string
	AuthCode   string
	Date       string
}

func (s *Server) blazeHome(c *fiber.Ctx) error {
	return s.render(c, "bd-home", blazeHomeView{
		Departures:   DepartureCities,
		Destinations: DestinationCities,
	})
}

func (s *Server) blazeReserve(c *fiber.Ctx) error {
	from := c.FormValue("fromPort", DepartureCities[0])
	to := c.FormValue("toPort", DestinationCities[0])

	return s.render(c, "bd-reserve", reserveView{From: from, To: to, Flights: flightBoard})
}

func (s *Server) blazePurchase(c *fiber.Ctx) error {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid price")
	}

	return s.render(c, "bd-purchase", purchaseView{
		From:    c.FormValue("fromPort"),
		To:      c.FormValue("toPort"),
		Flight:  c.FormValue("flight"),
		Airline: c.FormValue("airline"),
		Price:   strconv.FormatFloat(price, 'f', 2, 64),
		Fee:     strconv.FormatFloat(bookingFee, 'f', 2, 64),
		Total:   strconv.FormatFloat(price+bookingFee, 'f', 2, 64),
	})
}

func (s *Server) blazeConfirmation(c *fiber.Ctx) error {
	amount := c.FormValue("total", "555")
	if _, err := strconv.ParseFloat(amount, 64); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid total")
	}

	return s.render(c, "bd-confirmation", confirmationView{
		ID:         strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8],
		Status:     "PendingCapture",
		Amount:     amount + " USD",
		CardNumber: maskCard(c.FormValue("creditCardNumber")),
		Expiration: c.FormValue("creditCardMonth", "11") + " /" + c.FormValue("creditCardYear", "2017"),
		AuthCode:   "888888",
		Date:       time.Now().Format("Mon, 02 Jan 2006 15:04:05 -0700"),
	})
}

// maskCard keeps the last four digits of a card number.
func maskCard(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("x", len(number)-4) + number[len(number)-4:]
}
