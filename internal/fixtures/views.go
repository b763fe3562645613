package fixtures

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// File names under test_data/
const (
	BookingsFile = "bookings.json"
	UsersFile    = "users.json"
	ProductsFile = "products.json"
)

// Route is a departure/destination pair on BlazeDemo
type Route struct {
	Key         string
	Departure   string
	Destination string
}

// Passenger fills the BlazeDemo purchase form's traveller fields
type Passenger struct {
	Name    string
	Address string
	City    string
	State   string
	ZipCode string
}

// Payment fills the BlazeDemo purchase form's card fields
type Payment struct {
	CardType   string
	CardNumber string
	Month      string
	Year       string
	NameOnCard string
}

// Credentials is an OpenCart login
type Credentials struct {
	Email    string
	Password string
}

// Bookings is the view over bookings.json
type Bookings struct{ *Document }

// LoadBookings reads bookings.json from dir
func LoadBookings(dir string) (Bookings, error) {
	doc, err := Load(dir, BookingsFile)
	return Bookings{doc}, err
}

// Route returns routes.<key>.
func (b Bookings) Route(key string) (Route, error) {
	r, err := b.object("routes." + gjson.Escape(key))
	if err != nil {
		return Route{}, err
	}
	return routeOf(key, r), nil
}

// Routes returns every route in file order.
func (b Bookings) Routes() []Route {
	var routes []Route
	b.Get("routes").ForEach(func(key, value gjson.Result) bool {
		routes = append(routes, routeOf(key.String(), value))
		return true
	})
	return routes
}

func routeOf(key string, r gjson.Result) Route {
	return Route{
		Key:         key,
		Departure:   r.Get("departure").String(),
		Destination: r.Get("destination").String(),
	}
}

// Passenger returns the passenger block
func (b Bookings) Passenger() (Passenger, error) {
	r, err := b.object("passenger")
	if err != nil {
		return Passenger{}, err
	}
	return Passenger{
		Name:    r.Get("name").String(),
		Address: r.Get("address").String(),
		City:    r.Get("city").String(),
		State:   r.Get("state").String(),
		ZipCode: r.Get("zip_code").String(),
	}, nil
}

// Payment returns the payment block
func (b Bookings) Payment() (Payment, error) {
	r, err := b.object("payment")
	if err != nil {
		return Payment{}, err
	}
	return Payment{
		CardType:   r.Get("card_type").String(),
		CardNumber: r.Get("card_number").String(),
		Month:      r.Get("month").String(),
		Year:       r.Get("year").String(),
		NameOnCard: r.Get("name_on_card").String(),
	}, nil
}

// Users is the view over users.json
type Users struct{ *Document }

// LoadUsers reads users.json from dir
func LoadUsers(dir string) (Users, error) {
	doc, err := Load(dir, UsersFile)
	return Users{doc}, err
}

// Valid returns valid_user
func (u Users) Valid() (Credentials, error) { return u.credentials("valid_user") }

// Invalid returns invalid_user
func (u Users) Invalid() (Credentials, error) { return u.credentials("invalid_user") }

func (u Users) credentials(key string) (Credentials, error) {
	r, err := u.object(key)
	if err != nil {
		return Credentials{}, err
	}
	c := Credentials{
		Email:    r.Get("email").String(),
		Password: r.Get("password").String(),
	}
	if c.Email == "" {
		return c, fmt.Errorf("fixture %s: %s has no email", u.Name, key)
	}
	return c, nil
}

// Products is the view over products.json
type Products struct{ *Document }

// LoadProducts reads products.json from dir
func LoadProducts(dir string) (Products, error) {
	doc, err := Load(dir, ProductsFile)
	return Products{doc}, err
}

// SearchTerms returns search_terms
func (p Products) SearchTerms() []string { return p.strings("search_terms") }

// CartProducts returns cart_products
func (p Products) CartProducts() []string { return p.strings("cart_products") }

// NoResultsTerm returns a term no catalog product matches
func (p Products) NoResultsTerm() string { return p.Get("no_results_term").String() }

func (p Products) strings(path string) []string {
	var out []string
	for _, r := range p.Get(path).Array() {
		out = append(out, r.String())
	}
	return out
}
