package demosite

import (
	"fmt"
	"sort"
	"strings"
)

// Product is a storefront catalog entry; prices are in cents.
type Product struct {
	ID          int
	Name        string
	Model       string
	Brand       string
	Description string
	Price       int
	Stock       string
	Featured    bool
}

var catalog = []Product{
	{ID: 43, Name: "MacBook", Model: "Product 16", Brand: "Apple", Price: 60200, Stock: "In Stock", Featured: true,
		Description: "Intel Core 2 Duo processor, 13.3-inch glossy widescreen display and a sleek polycarbonate case."},
	{ID: 44, Name: "MacBook Air", Model: "Product 17", Brand: "Apple", Price: 120200, Stock: "In Stock",
		Description: "The thinnest notebook, with a full-size keyboard and a 13.3-inch LED display."},
	{ID: 45, Name: "MacBook Pro", Model: "Product 18", Brand: "Apple", Price: 200000, Stock: "In Stock",
		Description: "Latest Intel mobile architecture with a 15-inch widescreen display."},
	{ID: 40, Name: "iPhone", Model: "product 11", Brand: "Apple", Price: 12320, Stock: "In Stock", Featured: true,
		Description: "iPhone is a revolutionary new mobile phone that allows you to make a call by simply tapping a name."},
	{ID: 42, Name: "Apple Cinema 30\"", Model: "Product 15", Brand: "Apple", Price: 12200, Stock: "2-3 Days", Featured: true,
		Description: "The 30-inch Apple Cinema HD Display delivers an amazing 2560 x 1600 pixel resolution."},
	{ID: 30, Name: "Canon EOS 5D", Model: "Product 3", Brand: "Canon", Price: 9800, Stock: "Pre-Order", Featured: true,
		Description: "Canon's press material for the EOS 5D states that it defines a new D-SLR category."},
	{ID: 33, Name: "Samsung SyncMaster 941BW", Model: "Product 6", Brand: "Samsung", Price: 24200, Stock: "2-3 Days",
		Description: "Imagine the advantages of going big without slowing down."},
	{ID: 49, Name: "Samsung Galaxy Tab 10.1", Model: "SAM1", Brand: "Samsung", Price: 24199, Stock: "Pre-Order",
		Description: "Samsung Galaxy Tab 10.1 is the world's thinnest tablet, measuring 8.6 mm thickness."},
	{ID: 28, Name: "HTC Touch HD", Model: "Product 1", Brand: "HTC", Price: 12200, Stock: "In Stock",
		Description: "HTC Touch HD, a 3.8-inch touch screen smartphone with a 5 megapixel camera."},
	{ID: 29, Name: "Palm Treo Pro", Model: "Product 2", Brand: "Palm", Price: 33799, Stock: "Out Of Stock",
		Description: "Redefine your workday with the Palm Treo Pro smartphone."},
	{ID: 48, Name: "iPod Classic", Model: "product 20", Brand: "Apple", Price: 12200, Stock: "In Stock",
		Description: "More room to move with 80GB or 160GB of storage."},
	{ID: 46, Name: "Sony VAIO", Model: "Product 19", Brand: "Sony", Price: 120200, Stock: "In Stock",
		Description: "Unprecedented power with the Intel Centrino 2 processor technology."},
	{ID: 31, Name: "Nikon D300", Model: "Product 4", Brand: "Nikon", Price: 9800, Stock: "In Stock",
		Description: "Engineered with pro-level features and performance, the 12.3-effective-megapixel D300."},
	{ID: 47, Name: "HP LP3065", Model: "Product 21", Brand: "Hewlett-Packard", Price: 12200, Stock: "In Stock",
		Description: "Stop your co-workers in their tracks with the stunning new 30-inch diagonal HP LP3065."},
}

func productByID(id int) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func featuredProducts() []Product {
	var out []Product
	for _, p := range catalog {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// SortOption is one entry of the search page's sort select
type SortOption struct {
	Value string
	Label string
}

var sortOptions = []SortOption{
	{"p.sort_order-ASC", "Default"},
	{"pd.name-ASC", "Name (A - Z)"},
	{"pd.name-DESC", "Name (Z - A)"},
	{"p.price-ASC", "Price (Low > High)"},
	{"p.price-DESC", "Price (High > Low)"},
}

var limitOptions = []int{10, 25, 50, 75, 100}

// searchCatalog matches term against names, and descriptions when asked,
// ignoring case. An empty term matches nothing.
func searchCatalog(term string, inDescription bool, sortKey string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var out []Product
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			(inDescription && strings.Contains(strings.ToLower(p.Description), term)) {
			out = append(out, p)
		}
	}

	switch sortKey {
	case "pd.name-ASC":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case "pd.name-DESC":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	case "p.price-ASC":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "p.price-DESC":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// money formats cents as OpenCart does, e.g. 120200 → "$1,202.00".
func money(cents int) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	s := fmt.Sprintf("$%s.%02d", b.String(), cents%100)
	if neg {
		return "-" + s
	}
	return s
}
