package opencart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteURL(t *testing.T) {
	cases := []struct {
		base, route, want string
	}{
		{"https://demo.opencart.com/", "account/login", "https://demo.opencart.com/?route=account/login"},
		{"http://127.0.0.1:8080/opencart/index.php", "checkout/cart", "http://127.0.0.1:8080/opencart/index.php?route=checkout/cart"},
		{"https://shop.test/index.php?language=en-gb", "product/search", "https://shop.test/index.php?language=en-gb&route=product/search"},
		{"https://shop.test/index.php?route=common/home", "account/register", "https://shop.test/index.php?route=account/register"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, RouteURL(c.base, c.route), c.base)
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("MacBook Air", "macbook"))
	assert.True(t, containsFold("https://x/?route=account/login", "ACCOUNT/LOGIN"))
	assert.False(t, containsFold("iPhone", "macbook"))
}
