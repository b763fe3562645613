package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataDir = "../../test_data"

func TestLoadBookings(t *testing.T) {
	b, err := LoadBookings(testDataDir)
	require.NoError(t, err)

	route, err := b.Route("paris_to_berlin")
	require.NoError(t, err)
	assert.Equal(t, Route{Key: "paris_to_berlin", Departure: "Paris", Destination: "Berlin"}, route)

	routes := b.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "paris_to_berlin", routes[0].Key)
	assert.Equal(t, "portland_to_dublin", routes[2].Key)

	passenger, err := b.Passenger()
	require.NoError(t, err)
	assert.Equal(t, "John Doe", passenger.Name)
	assert.Equal(t, "12345", passenger.ZipCode)

	payment, err := b.Payment()
	require.NoError(t, err)
	assert.Equal(t, "visa", payment.CardType)
	assert.Equal(t, "4111111111111111", payment.CardNumber)
}

func TestBookingsMissingRoute(t *testing.T) {
	b, err := LoadBookings(testDataDir)
	require.NoError(t, err)

	_, err = b.Route("rome_to_cairo")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestLoadUsers(t *testing.T) {
	u, err := LoadUsers(testDataDir)
	require.NoError(t, err)

	invalid, err := u.Invalid()
	require.NoError(t, err)
	assert.Equal(t, "invalid.user@example.com", invalid.Email)

	valid, err := u.Valid()
	require.NoError(t, err)
	assert.NotEmpty(t, valid.Password)
}

func TestLoadProducts(t *testing.T) {
	p, err := LoadProducts(testDataDir)
	require.NoError(t, err)

	assert.Contains(t, p.SearchTerms(), "MacBook")
	assert.Equal(t, []string{"MacBook", "iPhone"}, p.CartProducts())
	assert.NotEmpty(t, p.NoResultsTerm())
}

func TestLoadKeepsDocumentVerbatim(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`{"a": {"b": [1, 2]}, "s": "x"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), body, 0o644))

	doc, err := Load(dir, "doc.json")
	require.NoError(t, err)
	assert.Equal(t, body, doc.Raw())
	assert.Equal(t, int64(2), doc.Get("a.b.1").Int())

	s, err := doc.String("s")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = doc.String("missing")
	assert.ErrorIs(t, err, ErrMissingKey)

	assert.Contains(t, doc.Map(), "a")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir, "absent.json")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"a":`), 0o644))
	_, err = Load(dir, "bad.json")
	assert.Error(t, err)
}

func TestObjectTypeMismatch(t *testing.T) {
	doc, err := Parse("users.json", []byte(`{"valid_user": "nope"}`))
	require.NoError(t, err)

	_, err = Users{doc}.Valid()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingKey)
}
