// Package fixtures loads the static JSON test data under test_data/.
//
// Documents are kept verbatim and queried with gjson paths; the typed views
// (Bookings, Users, Products) cover the shapes the suites rely on.
package fixtures

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// ErrMissingKey means a lookup path does not exist in the document
var ErrMissingKey = errors.New("fixture key not found")

// Document is a parsed JSON fixture file.
type Document struct {
	Name string
	raw  []byte
	root gjson.Result
}

// Load reads dir/name and validates it as JSON.
func Load(dir, name string) (*Document, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	return Parse(name, data)
}

// Parse wraps already read JSON bytes.
func Parse(name string, data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("fixture %s is not valid JSON", name)
	}
	return &Document{
		Name: name,
		raw:  data,
		root: gjson.ParseBytes(data),
	}, nil
}

// Get looks up a gjson path such as "routes.paris_to_berlin.departure".
func (d *Document) Get(path string) gjson.Result {
	return d.root.Get(path)
}

// String returns the string at path or ErrMissingKey.
func (d *Document) String(path string) (string, error) {
	r := d.root.Get(path)
	if !r.Exists() {
		return "", fmt.Errorf("%w: %s in %s", ErrMissingKey, path, d.Name)
	}
	return r.String(), nil
}

// Raw returns the file contents as read
func (d *Document) Raw() []byte { return d.raw }

// Map decodes the whole document into plain Go values.
func (d *Document) Map() map[string]any {
	m, _ := d.root.Value().(map[string]any)
	return m
}

func (d *Document) object(path string) (gjson.Result, error) {
	r := d.root.Get(path)
	if !r.Exists() {
		return r, fmt.Errorf("%w: %s in %s", ErrMissingKey, path, d.Name)
	}
	if !r.IsObject() {
		return r, fmt.Errorf("fixture %s: %s is not an object", d.Name, path)
	}
	return r, nil
}
