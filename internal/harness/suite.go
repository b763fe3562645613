package harness

import (
	"github.com/go-rod/rod"
	"github.com/stretchr/testify/suite"

	"github.com/ahrdadan/demo-e2e/internal/config"
)

// Suite is the base for browser suites. Every test method is tracked in
// the run report; its browser session opens lazily and is torn down,
// with a failure screenshot when needed, as the test ends.
type Suite struct {
	suite.Suite
}

// SetupTest starts tracking the current test
func (s *Suite) SetupTest() {
	Track(s.T())
}

// Mark tags the current test and skips it when the marker filter excludes it
func (s *Suite) Mark(markers ...string) {
	Mark(s.T(), markers...)
}

// Config returns the run configuration
func (s *Suite) Config() *config.Config {
	return Config()
}

// Page returns the current test's rod page
func (s *Suite) Page() *rod.Page {
	return Page(s.T())
}
