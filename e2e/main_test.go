//go:build e2e

package e2e

import (
	"os"
	"testing"

	"github.com/ahrdadan/demo-e2e/internal/harness"
)

func TestMain(m *testing.M) {
	os.Exit(harness.Run(m))
}
