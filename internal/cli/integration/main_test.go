package integration

import (
	"testing"

	"stacky.dev/stacky/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m)
}
