// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain guards the package's goroutine-using paths — SignerManager's
// lock and the ARC recovery cache in Validator don't spawn goroutines of
// their own, but this keeps the same leak-detection discipline the
// teacher applies package-wide so a future addition (e.g. a background
// epoch-refresh loop) inherits the check for free.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}
