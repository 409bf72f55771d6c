// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain guards the concurrent Refresh callers refresh_test.go starts
// against SignerListRefresher's singleflight.Group (a concurrent Refresh
// call waits on an in-flight sibling's read rather than starting its own
// work).
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreCurrent())
}
