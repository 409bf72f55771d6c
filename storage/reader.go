// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

// Package storage reads governance-contract state — the signer registry
// and chain-config contracts the live chain treats as authoritative —
// behind a single narrow interface, with a live (state-backed) and a
// genesis (alloc-map) implementation.
package storage

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrSlotNotFound is returned by nothing in this package directly — an
// untouched slot reads as the zero word, per §4.B item 1 — but is kept
// for readers that want to distinguish "zero because unset" from "zero
// because that's the value" at a higher layer than this package cares to.
var ErrSlotNotFound = errors.New("storage: slot not found")

// Reader is the single operation every governance-contract accessor in
// this package is built from: read one 32-byte word from one contract's
// storage. ok is false iff the slot has never been written (reads as the
// zero word either way; callers that care about the distinction use ok).
type Reader interface {
	ReadStorage(contract common.Address, slot common.Hash) (word common.Hash, ok bool, err error)
}
