// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import "github.com/ethereum/go-ethereum/common"

// StateProvider is the slice of core/state.StateDB this package actually
// needs, so tests and alternative execution backends can supply a fake
// without dragging in a real trie-backed state database.
type StateProvider interface {
	GetState(addr common.Address, slot common.Hash) common.Hash
}

// LiveReader is the live adapter of §4.B item 1: it reads governance
// contract storage from the execution engine's state at a specific
// block. A zero word is indistinguishable from "never written" at this
// layer, which is exactly the semantics upstream state tries expose.
type LiveReader struct {
	state StateProvider
}

// NewLiveReader wraps a state provider (typically a *state.StateDB
// pinned to one block) as a Reader.
func NewLiveReader(state StateProvider) *LiveReader {
	return &LiveReader{state: state}
}

// ReadStorage implements Reader. The underlying trie has no notion of
// "absent" distinct from "zero", so ok is false exactly when the word is
// zero.
func (r *LiveReader) ReadStorage(contract common.Address, slot common.Hash) (common.Hash, bool, error) {
	word := r.state.GetState(contract, slot)
	return word, word != (common.Hash{}), nil
}
