// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import "github.com/ethereum/go-ethereum/common"

// GenesisAlloc is the deterministic, in-memory storage-fixture shape
// named but not specified by §4.B item 2 — a per-contract map of slot to
// value, the same nested-map shape upstream go-ethereum's own
// core.GenesisAlloc account-storage field uses. It lets tests and
// startup seeding exercise the typed readers without a live state trie.
type GenesisAlloc map[common.Address]map[common.Hash]common.Hash

// GenesisReader is the genesis adapter of §4.B item 2: stateless,
// deterministic, and incapable of I/O failure by construction.
type GenesisReader struct {
	alloc GenesisAlloc
}

// NewGenesisReader wraps a GenesisAlloc as a Reader.
func NewGenesisReader(alloc GenesisAlloc) *GenesisReader {
	return &GenesisReader{alloc: alloc}
}

// ReadStorage implements Reader. ok is false when the contract has no
// entry at all in the alloc map or the contract is present but the slot
// was never set; it is true once the slot has an entry, even a zero word.
func (r *GenesisReader) ReadStorage(contract common.Address, slot common.Hash) (common.Hash, bool, error) {
	slots, ok := r.alloc[contract]
	if !ok {
		return common.Hash{}, false, nil
	}
	word, ok := slots[slot]
	return word, ok, nil
}
