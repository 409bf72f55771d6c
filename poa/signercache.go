// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"bytes"
	"hash"
	"hash/fnv"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	bloomfilter "github.com/holiman/bloomfilter/v2"
)

// bloomFalsePositiveRate and bloomCapacityHint size the filter for a
// membership set that is, in practice, a few dozen signers at most; the
// exact mapset membership check always has the final say, so a too-high
// false-positive rate only costs an extra exact check, never a wrong
// answer.
const (
	bloomCapacityHint      = 256
	bloomFalsePositiveRate = 0.01
)

// LiveSignerCache is the process-wide, lock-protected, optional signer
// sequence described in §3 and §9: "None" means the chain has not yet been
// observed at an epoch boundary; "Some(s)" is the signer set the node last
// read off the governance contract (or latched from an epoch block's
// embedded list, §9's latching rule).
//
// It is shared by reference between the Consensus validator and the
// Payload Builder for the lifetime of the node, never recreated. Writers
// take an exclusive lock and replace the whole slice atomically; readers
// take a shared lock and copy out, so a reader never observes a torn mix
// (§5's release/acquire requirement).
type LiveSignerCache struct {
	mu      sync.RWMutex
	signers []common.Address // nil == unpopulated
	bloom   *bloomfilter.Filter
}

// NewLiveSignerCache returns an empty (unpopulated) cache.
func NewLiveSignerCache() *LiveSignerCache {
	return &LiveSignerCache{}
}

// MightContain is a cheap, false-positives-allowed pre-check: a negative
// answer proves addr is not in the cached set without taking the full
// membership path. Used by ChainSpec.IsAuthorized ahead of the exact
// check; always returns true when the cache is unpopulated so the caller
// falls through to the genesis fallback.
func (c *LiveSignerCache) MightContain(addr common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bloom == nil {
		return true
	}
	return c.bloom.Contains(addrHash(addr))
}

// addrHash feeds the address bytes through FNV-64a, the hash.Hash64
// bloomfilter.Filter expects for Add/Contains.
func addrHash(addr common.Address) hash.Hash64 {
	h := fnv.New64a()
	h.Write(addr.Bytes())
	return h
}

// Get returns a copy of the cached signer set and whether it has been
// populated yet.
func (c *LiveSignerCache) Get() ([]common.Address, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signers == nil {
		return nil, false
	}
	out := make([]common.Address, len(c.signers))
	copy(out, c.signers)
	return out, true
}

// Update atomically replaces the cache contents. The incoming list is
// validated (non-empty, deduplicated, no zero address — I7) and sorted
// ascending by address before being stored, and the added/removed
// addresses relative to the previous contents are returned so callers can
// log a human-readable diff (the epoch-rollover telemetry hook named in
// SPEC_FULL.md's supplemented features). baseline is the set to diff
// against when the cache has never been populated yet, i.e. ChainSpec's
// genesis signers (§9's latching rule: the first live update replaces the
// genesis fallback, it doesn't arrive on top of nothing).
func (c *LiveSignerCache) Update(next, baseline []common.Address) (added, removed []common.Address, err error) {
	sorted, err := normalizeSignerSet(next)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prevSigners := c.signers
	if prevSigners == nil {
		prevSigners = baseline
	}
	prev := mapset.NewThreadUnsafeSet[common.Address]()
	for _, a := range prevSigners {
		prev.Add(a)
	}
	curr := mapset.NewThreadUnsafeSet[common.Address]()
	for _, a := range sorted {
		curr.Add(a)
	}
	added = curr.Difference(prev).ToSlice()
	removed = prev.Difference(curr).ToSlice()

	bloom, berr := bloomfilter.NewOptimal(bloomCapacityHint, bloomFalsePositiveRate)
	if berr != nil {
		return nil, nil, berr
	}
	for _, a := range sorted {
		bloom.Add(addrHash(a))
	}

	c.signers = sorted
	c.bloom = bloom
	return added, removed, nil
}

// normalizeSignerSet validates and sorts a candidate signer list,
// enforcing I7 (non-empty, no duplicates, no zero address).
func normalizeSignerSet(in []common.Address) ([]common.Address, error) {
	if len(in) == 0 {
		return nil, errEmptySignerSet
	}
	seen := mapset.NewThreadUnsafeSet[common.Address]()
	out := make([]common.Address, 0, len(in))
	for _, a := range in {
		if a == (common.Address{}) {
			return nil, errZeroAddressSigner
		}
		if seen.Contains(a) {
			return nil, errDuplicateSigner
		}
		seen.Add(a)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].Bytes(), out[j].Bytes()) < 0 })
	return out, nil
}
