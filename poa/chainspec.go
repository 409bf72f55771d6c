// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"github.com/ethereum/go-ethereum/common"
)

// ChainSpec wraps the immutable POA Config together with the shared live
// signer cache, giving both the Consensus validator and the Payload
// Builder a single, reference-counted handle onto "what the effective
// signer set is right now" (component A in §4).
type ChainSpec struct {
	config *Config
	live   *LiveSignerCache
}

// NewChainSpec builds a ChainSpec around a fresh, unpopulated live cache.
func NewChainSpec(config *Config) *ChainSpec {
	return &ChainSpec{config: config, live: NewLiveSignerCache()}
}

// Period returns the configured block interval in Config's declared unit.
func (s *ChainSpec) Period() uint64 { return s.config.Period }

// Epoch returns the configured checkpoint interval.
func (s *ChainSpec) Epoch() uint64 { return s.config.Epoch }

// Coinbase returns the configured block-reward proxy address (I6).
func (s *ChainSpec) Coinbase() common.Address { return s.config.Coinbase }

// Strict reports whether strict (signed-block) validation applies, as
// opposed to the dev/relaxed mode the upstream builder uses before any
// signer is configured.
func (s *ChainSpec) Strict() bool { return s.config.Strict }

// GenesisSigners returns the fallback signer set, ascending by address.
func (s *ChainSpec) GenesisSigners() []common.Address {
	out := make([]common.Address, len(s.config.GenesisSigners))
	copy(out, s.config.GenesisSigners)
	return out
}

// EffectiveSigners returns the live cache contents if populated,
// otherwise the genesis fallback.
func (s *ChainSpec) EffectiveSigners() []common.Address {
	if signers, ok := s.live.Get(); ok {
		return signers
	}
	return s.GenesisSigners()
}

// ExpectedSigner returns signers[number mod len(signers)] for the
// effective set observed at call time. Consensus must reject a state in
// which the effective set is empty before calling this.
func (s *ChainSpec) ExpectedSigner(number uint64) (common.Address, error) {
	signers := s.EffectiveSigners()
	if len(signers) == 0 {
		return common.Address{}, errEmptySignerSet
	}
	return signers[number%uint64(len(signers))], nil
}

// IsAuthorized reports whether addr is a member of the effective set. A
// negative from the live cache's bloom filter is conclusive and skips the
// exact scan entirely; a positive (or an unpopulated cache) falls through
// to the exact membership check below.
func (s *ChainSpec) IsAuthorized(addr common.Address) bool {
	if !s.live.MightContain(addr) {
		return false
	}
	for _, a := range s.EffectiveSigners() {
		if a == addr {
			return true
		}
	}
	return false
}

// IsEpochBlock reports whether number is a checkpoint block.
func (s *ChainSpec) IsEpochBlock(number uint64) bool {
	return number > 0 && number%s.config.Epoch == 0
}

// UpdateLiveSigners atomically replaces the live cache, returning the
// added/removed addresses for telemetry. Used by the Payload Builder at
// startup and on epoch blocks, and by the Consensus validator when it
// latches an epoch block's embedded list (§9).
func (s *ChainSpec) UpdateLiveSigners(next []common.Address) (added, removed []common.Address, err error) {
	return s.live.Update(next, s.GenesisSigners())
}

// LiveSignersPopulated reports whether the live cache has ever been set,
// used by the latching rule in §4.D item 12.
func (s *ChainSpec) LiveSignersPopulated() bool {
	_, ok := s.live.Get()
	return ok
}
