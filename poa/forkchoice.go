// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ScoreChain implements §4.D's fork-choice score: the count of headers in
// chain whose recovered signer is in-turn for the signer set active at
// that block. chain must be ordered ascending by number from a common
// ancestor; genesisSigners seeds the signer set used before the first
// epoch block in chain is reached, mirroring the latching rule historical
// replay applies (§9).
func ScoreChain(chain []*types.Header, genesisSigners []common.Address, epoch uint64) (int, error) {
	active := append([]common.Address(nil), genesisSigners...)
	score := 0
	for _, h := range chain {
		number := h.Number.Uint64()
		if number > 0 && number%epoch == 0 {
			extra, err := DecodeExtra(h.Extra)
			if err != nil {
				return 0, err
			}
			if len(extra.Signers) > 0 {
				active = extra.Signers
			}
		}
		if len(active) == 0 {
			continue
		}
		signer, err := Recover(h)
		if err != nil {
			return 0, err
		}
		expected := active[number%uint64(len(active))]
		if signer == expected {
			score++
		}
	}
	return score, nil
}

// CompareChains orders two candidate chains per §4.D: higher score wins;
// ties break by length, then by lowest final-block hash. It returns a
// negative number if a should be preferred over b, zero if neither is
// preferred, and positive if b should be preferred — the same convention
// as a standard library less-than comparator.
func CompareChains(a, b []*types.Header, genesisSigners []common.Address, epoch uint64) (int, error) {
	scoreA, err := ScoreChain(a, genesisSigners, epoch)
	if err != nil {
		return 0, err
	}
	scoreB, err := ScoreChain(b, genesisSigners, epoch)
	if err != nil {
		return 0, err
	}
	if scoreA != scoreB {
		return scoreB - scoreA, nil
	}
	if len(a) != len(b) {
		return len(b) - len(a), nil
	}
	if len(a) == 0 {
		return 0, nil
	}
	hashA := a[len(a)-1].Hash()
	hashB := b[len(b)-1].Hash()
	return bytes.Compare(hashA.Bytes(), hashB.Bytes()), nil
}
