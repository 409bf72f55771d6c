// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.
//
// The go-equa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-equa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-equa library. If not, see <http://www.gnu.org/licenses/>.

// Package poa implements the proof-of-authority consensus core: header
// validation and signature recovery, the round-robin signer schedule, the
// block sealer, and the fork-choice rule used in place of the post-Merge
// beacon chain.
package poa

import (
	"bytes"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultEpochLength is the number of blocks between signer-list
// checkpoints when a chain spec doesn't override it.
const DefaultEpochLength = 30000

// Config holds the immutable parameters of a POA chain, built once at node
// start from genesis and never mutated afterwards. The mutable piece of
// consensus state (the live signer set) lives in LiveSignerCache, not here.
//
//go:generate gencodec -type Config -field-override configMarshaling -out gen_config_json.go
type Config struct {
	Period         uint64           `json:"period"`         // block interval, in the unit PeriodUnit names
	PeriodUnit     TimeUnit         `json:"periodUnit"`      // Second or Millisecond
	Epoch          uint64           `json:"epoch"`           // blocks between signer-list checkpoints
	GenesisSigners []common.Address `json:"genesisSigners"`  // fallback signer set, ascending by address
	Coinbase       common.Address   `json:"coinbase"`        // configured block-reward proxy address
	Strict         bool             `json:"strict"`          // false = dev/relaxed mode, skips seal checks
}

// TimeUnit is the granularity a chain spec's period is expressed in.
type TimeUnit uint8

const (
	Second TimeUnit = iota
	Millisecond
)

// NewConfig builds a Config with genesis signers sorted ascending by
// address, as I5 and the epoch-embedding invariant require.
func NewConfig(period uint64, unit TimeUnit, epoch uint64, coinbase common.Address, strict bool, signers ...common.Address) *Config {
	if epoch == 0 {
		epoch = DefaultEpochLength
	}
	sorted := append([]common.Address(nil), signers...)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i].Bytes(), sorted[j].Bytes()) < 0 })
	return &Config{
		Period:         period,
		PeriodUnit:     unit,
		Epoch:          epoch,
		GenesisSigners: sorted,
		Coinbase:       coinbase,
		Strict:         strict,
	}
}

// PeriodDuration returns the configured period as a time.Duration,
// honoring whichever unit the chain spec declares (§9's open question on
// second- vs millisecond-granularity chains).
func (c *Config) PeriodDuration() time.Duration {
	if c.PeriodUnit == Millisecond {
		return time.Duration(c.Period) * time.Millisecond
	}
	return time.Duration(c.Period) * time.Second
}
