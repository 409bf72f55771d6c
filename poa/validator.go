// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"bytes"
	"sort"

	lru "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

const (
	inmemorySignatures = 4096 // recent seal-hash -> signer recoveries to cache, grounded on consortium.go
	gasLimitBoundDivisor = 1024
)

// Validator implements the four validation passes of component D; the
// fork-choice score is the package-level ScoreChain/CompareChains pair.
// It is stateless between calls except for the
// recent-recovery cache, which is a pure performance optimization — the
// actual consensus state lives in the ChainSpec's live signer cache.
type Validator struct {
	spec      *ChainSpec
	sigcache  *lru.ARCCache[common.Hash, common.Address]
}

// HeaderReader is the minimal parent-lookup contract the validator needs
// from the wrapped chain; it is satisfied by any upstream
// consensus.ChainHeaderReader.
type HeaderReader interface {
	GetHeader(hash common.Hash, number uint64) *types.Header
}

// NewValidator builds a Validator around the given ChainSpec.
func NewValidator(spec *ChainSpec) (*Validator, error) {
	cache, err := lru.NewARC[common.Hash, common.Address](inmemorySignatures)
	if err != nil {
		return nil, err
	}
	return &Validator{spec: spec, sigcache: cache}, nil
}

// recoverCached wraps Recover with the ARC cache keyed by seal hash, so
// repeated validation of the same header (e.g. during a reorg replay)
// doesn't re-run ECDSA recovery.
func (v *Validator) recoverCached(header *types.Header) (common.Address, error) {
	hash, err := SealHash(header)
	if err != nil {
		return common.Address{}, err
	}
	if addr, ok := v.sigcache.Get(hash); ok {
		return addr, nil
	}
	addr, err := Recover(header)
	if err != nil {
		return common.Address{}, err
	}
	v.sigcache.Add(hash, addr)
	return addr, nil
}

// ValidateHeader runs the no-parent-context checks of §4.D items 1-4.
// Standard Ethereum header shape/field-domain checks (item 4) are the
// wrapped engine's responsibility and are not repeated here.
func (v *Validator) ValidateHeader(header *types.Header) error {
	if header.Number == nil {
		return errUnknownBlock
	}

	if v.spec.Strict() {
		if len(header.Extra) < ExtraVanityLength+ExtraSealLength {
			return &ExtraDataTooShortError{Expected: ExtraVanityLength + ExtraSealLength, Got: len(header.Extra)}
		}
		signer, err := v.recoverCached(header)
		if err != nil {
			return err
		}
		if !v.spec.IsAuthorized(signer) {
			return &UnauthorizedSignerError{Signer: signer}
		}
		if header.Difficulty == nil || header.Difficulty.Sign() != 0 {
			return ErrInvalidDifficulty
		}
	}

	if header.Coinbase != v.spec.Coinbase() {
		return ErrWrongCoinbase
	}
	return nil
}

// ValidateHeaderAgainstParent runs §4.D items 5-8.
func (v *Validator) ValidateHeaderAgainstParent(header, parent *types.Header) error {
	if header.Number.Uint64() != parent.Number.Uint64()+1 {
		return errUnknownBlock
	}
	if header.ParentHash != parent.Hash() {
		return errUnknownBlock
	}

	period := v.spec.Period()
	if header.Time < parent.Time || header.Time-parent.Time < period {
		return &TimestampTooEarlyError{Got: header.Time, Parent: parent.Time, Period: period}
	}

	bound := new(uint256.Int).SetUint64(parent.GasLimit)
	bound.Div(bound, uint256.NewInt(gasLimitBoundDivisor))
	diff := int64(header.GasLimit) - int64(parent.GasLimit)
	if diff < 0 {
		diff = -diff
	}
	if uint64(diff) > bound.Uint64() {
		return &InvalidGasLimitError{Got: header.GasLimit, Parent: parent.GasLimit, Bound: bound.Uint64()}
	}
	return nil
}

// ValidateBody runs §4.D item 9. Transactions-root/withdrawals-root
// checks (item 10) are delegated upstream.
func (v *Validator) ValidateBody(header *types.Header) error {
	if header.GasUsed > header.GasLimit {
		return &BlockGasUsedError{Got: header.GasUsed, Expected: header.GasLimit}
	}
	return nil
}

// ValidatePreExecution runs §4.D items 11-12, including the epoch-block
// signer-list latching rule from §9.
func (v *Validator) ValidatePreExecution(header *types.Header) error {
	if v.spec.Strict() {
		if len(header.Extra) < ExtraVanityLength+ExtraSealLength {
			return &ExtraDataTooShortError{Expected: ExtraVanityLength + ExtraSealLength, Got: len(header.Extra)}
		}
	}

	number := header.Number.Uint64()
	if !v.spec.IsEpochBlock(number) {
		return nil
	}

	extra, err := DecodeExtra(header.Extra)
	if err != nil {
		return err
	}
	if len(extra.Signers) == 0 {
		return &InvalidSignerListError{Reason: "embedded signer list is empty"}
	}
	if !sort.SliceIsSorted(extra.Signers, func(i, j int) bool { return bytes.Compare(extra.Signers[i].Bytes(), extra.Signers[j].Bytes()) < 0 }) {
		return &InvalidSignerListError{Reason: "embedded signer list is not sorted ascending"}
	}
	if hasDuplicateAddress(extra.Signers) {
		return &InvalidSignerListError{Reason: "embedded signer list has a duplicate address"}
	}

	if !v.spec.LiveSignersPopulated() {
		// Latching (§9): accept the embedded list as authoritative the
		// first time this node observes an epoch block.
		_, _, err := v.spec.UpdateLiveSigners(extra.Signers)
		return err
	}

	effective := v.spec.EffectiveSigners()
	if !addressSlicesEqual(extra.Signers, effective) {
		return &InvalidSignerListError{Reason: "embedded signer list disagrees with the observed live set"}
	}
	return nil
}

// ValidatePostExecution runs §4.D items 14-16. gasUsed, receiptsRoot and
// logsBloom are the values execution actually computed; header carries
// the values the block claims.
func (v *Validator) ValidatePostExecution(header *types.Header, gasUsed uint64, receiptsRoot common.Hash, logsBloom types.Bloom) error {
	if gasUsed != header.GasUsed {
		return &BlockGasUsedError{Got: gasUsed, Expected: header.GasUsed}
	}
	if receiptsRoot != header.ReceiptHash {
		return ErrBodyReceiptRootDiff
	}
	if logsBloom != header.Bloom {
		return ErrBodyBloomLogDiff
	}
	return nil
}

func hasDuplicateAddress(addrs []common.Address) bool {
	seen := make(map[common.Address]struct{}, len(addrs))
	for _, a := range addrs {
		if _, ok := seen[a]; ok {
			return true
		}
		seen[a] = struct{}{}
	}
	return false
}

func addressSlicesEqual(a, b []common.Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
