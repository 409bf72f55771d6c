// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import (
	"math/big"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Fixed storage slots the ChainConfig and SignerRegistry contracts are
// laid out at (§4.B's table). These are wire-format constants, not
// configuration: changing them changes which governance contract layout
// this reader understands.
var (
	slotGasLimit    = common.BigToHash(big.NewInt(1))
	slotBlockTime   = common.BigToHash(big.NewInt(2))
	slotSignerCount = common.BigToHash(big.NewInt(1))
	signerArrayBase = mustSignerArrayBase()
	signerMapSlot   = big.NewInt(2)
)

// mustSignerArrayBase computes keccak256(rlp_encode(1)), the dynamic
// array base slot §4.B's table specifies for SignerRegistry — note this
// is the literal governance-contract layout this core targets, not the
// ordinary Solidity dynamic-array slot formula (which hashes the array's
// own slot, not the constant 1).
func mustSignerArrayBase() common.Hash {
	enc, err := rlp.EncodeToBytes(uint64(1))
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}

// ReadGasLimit reads the ChainConfig contract's governed block gas limit.
// The slot is decoded through uint256.Int rather than math/big, matching
// the gas arithmetic component D's header validation already does for the
// elasticity bound (§4.D item 8).
func ReadGasLimit(r Reader, chainConfig common.Address) (uint64, error) {
	word, _, err := r.ReadStorage(chainConfig, slotGasLimit)
	if err != nil {
		return 0, err
	}
	return uint256.MustFromBig(word.Big()).Uint64(), nil
}

// ReadBlockTime reads the ChainConfig contract's governed block interval.
func ReadBlockTime(r Reader, chainConfig common.Address) (uint64, error) {
	word, _, err := r.ReadStorage(chainConfig, slotBlockTime)
	if err != nil {
		return 0, err
	}
	return word.Big().Uint64(), nil
}

// ReadSignerCount reads the SignerRegistry contract's signer count N. ok
// is the Reader's ok for the count slot: false when the reader reports
// that slot as never written (for example, no registry at signerRegistry).
func ReadSignerCount(r Reader, signerRegistry common.Address) (n uint64, ok bool, err error) {
	word, ok, err := r.ReadStorage(signerRegistry, slotSignerCount)
	if err != nil {
		return 0, false, err
	}
	return word.Big().Uint64(), ok, nil
}

// ReadSignerAt reads the address stored at index i of the SignerRegistry
// contract's dense array.
func ReadSignerAt(r Reader, signerRegistry common.Address, i uint64) (common.Address, error) {
	slot := new(big.Int).Add(signerArrayBase.Big(), new(big.Int).SetUint64(i))
	word, _, err := r.ReadStorage(signerRegistry, common.BigToHash(slot))
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(word.Bytes()), nil
}

// ReadIsSigner reads the SignerRegistry contract's membership mapping for
// addr directly, without iterating the full list.
func ReadIsSigner(r Reader, signerRegistry common.Address, addr common.Address) (bool, error) {
	key := append(common.LeftPadBytes(addr.Bytes(), 32), common.LeftPadBytes(signerMapSlot.Bytes(), 32)...)
	slot := crypto.Keccak256Hash(key)
	word, _, err := r.ReadStorage(signerRegistry, slot)
	if err != nil {
		return false, err
	}
	return word.Big().Sign() != 0, nil
}

// ReadSignerList iterates read_signer_count and read_signer_at to collect
// the full effective signer set. It returns ok=false (callers then fall
// back to the live cache) on any read failure; a successful read is
// deduplicated and rejected if it contains the zero address, enforcing
// I7 at the source rather than leaving it to the caller.
func ReadSignerList(r Reader, signerRegistry common.Address) (signers []common.Address, ok bool) {
	n, present, err := ReadSignerCount(r, signerRegistry)
	if err != nil || !present {
		return nil, false
	}

	seen := mapset.NewThreadUnsafeSet[common.Address]()
	out := make([]common.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		addr, err := ReadSignerAt(r, signerRegistry, i)
		if err != nil {
			return nil, false
		}
		if addr == (common.Address{}) {
			return nil, false
		}
		if seen.Contains(addr) {
			continue
		}
		seen.Add(addr)
		out = append(out, addr)
	}

	sort.Slice(out, func(i, j int) bool { return lessAddress(out[i], out[j]) })
	return out, true
}

func lessAddress(a, b common.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
