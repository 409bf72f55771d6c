// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors that carry no extra data.
var (
	errUnknownBlock      = errors.New("unknown block")
	errInvalidVanity     = errors.New("extra-data vanity prefix must be 32 bytes")
	errEmptySignerSet    = errors.New("signer set is empty")
	errDuplicateSigner   = errors.New("signer set contains a duplicate address")
	errZeroAddressSigner = errors.New("signer set contains the zero address")
	errInvalidKeyMaterial = errors.New("invalid private key material")
)

// ExtraDataTooShortError is returned when extra_data is shorter than the
// POA seal requires (I1, B1).
type ExtraDataTooShortError struct {
	Expected int
	Got      int
}

func (e *ExtraDataTooShortError) Error() string {
	return fmt.Sprintf("extra-data too short: expected at least %d bytes, got %d", e.Expected, e.Got)
}

// UnauthorizedSignerError is returned when a recovered signer is not a
// member of the effective signer set (I2).
type UnauthorizedSignerError struct {
	Signer common.Address
}

func (e *UnauthorizedSignerError) Error() string {
	return fmt.Sprintf("unauthorized signer %s", e.Signer.Hex())
}

// WrongSignerError is reserved for deployments that reject out-of-turn
// blocks outright; the default strict mode in this core does not raise it
// (out-of-turn blocks are valid but dispreferred, per §4.D fork choice).
type WrongSignerError struct {
	Expected common.Address
	Got      common.Address
}

func (e *WrongSignerError) Error() string {
	return fmt.Sprintf("wrong signer: expected %s, got %s", e.Expected.Hex(), e.Got.Hex())
}

// ErrInvalidDifficulty is returned when difficulty != 0 in strict mode (I3).
var ErrInvalidDifficulty = errors.New("invalid difficulty: must be zero under proof-of-authority")

// TimestampTooEarlyError is returned when a child's timestamp violates I4.
type TimestampTooEarlyError struct {
	Got    uint64
	Parent uint64
	Period uint64
}

func (e *TimestampTooEarlyError) Error() string {
	return fmt.Sprintf("timestamp %d too early: parent %d + period %d", e.Got, e.Parent, e.Period)
}

// InvalidGasLimitError is returned when a child header's gas limit jumps
// further from its parent's than the EIP-1559 elasticity bound allows
// (§4.D item 8 / I-series gas-limit-jump invariant). Distinct from
// BlockGasUsedError, which reports gas_used failures (item 9's
// gas_used > gas_limit and item 14's post-execution mismatch) — a
// different consensus failure in §7's taxonomy.
type InvalidGasLimitError struct {
	Got    uint64
	Parent uint64
	Bound  uint64
}

func (e *InvalidGasLimitError) Error() string {
	return fmt.Sprintf("invalid gas limit: got %d, parent %d, bound %d", e.Got, e.Parent, e.Bound)
}

// TimestampTooFarInFutureError is returned by callers that apply their own
// future-drift budget; the core itself does not enforce an upper bound
// since that policy belongs to the wrapped engine (§7).
type TimestampTooFarInFutureError struct {
	Got uint64
}

func (e *TimestampTooFarInFutureError) Error() string {
	return fmt.Sprintf("timestamp %d too far in the future", e.Got)
}

// InvalidSignerListError is returned when an epoch block's embedded signer
// list fails the checks in §4.D item 12 (B3, scenario 4).
type InvalidSignerListError struct {
	Reason string
}

func (e *InvalidSignerListError) Error() string {
	return fmt.Sprintf("invalid epoch signer list: %s", e.Reason)
}

// ErrWrongCoinbase is returned when the header's coinbase does not match
// the configured block-reward proxy address (I6).
var ErrWrongCoinbase = errors.New("coinbase does not match the configured proxy address")

// BlockGasUsedError is returned when execution's computed gas_used
// disagrees with the header (§4.D item 14), and by ValidateBody when the
// header's gas_used exceeds its gas_limit (item 9; Expected then holds
// the gas limit).
type BlockGasUsedError struct {
	Got      uint64
	Expected uint64
}

func (e *BlockGasUsedError) Error() string {
	return fmt.Sprintf("invalid gas used: got %d, expected %d", e.Got, e.Expected)
}

// ErrBodyReceiptRootDiff / ErrBodyBloomLogDiff mirror §4.D items 15-16.
var (
	ErrBodyReceiptRootDiff = errors.New("receipts root mismatch")
	ErrBodyBloomLogDiff    = errors.New("logs bloom mismatch")
)

// Signing errors (§4.C, §7).
var (
	ErrInvalidPrivateKey = errInvalidKeyMaterial
)

// NoSignerForAddressError is returned when the Signer Manager holds no key
// for the requested address.
type NoSignerForAddressError struct {
	Address common.Address
}

func (e *NoSignerForAddressError) Error() string {
	return fmt.Sprintf("no signer held for address %s", e.Address.Hex())
}

// SigningFailedError wraps an underlying ECDSA failure.
type SigningFailedError struct {
	Detail string
}

func (e *SigningFailedError) Error() string {
	return fmt.Sprintf("signing failed: %s", e.Detail)
}

// BlockHashMismatchError is returned by the engine bridge when the reseal
// does not reproduce the payload envelope's declared hash (§4.F item 5).
type BlockHashMismatchError struct {
	Got      common.Hash
	Expected common.Hash
}

func (e *BlockHashMismatchError) Error() string {
	return fmt.Sprintf("block hash mismatch after reseal: got %s, expected %s", e.Got.Hex(), e.Expected.Hex())
}
