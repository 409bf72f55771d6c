// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// SealHash returns keccak256(rlp(H')), H' being header with its trailing
// 65-byte seal stripped off extra_data. Defined for headers whose
// extra_data is at least 65 bytes (§3).
func SealHash(header *types.Header) (common.Hash, error) {
	if len(header.Extra) < ExtraSealLength {
		return common.Hash{}, &ExtraDataTooShortError{Expected: ExtraSealLength, Got: len(header.Extra)}
	}
	cpy := types.CopyHeader(header)
	cpy.Extra = StripSeal(header.Extra)

	hasher := sha3.NewLegacyKeccak256()
	if err := rlp.Encode(hasher, cpy); err != nil {
		return common.Hash{}, err
	}
	var hash common.Hash
	hasher.Sum(hash[:0])
	return hash, nil
}

// Seal produces a header that satisfies I1/I2 for signerAddr: it computes
// the seal hash, asks the Signer Manager for a signature, and appends it
// to extra_data in place of the trailing 65 bytes that sat there before
// (typically a placeholder). It fails with ExtraDataTooShortError when
// extra_data is under 65 bytes.
func Seal(manager *SignerManager, header *types.Header, signerAddr common.Address) (*types.Header, error) {
	cpy := types.CopyHeader(header)

	// The seal hash is computed over the header with no trailing seal, so
	// extra_data must already carry at least the vanity prefix plus
	// ExtraSealLength placeholder bytes (or be freshly built by the
	// caller with exactly that shape) before Seal is invoked.
	hash, err := SealHash(cpy)
	if err != nil {
		return nil, err
	}

	sig, err := manager.SignHash(signerAddr, hash)
	if err != nil {
		return nil, err
	}

	cpy.Extra = append(StripSeal(cpy.Extra), sig[:]...)
	return cpy, nil
}

// Recover extracts the signer address from a header's seal. It fails with
// ExtraDataTooShortError if extra_data is under 65 bytes.
func Recover(header *types.Header) (common.Address, error) {
	if len(header.Extra) < ExtraSealLength {
		return common.Address{}, &ExtraDataTooShortError{Expected: ExtraSealLength, Got: len(header.Extra)}
	}
	sig := header.Extra[len(header.Extra)-ExtraSealLength:]

	hash, err := SealHash(header)
	if err != nil {
		return common.Address{}, err
	}

	return recoverFromCompact(hash, sig)
}

// recoverFromCompact reverses SignerManager.SignHash's re-encoding back
// into the compact [recid|R|S] form decred's secp256k1 expects, then
// recovers the public key and hashes it down to an address the same way
// go-ethereum's crypto.Ecrecover does.
func recoverFromCompact(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != ExtraSealLength {
		return common.Address{}, &ExtraDataTooShortError{Expected: ExtraSealLength, Got: len(sig)}
	}
	compact := make([]byte, 65)
	compact[0] = 27 + sig[64]
	copy(compact[1:33], sig[0:32])
	copy(compact[33:65], sig[32:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return common.Address{}, &SigningFailedError{Detail: err.Error()}
	}

	uncompressed := pub.SerializeUncompressed()
	return common.BytesToAddress(crypto.Keccak256(uncompressed[1:])[12:]), nil
}

// ValidateKeyMaterial is exposed so callers (e.g. a keystore loader) can
// check a candidate private key before handing it to SignerManager.Add.
func ValidateKeyMaterial(keyBytes []byte) error {
	if len(keyBytes) != 32 {
		return ErrInvalidPrivateKey
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return ErrInvalidPrivateKey
	}
	return nil
}
