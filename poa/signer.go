// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignerManager owns the private keys a node can seal blocks with. It is
// accessed concurrently — the Payload Builder calls it while producing a
// block, RPC handlers may call it while rotating keys — so every
// operation takes a shared-reader/exclusive-writer lock. Signing itself
// is a short, CPU-bound secp256k1 operation; per §9's note, a plain mutex
// is sufficient in Go and there is no async executor to avoid re-entering.
type SignerManager struct {
	mu   sync.RWMutex
	keys map[common.Address]*secp256k1.PrivateKey
}

// NewSignerManager returns an empty manager.
func NewSignerManager() *SignerManager {
	return &SignerManager{keys: make(map[common.Address]*secp256k1.PrivateKey)}
}

// Add derives the address for keyBytes, validates it, and stores it.
// Malformed key material (wrong length, zero scalar, or not reduced modulo
// the curve order) is rejected with ErrInvalidPrivateKey, giving §4.C's
// "fails if the key material is malformed" a concrete, testable shape.
func (m *SignerManager) Add(keyBytes []byte) (common.Address, error) {
	if len(keyBytes) != 32 {
		return common.Address{}, ErrInvalidPrivateKey
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return common.Address{}, ErrInvalidPrivateKey
	}
	priv := secp256k1.NewPrivateKey(&scalar)

	pub := priv.PubKey().SerializeUncompressed()
	addr := common.BytesToAddress(crypto.Keccak256(pub[1:])[12:])

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[addr] = priv
	return addr, nil
}

// Has reports whether the manager holds a key for addr.
func (m *SignerManager) Has(addr common.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.keys[addr]
	return ok
}

// Addresses returns every address the manager currently holds a key for.
func (m *SignerManager) Addresses() []common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]common.Address, 0, len(m.keys))
	for a := range m.keys {
		out = append(out, a)
	}
	return out
}

// SignHash signs a 32-byte digest with the key held for addr, producing
// the 65-byte r||s||v signature §3 embeds in extra_data.
func (m *SignerManager) SignHash(addr common.Address, hash [32]byte) ([ExtraSealLength]byte, error) {
	m.mu.RLock()
	priv, ok := m.keys[addr]
	m.mu.RUnlock()
	if !ok {
		return [ExtraSealLength]byte{}, &NoSignerForAddressError{Address: addr}
	}

	// SignCompact returns [1+32+32]byte: recovery byte (27/28, +4 if the
	// pubkey should be treated as compressed) followed by R and S. We
	// don't want the compressed-recovery hint, so request uncompressed
	// and translate into Ethereum's r(32)||s(32)||v(1) with v in {0,1}.
	compact := ecdsa.SignCompact(priv, hash[:], false)
	if len(compact) != 65 {
		return [ExtraSealLength]byte{}, &SigningFailedError{Detail: "unexpected signature length"}
	}

	var sig [ExtraSealLength]byte
	copy(sig[0:32], compact[1:33])
	copy(sig[32:64], compact[33:65])
	sig[64] = (compact[0] - 27) & 0x1
	return sig, nil
}
