// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	chainConfigAddr    = common.HexToAddress("0xaaaa000000000000000000000000000000aaaa")
	signerRegistryAddr = common.HexToAddress("0xbbbb000000000000000000000000000000bbbb")
)

func seedRegistry(signers ...common.Address) GenesisAlloc {
	slots := map[common.Hash]common.Hash{
		slotSignerCount: common.BigToHash(big.NewInt(int64(len(signers)))),
	}
	for i, addr := range signers {
		slot := common.BigToHash(new(big.Int).Add(signerArrayBase.Big(), big.NewInt(int64(i))))
		slots[slot] = common.BytesToHash(addr.Bytes())

		key := append(common.LeftPadBytes(addr.Bytes(), 32), common.LeftPadBytes(signerMapSlot.Bytes(), 32)...)
		mappingSlot := crypto.Keccak256Hash(key)
		slots[mappingSlot] = common.BigToHash(big.NewInt(1))
	}
	return GenesisAlloc{signerRegistryAddr: slots}
}

func TestReadGasLimitAndBlockTime(t *testing.T) {
	alloc := GenesisAlloc{
		chainConfigAddr: {
			slotGasLimit:  common.BigToHash(big.NewInt(30_000_000)),
			slotBlockTime: common.BigToHash(big.NewInt(2)),
		},
	}
	r := NewGenesisReader(alloc)

	gasLimit, err := ReadGasLimit(r, chainConfigAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(30_000_000), gasLimit)

	blockTime, err := ReadBlockTime(r, chainConfigAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(2), blockTime)
}

func TestReadSignerListRoundTrip(t *testing.T) {
	signers := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
		common.HexToAddress("0x3333333333333333333333333333333333333333"),
	}
	r := NewGenesisReader(seedRegistry(signers...))

	got, ok := ReadSignerList(r, signerRegistryAddr)
	require.True(t, ok)
	require.ElementsMatch(t, signers, got)

	for _, addr := range signers {
		isSigner, err := ReadIsSigner(r, signerRegistryAddr, addr)
		require.NoError(t, err)
		require.True(t, isSigner)
	}
	isSigner, err := ReadIsSigner(r, signerRegistryAddr, common.HexToAddress("0x9999999999999999999999999999999999999999"))
	require.NoError(t, err)
	require.False(t, isSigner)
}

func TestReadSignerListRejectsZeroAddress(t *testing.T) {
	alloc := seedRegistry(common.Address{})
	r := NewGenesisReader(alloc)
	_, ok := ReadSignerList(r, signerRegistryAddr)
	require.False(t, ok)
}

func TestReadSignerListMissingContractFallsBack(t *testing.T) {
	r := NewGenesisReader(GenesisAlloc{})
	_, ok := ReadSignerList(r, signerRegistryAddr)
	require.False(t, ok)
}

func TestSignerListRefresherReturnsSignerList(t *testing.T) {
	signers := []common.Address{common.HexToAddress("0x1111111111111111111111111111111111111111")}
	r := NewGenesisReader(seedRegistry(signers...))
	refresher := NewSignerListRefresher(r)

	got, ok := refresher.Refresh(signerRegistryAddr)
	require.True(t, ok)
	require.Equal(t, signers, got)
}

type fakeStateProvider map[common.Hash]common.Hash

func (f fakeStateProvider) GetState(addr common.Address, slot common.Hash) common.Hash {
	return f[slot]
}

func TestLiveReaderReadsUnderlyingState(t *testing.T) {
	state := fakeStateProvider{slotGasLimit: common.BigToHash(big.NewInt(42))}
	r := NewLiveReader(state)

	word, ok, err := r.ReadStorage(chainConfigAddr, slotGasLimit)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), word.Big().Uint64())
}
