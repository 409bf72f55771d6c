// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func testSigners(n int) []common.Address {
	out := make([]common.Address, n)
	for i := range out {
		out[i] = testAddress(byte(i + 1))
	}
	return out
}

func TestChainSpecEffectiveSignersFallsBackToGenesis(t *testing.T) {
	cfg := NewConfig(2, Second, 10, common.Address{}, true, testSigners(3)...)
	spec := NewChainSpec(cfg)
	require.False(t, spec.LiveSignersPopulated())
	require.ElementsMatch(t, cfg.GenesisSigners, spec.EffectiveSigners())
}

func TestChainSpecExpectedSignerRoundRobin(t *testing.T) {
	signers := testSigners(3)
	cfg := NewConfig(2, Second, 10, common.Address{}, true, signers...)
	spec := NewChainSpec(cfg)

	for n := uint64(0); n < 6; n++ {
		got, err := spec.ExpectedSigner(n)
		require.NoError(t, err)
		require.Equal(t, spec.GenesisSigners()[n%3], got)
	}
}

func TestChainSpecExpectedSignerEmptySet(t *testing.T) {
	cfg := NewConfig(2, Second, 10, common.Address{}, true)
	spec := NewChainSpec(cfg)
	_, err := spec.ExpectedSigner(0)
	require.ErrorIs(t, err, errEmptySignerSet)
}

func TestChainSpecIsAuthorized(t *testing.T) {
	signers := testSigners(3)
	cfg := NewConfig(2, Second, 10, common.Address{}, true, signers...)
	spec := NewChainSpec(cfg)

	require.True(t, spec.IsAuthorized(signers[0]))
	require.False(t, spec.IsAuthorized(testAddress(0xff)))
}

func TestChainSpecUpdateLiveSignersDiff(t *testing.T) {
	signers := testSigners(3)
	cfg := NewConfig(2, Second, 10, common.Address{}, true, signers[:2]...)
	spec := NewChainSpec(cfg)

	added, removed, err := spec.UpdateLiveSigners(signers)
	require.NoError(t, err)
	require.ElementsMatch(t, []common.Address{signers[2]}, added)
	require.Empty(t, removed)
	require.True(t, spec.LiveSignersPopulated())

	added, removed, err = spec.UpdateLiveSigners(signers[:1])
	require.NoError(t, err)
	require.Empty(t, added)
	require.ElementsMatch(t, []common.Address{signers[1], signers[2]}, removed)
}

func TestChainSpecUpdateLiveSignersRejectsInvalid(t *testing.T) {
	cfg := NewConfig(2, Second, 10, common.Address{}, true, testSigners(1)...)
	spec := NewChainSpec(cfg)

	_, _, err := spec.UpdateLiveSigners(nil)
	require.ErrorIs(t, err, errEmptySignerSet)

	dup := []common.Address{testAddress(1), testAddress(1)}
	_, _, err = spec.UpdateLiveSigners(dup)
	require.ErrorIs(t, err, errDuplicateSigner)

	_, _, err = spec.UpdateLiveSigners([]common.Address{{}})
	require.ErrorIs(t, err, errZeroAddressSigner)
}

func TestChainSpecIsEpochBlock(t *testing.T) {
	cfg := NewConfig(2, Second, 10, common.Address{}, true, testSigners(1)...)
	spec := NewChainSpec(cfg)
	require.False(t, spec.IsEpochBlock(0))
	require.False(t, spec.IsEpochBlock(9))
	require.True(t, spec.IsEpochBlock(10))
	require.True(t, spec.IsEpochBlock(20))
}
