// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PayloadConverter is the upstream conversion this bridge wraps: the
// Engine API's execution-payload -> block decoder, which enforces an
// extra_data <= 32 byte invariant POA violates (§4.F, §9). It is
// satisfied by beacon.ExecutableDataToBlock bound to a params.Config and
// a parent header via a closure at the call site.
type PayloadConverter func(data engine.ExecutableData, versionedHashes []common.Hash, beaconRoot *common.Hash, requests [][]byte) (*types.Block, error)

// EngineBridge implements §4.F: it strips the >32-byte extra_data before
// handing a payload to the upstream converter, restores it afterward,
// and reseals the block so its hash matches what the payload envelope
// declared. Every other Engine API operation (fork-choice-updated,
// get-payload, attribute validation) is the upstream validator's
// business and is not touched here.
type EngineBridge struct {
	convert PayloadConverter
}

// NewEngineBridge wraps convert, the upstream try_into_block equivalent.
func NewEngineBridge(convert PayloadConverter) *EngineBridge {
	return &EngineBridge{convert: convert}
}

// ConvertPayloadToBlock runs the five steps of §4.F:
//  1. record the payload's declared hash
//  2. strip extra_data
//  3. invoke the upstream converter (now satisfying its own invariant)
//  4. restore extra_data
//  5. reseal and verify the hash round-trips
func (b *EngineBridge) ConvertPayloadToBlock(data engine.ExecutableData, versionedHashes []common.Hash, beaconRoot *common.Hash, requests [][]byte) (*types.Block, error) {
	expectedHash := data.BlockHash

	savedExtra := data.ExtraData
	data.ExtraData = nil

	block, err := b.convert(data, versionedHashes, beaconRoot, requests)
	if err != nil {
		return nil, err
	}

	header := types.CopyHeader(block.Header())
	header.Extra = savedExtra
	resealed := block.WithSeal(header)

	gotHash := resealed.Hash()
	if gotHash != expectedHash {
		return nil, &BlockHashMismatchError{Got: gotHash, Expected: expectedHash}
	}

	return resealed, nil
}
