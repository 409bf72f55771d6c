// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/authoritychain/poa-core/storage"
)

// BuildArgs is the subset of the upstream builder's block-building request
// this core needs to see; everything else (parent hash, timestamp,
// suggested fee recipient, withdrawals, beacon-root) is the wrapped
// builder's concern and is passed through untouched.
type BuildArgs struct {
	ParentHash common.Hash
	Number     uint64
}

// BlockBuilder is the minimal contract the wrapped Ethereum payload
// builder exposes: run the execution pipeline and return an unsigned
// block. Component E delegates all transaction selection, gas
// accounting, and state-root computation to this collaborator (§1's
// "consumes the block-building pipeline of a pre-existing Ethereum
// execution engine").
type BlockBuilder interface {
	Build(args BuildArgs) (*types.Block, error)
}

// GovernanceReader is the narrow slice of the Storage Reader (component
// B) the builder needs at startup and at epoch boundaries: a gas-limit
// hint and a refreshed signer list, both scoped to one state snapshot.
type GovernanceReader interface {
	ReadGasLimit() (uint64, error)
	ReadSignerList() (signers []common.Address, ok bool)
}

// PayloadBuilder wraps an upstream Ethereum block builder and injects
// the POA fields described in §4.E: difficulty, extra-data vanity plus
// optional embedded signer list, and the seal itself. It owns no
// execution logic of its own.
type PayloadBuilder struct {
	spec    *ChainSpec
	signers *SignerManager
	inner   BlockBuilder
	vanity  [ExtraVanityLength]byte
}

// NewPayloadBuilder wraps inner with the POA fields driven by spec and
// signers. vanity is copied into every produced header's extra_data
// prefix.
func NewPayloadBuilder(spec *ChainSpec, signers *SignerManager, inner BlockBuilder, vanity [ExtraVanityLength]byte) *PayloadBuilder {
	return &PayloadBuilder{spec: spec, signers: signers, inner: inner, vanity: vanity}
}

// Startup performs the one-shot, per-process initialization of §4.E:
// read the governed gas limit as a hint for the wrapped builder (the
// caller is responsible for actually feeding it in, since this core
// does not own the wrapped builder's config) and seed the live signer
// cache from the governance registry if it can be read. Failures to
// read are logged and otherwise ignored — the cache simply stays
// unpopulated and the genesis fallback applies.
func (b *PayloadBuilder) Startup(gov GovernanceReader) (gasLimitHint uint64, err error) {
	gasLimitHint, err = gov.ReadGasLimit()
	if err != nil {
		log.Warn("poa: could not read governed gas limit at startup", "err", err)
		gasLimitHint = 0
	}

	signers, ok := gov.ReadSignerList()
	if !ok {
		log.Warn("poa: could not read signer registry at startup, falling back to genesis signers")
		return gasLimitHint, nil
	}
	added, removed, err := b.spec.UpdateLiveSigners(signers)
	if err != nil {
		return gasLimitHint, err
	}
	log.Info("poa: live signer cache seeded at startup", "signers", len(signers), "added", len(added), "removed", len(removed))
	return gasLimitHint, nil
}

// Build runs the six steps of §4.E.3-6: delegate to the wrapped
// builder, overwrite difficulty and extra-data, refresh the signer
// cache on epoch blocks, choose a signing address, seal, and reseal.
// A nil error with an unsigned returned block means the node holds no
// authorized key and cannot contribute — the caller emits the block
// unsigned, per §4.E item 4's third branch.
func (b *PayloadBuilder) Build(args BuildArgs, epochGov GovernanceReader) (*types.Block, error) {
	block, err := b.inner.Build(args)
	if err != nil {
		return nil, err
	}

	header := types.CopyHeader(block.Header())
	header.Difficulty = new(big.Int)

	if b.spec.IsEpochBlock(header.Number.Uint64()) {
		if err := b.refreshSignersAtEpoch(header.Number.Uint64(), epochGov); err != nil {
			log.Warn("poa: epoch signer refresh failed, embedding last-known set", "number", header.Number.Uint64(), "err", err)
		}
		header.Extra = EncodeExtra(&ExtraData{Vanity: b.vanity, Signers: b.spec.EffectiveSigners()})
	} else {
		header.Extra = EncodeExtra(&ExtraData{Vanity: b.vanity})
	}

	chosen, inTurn, ok := b.chooseSigner(header.Number.Uint64())
	if !ok {
		log.Debug("poa: no authorized signer key held, emitting unsigned block", "number", header.Number.Uint64())
		return block.WithSeal(header), nil
	}

	sealed, err := Seal(b.signers, header, chosen)
	if err != nil {
		return nil, err
	}

	log.Info("poa: sealed block", "number", sealed.Number.Uint64(), "signer", chosen, "inTurn", inTurn)
	return block.WithSeal(sealed), nil
}

// refreshSignersAtEpoch reads the current live signer list from
// governance at the parent state and, if it differs from the cache,
// updates it and logs the diff (the telemetry hook SPEC_FULL.md adds
// to §4.A's update_live_signers).
func (b *PayloadBuilder) refreshSignersAtEpoch(number uint64, gov GovernanceReader) error {
	if gov == nil {
		return nil
	}
	signers, ok := gov.ReadSignerList()
	if !ok {
		return nil
	}
	added, removed, err := b.spec.UpdateLiveSigners(signers)
	if err != nil {
		return err
	}
	if len(added) > 0 || len(removed) > 0 {
		log.Info("poa: live signer set changed at epoch boundary", "number", number, "added", added, "removed", removed)
	}
	return nil
}

// chooseSigner implements §4.E item 4: prefer the in-turn signer if
// this node holds its key, otherwise any other authorized key, else
// report that the node cannot contribute.
func (b *PayloadBuilder) chooseSigner(number uint64) (addr common.Address, inTurn bool, ok bool) {
	expected, err := b.spec.ExpectedSigner(number)
	if err == nil && b.signers.Has(expected) {
		return expected, true, true
	}
	for _, candidate := range b.signers.Addresses() {
		if b.spec.IsAuthorized(candidate) {
			return candidate, false, true
		}
	}
	return common.Address{}, false, false
}

// storageGovernanceReader adapts a storage.Reader pinned at a specific
// contract pair into the narrow GovernanceReader contract Build and
// Startup need, so callers don't have to hand-roll the typed reads.
// ReadSignerList is routed through a *storage.SignerListRefresher so that
// a block about to be sealed and a block arriving for validation at the
// same epoch boundary, both holding this same GovernanceReader, collapse
// into one underlying read instead of each traversing the registry
// independently.
type storageGovernanceReader struct {
	reader      storage.Reader
	chainConfig common.Address
	refresher   *storage.SignerListRefresher
	registry    common.Address
}

// NewGovernanceReader builds a GovernanceReader over a storage.Reader
// snapshot (live or genesis) and the two governance contract addresses.
// Share the returned GovernanceReader across concurrent callers reading
// the same state snapshot to get the singleflight collapsing its
// SignerListRefresher provides.
func NewGovernanceReader(reader storage.Reader, chainConfig, signerRegistry common.Address) GovernanceReader {
	return &storageGovernanceReader{
		reader:      reader,
		chainConfig: chainConfig,
		refresher:   storage.NewSignerListRefresher(reader),
		registry:    signerRegistry,
	}
}

func (g *storageGovernanceReader) ReadGasLimit() (uint64, error) {
	return storage.ReadGasLimit(g.reader, g.chainConfig)
}

func (g *storageGovernanceReader) ReadSignerList() ([]common.Address, bool) {
	return g.refresher.Refresh(g.registry)
}
