// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/singleflight"
)

// SignerListRefresher collapses concurrent read_signer_list calls against
// the same registry into one in-flight read. At an epoch boundary both a
// block about to be sealed and a block arriving for validation can ask
// for the same governance snapshot within the same instant; without
// collapsing, both pay the full contract-storage traversal independently
// and the Payload Builder's epoch-rollover log line risks firing twice.
type SignerListRefresher struct {
	reader Reader
	group  singleflight.Group
}

// NewSignerListRefresher wraps a Reader with request collapsing.
func NewSignerListRefresher(reader Reader) *SignerListRefresher {
	return &SignerListRefresher{reader: reader}
}

// Refresh reads the effective signer list for signerRegistry, collapsing
// concurrent callers for the same registry address into a single read.
func (s *SignerListRefresher) Refresh(signerRegistry common.Address) (signers []common.Address, ok bool) {
	v, _, _ := s.group.Do(signerRegistry.Hex(), func() (interface{}, error) {
		list, ok := ReadSignerList(s.reader, signerRegistry)
		return refreshResult{list, ok}, nil
	})
	res := v.(refreshResult)
	return res.signers, res.ok
}

type refreshResult struct {
	signers []common.Address
	ok      bool
}
