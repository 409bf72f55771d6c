// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ExtraVanityLength is the fixed number of extra-data prefix bytes
	// reserved for the vanity tag.
	ExtraVanityLength = 32
	// ExtraSealLength is the fixed number of extra-data suffix bytes
	// occupied by the ECDSA seal (r || s || v).
	ExtraSealLength = 65
	// addressLength is the width of a packed signer address in the
	// epoch-block signer list.
	addressLength = common.AddressLength
)

// ExtraData is the parsed form of a header's extra_data field, as laid
// out in §3: vanity || optional signer list || seal.
type ExtraData struct {
	Vanity  [ExtraVanityLength]byte
	Signers []common.Address // empty on non-epoch blocks
	Seal    [ExtraSealLength]byte
}

// DecodeExtra parses extra_data into its three logical segments. It only
// checks the shape (length, alignment); semantic checks such as "signers
// must be sorted and deduplicated" are the caller's responsibility (§4.D
// item 12), since a genesis block's extra_data is parsed the same way but
// validated differently than a live epoch block's.
func DecodeExtra(extra []byte) (*ExtraData, error) {
	if len(extra) < ExtraVanityLength+ExtraSealLength {
		return nil, &ExtraDataTooShortError{Expected: ExtraVanityLength + ExtraSealLength, Got: len(extra)}
	}
	mid := extra[ExtraVanityLength : len(extra)-ExtraSealLength]
	if len(mid)%addressLength != 0 {
		return nil, &InvalidSignerListError{Reason: "embedded signer segment is not a whole number of addresses"}
	}
	out := &ExtraData{}
	copy(out.Vanity[:], extra[:ExtraVanityLength])
	copy(out.Seal[:], extra[len(extra)-ExtraSealLength:])
	if n := len(mid) / addressLength; n > 0 {
		out.Signers = make([]common.Address, n)
		for i := 0; i < n; i++ {
			copy(out.Signers[i][:], mid[i*addressLength:(i+1)*addressLength])
		}
	}
	return out, nil
}

// EncodeExtra re-serializes an ExtraData back into wire bytes. Together
// with DecodeExtra it satisfies P7: encode(decode(extra)) == extra.
func EncodeExtra(e *ExtraData) []byte {
	out := make([]byte, 0, ExtraVanityLength+len(e.Signers)*addressLength+ExtraSealLength)
	out = append(out, e.Vanity[:]...)
	for _, addr := range e.Signers {
		out = append(out, addr.Bytes()...)
	}
	out = append(out, e.Seal[:]...)
	return out
}

// StripSeal truncates the trailing seal bytes off extra_data, the
// operation the Block Sealer applies before computing the seal hash and
// before appending a fresh signature.
func StripSeal(extra []byte) []byte {
	if len(extra) < ExtraSealLength {
		return extra
	}
	return extra[:len(extra)-ExtraSealLength]
}
