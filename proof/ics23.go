package proof

import (
	"fmt"

	"github.com/canopy-network/smt/lib"
	"github.com/canopy-network/smt/lib/crypto"
	ics23 "github.com/cosmos/ics23/go"
)

/*
	ICS23 interchange for the sparse merkle tree.

	The tree's MerkleProof is compacted: heights where a subtree had a single occupied child carry no
	sibling. Convert() re-expands that compaction into the height ordered InnerOp chain an ICS23
	ExistenceProof needs, without materializing the elided levels. The leaf and inner parameters below
	must be byte-for-byte identical across implementations for third-party verifiers to accept the proofs.
*/

const (
	childSize       = crypto.H256Size // every child digest is 32 bytes
	minPrefixLength = 0
	maxPrefixLength = crypto.H256Size
)

// Convert() builds the ICS23 existence proof of key/value from a compacted MerkleProof
// The MerkleProof is consumed. Any structural anomaly fails the whole conversion with ErrCorruptedProof()
func Convert(mp *MerkleProof, key, value crypto.H256) (*ics23.ExistenceProof, lib.ErrorI) {
	if mp == nil {
		return nil, lib.ErrCorruptedProof()
	}
	leavesPath, entries := mp.Take()
	// only the first leaf's merge heights drive a single key conversion
	var mergeHeights []uint8
	if len(leavesPath) != 0 {
		mergeHeights = leavesPath[0]
	}
	curKey, height := key, 0
	path := make([]*ics23.InnerOp, 0, len(entries))
	for len(entries) != 0 {
		// a well-formed proof is fully consumed exactly at the top
		if height == crypto.TreeHeight {
			return nil, lib.ErrCorruptedProof()
		}
		// no pending merge height means no further compaction is expected
		mergeHeight := height
		if len(mergeHeights) != 0 {
			mergeHeight = int(mergeHeights[0])
		}
		// skip the levels the compaction elided
		if height != mergeHeight {
			height = mergeHeight
			continue
		}
		entry := entries[0]
		entries = entries[1:]
		// the entry announces the level it applies to, the levels in between are implicit
		if height < int(entry.Height) {
			height = int(entry.Height)
		}
		path = append(path, InnerOp(entry.Sibling, curKey.GetBit(uint8(height))))
		if len(mergeHeights) != 0 {
			mergeHeights = mergeHeights[1:]
		}
		curKey = curKey.ParentPath(uint8(height))
		height++
	}
	return &ics23.ExistenceProof{
		Key:   key.Bytes(),
		Value: value.Bytes(),
		Leaf:  LeafOp(),
		Path:  path,
	}, nil
}

// ConvertCommitmentProof() wraps the converted existence proof in the ICS23 commitment envelope
func ConvertCommitmentProof(mp *MerkleProof, key, value crypto.H256) (*ics23.CommitmentProof, lib.ErrorI) {
	ep, err := Convert(mp, key, value)
	if err != nil {
		return nil, err
	}
	return &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: ep}}, nil
}

// LeafOp() describes leaf hashing: no prehash, no length prefix and a zero digest prefix
func LeafOp() *ics23.LeafOp {
	return &ics23.LeafOp{
		Hash:         ics23.HashOp_SHA256,
		PrehashKey:   ics23.HashOp_NO_HASH,
		PrehashValue: ics23.HashOp_NO_HASH,
		Length:       ics23.LengthOp_NO_PREFIX,
		Prefix:       crypto.ZeroH256().Bytes(),
	}
}

// InnerOp() encodes one level of the chain
// if the current node is the right child its sibling is placed in the suffix, otherwise in the prefix
func InnerOp(sibling crypto.H256, isRightNode bool) *ics23.InnerOp {
	prefix, suffix := sibling.Bytes(), []byte{}
	if isRightNode {
		prefix, suffix = suffix, prefix
	}
	return &ics23.InnerOp{
		Hash:   ics23.HashOp_SHA256,
		Prefix: prefix,
		Suffix: suffix,
	}
}

// ProofSpec() is the static proof-shape descriptor of the tree
func ProofSpec() *ics23.ProofSpec {
	return &ics23.ProofSpec{
		LeafSpec:  LeafOp(),
		InnerSpec: innerSpec(),
		MaxDepth:  crypto.TreeHeight,
		MinDepth:  0,
	}
}

func innerSpec() *ics23.InnerSpec {
	return &ics23.InnerSpec{
		ChildOrder:      []int32{0, 1},
		ChildSize:       childSize,
		MinPrefixLength: minPrefixLength,
		MaxPrefixLength: maxPrefixLength,
		EmptyChild:      []byte{},
		Hash:            ics23.HashOp_SHA256,
	}
}

// CalculateRoot() computes the commitment root an existence proof commits to
func CalculateRoot(ep *ics23.ExistenceProof) ([]byte, lib.ErrorI) {
	root, err := ep.Calculate()
	if err != nil {
		return nil, lib.NewError(lib.CodeExistenceProof, lib.SMTModule, fmt.Sprintf("calculate() failed with err: %s", err.Error()))
	}
	return root, nil
}

// VerifyExistence() checks that ep proves key/value under root with the shape ProofSpec() describes
func VerifyExistence(ep *ics23.ExistenceProof, root []byte, key, value crypto.H256) lib.ErrorI {
	if ep == nil {
		return lib.ErrExistenceProof()
	}
	// ics23 bounds the prefix length but allows a sibling on both sides at once
	for i, op := range ep.Path {
		if prefixLen, suffixLen := len(op.Prefix), len(op.Suffix); prefixLen+suffixLen != childSize || (prefixLen != 0 && suffixLen != 0) {
			return lib.NewError(lib.CodeExistenceProof, lib.SMTModule, fmt.Sprintf("inner op %d: prefix %d bytes, suffix %d bytes", i, prefixLen, suffixLen))
		}
	}
	if err := ep.Verify(ProofSpec(), root, key.Bytes(), value.Bytes()); err != nil {
		return lib.NewError(lib.CodeExistenceProof, lib.SMTModule, fmt.Sprintf("verify() failed with err: %s", err.Error()))
	}
	return nil
}
