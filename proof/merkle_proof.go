package proof

import (
	"github.com/canopy-network/smt/lib/crypto"
)

// ProofEntry is a sibling digest met while walking from a leaf toward the root and the height it applies to
type ProofEntry struct {
	Sibling crypto.H256 `json:"sibling"`
	Height  uint8       `json:"height"`
}

// MerkleProof is the compacted proof produced by the tree
//   - leavesPath: for each proven leaf, the merge heights in ascending order; a height is omitted
//     when that subtree had a single occupied child, so no sibling was recorded for it
//   - proof: the sibling entries shared by all leaves, ordered leaf-ward first
type MerkleProof struct {
	leavesPath [][]uint8
	proof      []ProofEntry
}

// NewMerkleProof() constructs a compacted proof
func NewMerkleProof(leavesPath [][]uint8, proof []ProofEntry) *MerkleProof {
	return &MerkleProof{leavesPath: leavesPath, proof: proof}
}

// LeavesPath() returns the merge heights of each leaf
func (m *MerkleProof) LeavesPath() [][]uint8 { return m.leavesPath }

// Proof() returns the sibling entries
func (m *MerkleProof) Proof() []ProofEntry { return m.proof }

// LeavesCount() returns the number of leaves the proof covers
func (m *MerkleProof) LeavesCount() int { return len(m.leavesPath) }

// Take() moves both sequences out of the proof, leaving it empty
func (m *MerkleProof) Take() (leavesPath [][]uint8, proof []ProofEntry) {
	leavesPath, proof = m.leavesPath, m.proof
	m.leavesPath, m.proof = nil, nil
	return
}
