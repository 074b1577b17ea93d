package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/canopy-network/smt/lib"
	"github.com/canopy-network/smt/lib/crypto"
	"github.com/canopy-network/smt/proof"
	ics23 "github.com/cosmos/ics23/go"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var dump = false

func init() {
	convertCmd.Flags().BoolVar(&dump, "dump", false, "log a full dump of the converted proof at debug level")
}

var (
	specCmd = &cobra.Command{
		Use:   "spec",
		Short: "print the ICS23 proof spec of the tree",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(proof.ProofSpec(), nil)
		},
	}

	convertCmd = &cobra.Command{
		Use:   "convert <request.json> --dump",
		Short: "convert a compacted merkle proof into an ICS23 existence proof",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(convertFile(args[0], config.ProofConfig))
		},
	}
)

// ConvertRequest is the JSON input of the convert command
type ConvertRequest struct {
	Key        crypto.H256        `json:"key"`        // the proven key
	Value      crypto.H256        `json:"value"`      // the proven value
	LeavesPath [][]int            `json:"leavesPath"` // merge heights per leaf
	Proof      []proof.ProofEntry `json:"proof"`      // sibling entries
}

// ConvertResponse is the JSON output of the convert command
type ConvertResponse struct {
	Root            string                `json:"root"`            // hex ICS23 root the proof commits to
	CommitmentProof string                `json:"commitmentProof"` // hex ICS23 encoded commitment proof
	Existence       *ics23.ExistenceProof `json:"existence"`       // the converted proof
}

// MerkleProof() builds the compacted proof, rejecting heights outside the tree
func (r *ConvertRequest) MerkleProof() (*proof.MerkleProof, lib.ErrorI) {
	leavesPath := make([][]uint8, len(r.LeavesPath))
	for i, heights := range r.LeavesPath {
		leavesPath[i] = make([]uint8, len(heights))
		for j, h := range heights {
			if h < 0 || h >= crypto.TreeHeight {
				return nil, lib.ErrInvalidArgument(fmt.Errorf("leaf %d merge height %d out of range", i, h))
			}
			leavesPath[i][j] = uint8(h)
		}
	}
	return proof.NewMerkleProof(leavesPath, r.Proof), nil
}

// readConvertRequest() loads a request file no larger than maxBytes
func readConvertRequest(path string, maxBytes uint64) (*ConvertRequest, lib.ErrorI) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, lib.ErrReadFile(err)
	}
	if uint64(info.Size()) > maxBytes {
		return nil, lib.ErrInvalidArgument(fmt.Errorf("%s is %d bytes, the maximum is %d", path, info.Size(), maxBytes))
	}
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, lib.ErrReadFile(err)
	}
	req := new(ConvertRequest)
	if err = json.Unmarshal(bz, req); err != nil {
		return nil, lib.ErrJSONUnmarshal(err)
	}
	return req, nil
}

// convertFile() executes the convert command against a request file
func convertFile(path string, c lib.ProofConfig) (*ConvertResponse, lib.ErrorI) {
	req, err := readConvertRequest(path, c.MaxProofBytes)
	if err != nil {
		return nil, err
	}
	return convert(req)
}

// convert() converts the request and computes its root and encoding
func convert(req *ConvertRequest) (*ConvertResponse, lib.ErrorI) {
	mp, err := req.MerkleProof()
	if err != nil {
		return nil, err
	}
	entries := len(mp.Proof())
	cp, err := proof.ConvertCommitmentProof(mp, req.Key, req.Value)
	if err != nil {
		l.Errorf("Conversion of %d entries for key %s failed", entries, req.Key)
		return nil, err
	}
	ep := cp.GetExist()
	if dump {
		l.Debug(spew.Sdump(ep))
	}
	root, err := proof.CalculateRoot(ep)
	if err != nil {
		return nil, err
	}
	bz, e := cp.Marshal()
	if e != nil {
		return nil, lib.ErrMarshal(e)
	}
	l.Infof("Converted %d entries into %d inner ops for key %s", entries, len(ep.Path), req.Key)
	return &ConvertResponse{
		Root:            hex.EncodeToString(root),
		CommitmentProof: hex.EncodeToString(bz),
		Existence:       ep,
	}, nil
}
