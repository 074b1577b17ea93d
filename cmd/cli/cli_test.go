package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/canopy-network/smt/lib"
	"github.com/canopy-network/smt/lib/crypto"
	"github.com/canopy-network/smt/proof"
	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/require"
)

// writeRequest() saves a convert request to a temporary file
func writeRequest(t *testing.T, req any) string {
	bz, err := json.Marshal(req)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, bz, os.ModePerm))
	return path
}

func TestConvertFile(t *testing.T) {
	key := crypto.HashBytes(crypto.NewBlake2bHasher, []byte("key"))
	value := crypto.HashBytes(crypto.NewBlake2bHasher, []byte("value"))
	sibling := crypto.HashBytes(crypto.NewBlake2bHasher, []byte("sibling"))
	path := writeRequest(t, ConvertRequest{
		Key:        key,
		Value:      value,
		LeavesPath: [][]int{{4}},
		Proof:      []proof.ProofEntry{{Sibling: sibling, Height: 4}},
	})
	// execute the function call
	got, err := convertFile(path, lib.DefaultProofConfig())
	require.Nil(t, err)
	// the existence proof has one level at height 4
	require.Len(t, got.Existence.Path, 1)
	require.Equal(t, proof.InnerOp(sibling, key.GetBit(4)), got.Existence.Path[0])
	// the root matches the proof
	root, err := proof.CalculateRoot(got.Existence)
	require.Nil(t, err)
	require.Equal(t, hex.EncodeToString(root), got.Root)
	// the commitment proof decodes back to the same existence proof
	bz, e := hex.DecodeString(got.CommitmentProof)
	require.NoError(t, e)
	cp := new(ics23.CommitmentProof)
	require.NoError(t, cp.Unmarshal(bz))
	require.Equal(t, got.Existence.Key, cp.GetExist().Key)
}

func TestConvertFileErrors(t *testing.T) {
	valid := ConvertRequest{LeavesPath: [][]int{{}}}
	tests := []struct {
		name     string
		path     string
		maxBytes uint64
		code     lib.ErrorCode
	}{
		{
			name:     "missing file",
			path:     filepath.Join(t.TempDir(), "missing.json"),
			maxBytes: lib.DefaultProofConfig().MaxProofBytes,
			code:     lib.CodeReadFile,
		},
		{
			name:     "file too large",
			path:     writeRequest(t, valid),
			maxBytes: 4,
			code:     lib.CodeInvalidArgument,
		},
		{
			name:     "merge height out of range",
			path:     writeRequest(t, ConvertRequest{LeavesPath: [][]int{{256}}}),
			maxBytes: lib.DefaultProofConfig().MaxProofBytes,
			code:     lib.CodeInvalidArgument,
		},
		{
			name: "corrupted proof",
			path: writeRequest(t, ConvertRequest{
				LeavesPath: [][]int{{}},
				Proof:      []proof.ProofEntry{{Height: 255}, {Height: 255}},
			}),
			maxBytes: lib.DefaultProofConfig().MaxProofBytes,
			code:     lib.CodeCorruptedProof,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := convertFile(test.path, lib.ProofConfig{MaxProofBytes: test.maxBytes})
			require.NotNil(t, err)
			require.Equal(t, test.code, err.Code())
		})
	}
}

func TestForkHeightAndParentPath(t *testing.T) {
	var a, b crypto.H256
	a.SetBit(200)
	a.SetBit(3)
	b.SetBit(3)
	// fork height
	got, err := forkHeight(a.String(), b.String())
	require.Nil(t, err)
	require.Equal(t, uint8(200), got)
	_, err = forkHeight("zz", b.String())
	require.NotNil(t, err)
	// parent path
	parent, err := parentPath(a.String(), "3")
	require.Nil(t, err)
	var expected crypto.H256
	expected.SetBit(200)
	require.Equal(t, expected, parent)
	_, err = parentPath(a.String(), "256")
	require.NotNil(t, err)
}

func TestHashArgs(t *testing.T) {
	// configured default is the personalized blake2b
	got, err := hashArgs([]string{"ab", "cd"}, "", false)
	require.Nil(t, err)
	require.Equal(t, crypto.HashBytes(crypto.NewBlake2bHasher, []byte("abcd")), got)
	// algorithm override and hex input
	got, err = hashArgs([]string{"abcd"}, crypto.SHA256Algorithm, true)
	require.Nil(t, err)
	require.Equal(t, crypto.HashBytes(crypto.NewSHA256Hasher, []byte{0xab, 0xcd}), got)
	// bad inputs
	_, err = hashArgs([]string{"xyz"}, "", true)
	require.NotNil(t, err)
	_, err = hashArgs([]string{"a"}, "md5", false)
	require.NotNil(t, err)
}

func TestWriteToConsole(t *testing.T) {
	buf := new(bytes.Buffer)
	out = buf
	defer func() { out = os.Stdout }()
	// integers are printed with thousands separators
	writeToConsole(1234567, nil)
	require.Equal(t, "1,234,567\n", buf.String())
	buf.Reset()
	// paths are printed as hex
	writeToConsole(crypto.ZeroH256(), nil)
	require.Equal(t, crypto.ZeroH256().String()+"\n", buf.String())
	buf.Reset()
	// everything else is indented json
	writeToConsole(proof.ProofSpec(), nil)
	var spec ics23.ProofSpec
	require.NoError(t, json.Unmarshal(buf.Bytes(), &spec))
	require.Equal(t, int32(256), spec.MaxDepth)
}

func TestInitializeDataDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "smt")
	// execute the function call
	got := InitializeDataDirectory(dataDir, lib.NewNullLogger())
	// the config file was created with the defaults
	require.FileExists(t, filepath.Join(dataDir, lib.ConfigFilePath))
	require.Equal(t, dataDir, got.DataDirPath)
	require.Equal(t, lib.DefaultHasherConfig(), got.HasherConfig)
}

func TestExecuteLogsToDataDirectory(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "smt")
	buf := new(bytes.Buffer)
	out = buf
	defer func() { out, config, l = os.Stdout, lib.DefaultConfig(), lib.LoggerI(lib.NewNullLogger()) }()
	// identical paths make the command warn
	zero := crypto.ZeroH256().String()
	rootCmd.SetArgs([]string{"--data-dir", dataDir, "fork-height", zero, zero})
	// execute the function call
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "0\n", buf.String())
	// the warning was written to the rotating log file of the data directory
	bz, err := os.ReadFile(filepath.Join(dataDir, lib.LogDirectory, lib.LogFileName))
	require.NoError(t, err)
	require.Contains(t, string(bz), "Paths are identical")
}
