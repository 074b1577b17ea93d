package cli

import (
	"encoding/hex"
	"strconv"

	"github.com/canopy-network/smt/lib"
	"github.com/canopy-network/smt/lib/crypto"
	"github.com/spf13/cobra"
)

var (
	algorithm, hexInput = "", false
)

func init() {
	hashCmd.Flags().StringVar(&algorithm, "algorithm", "", "override the configured hash algorithm (blake2b, blake3, keccak256, sha256)")
	hashCmd.Flags().BoolVar(&hexInput, "hex", false, "decode the arguments as hex before hashing")
}

var (
	hashCmd = &cobra.Command{
		Use:   "hash <data>... --algorithm=blake2b --hex",
		Short: "hash the concatenation of the arguments with the tree hasher",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(hashArgs(args, algorithm, hexInput))
		},
	}

	forkHeightCmd = &cobra.Command{
		Use:   "fork-height <path1> <path2>",
		Short: "print the highest height at which two hex paths diverge",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(forkHeight(args[0], args[1]))
		},
	}

	parentPathCmd = &cobra.Command{
		Use:   "parent-path <path> <height>",
		Short: "print the path with every bit at or below height cleared",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(parentPath(args[0], args[1]))
		},
	}
)

// hashArgs() hashes the arguments in order with the named (or configured) algorithm
func hashArgs(args []string, name string, isHex bool) (crypto.H256, lib.ErrorI) {
	hc := config.HasherConfig
	if name != "" {
		hc.Algorithm = name
	}
	factory, err := hc.Hasher()
	if err != nil {
		return crypto.H256{}, err
	}
	h := factory()
	for _, arg := range args {
		data := []byte(arg)
		if isHex {
			bz, e := hex.DecodeString(arg)
			if e != nil {
				return crypto.H256{}, lib.ErrInvalidArgument(e)
			}
			data = bz
		}
		h.WriteBytes(data)
	}
	l.Debugf("Hashed %d arguments with %s", len(args), hc.Algorithm)
	return h.Finish(), nil
}

// forkHeight() parses two hex paths and returns their fork height
func forkHeight(a, b string) (uint8, lib.ErrorI) {
	p1, err := crypto.NewH256FromString(a)
	if err != nil {
		return 0, lib.ErrInvalidArgument(err)
	}
	p2, err := crypto.NewH256FromString(b)
	if err != nil {
		return 0, lib.ErrInvalidArgument(err)
	}
	if p1.Equals(p2) {
		l.Warn("Paths are identical, a fork height of 0 does not mean they diverge at the leaf")
	}
	return p1.ForkHeight(p2), nil
}

// parentPath() parses a hex path and a height and returns the parent path
func parentPath(p, height string) (crypto.H256, lib.ErrorI) {
	path, err := crypto.NewH256FromString(p)
	if err != nil {
		return crypto.H256{}, lib.ErrInvalidArgument(err)
	}
	h, err := strconv.ParseUint(height, 10, 8)
	if err != nil {
		return crypto.H256{}, lib.ErrInvalidArgument(err)
	}
	return path.ParentPath(uint8(h)), nil
}
