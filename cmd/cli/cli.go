package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/canopy-network/smt/lib"
	"github.com/canopy-network/smt/lib/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const SoftwareVersion = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:   "smt",
	Short: "sparse merkle tree path and ICS23 proof tooling",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// initialize the configuration and the logger before any sub command runs
		config = InitializeDataDirectory(DataDir, lib.NewLogger(lib.LoggerConfig{Level: lib.InfoLevel, Out: os.Stderr}))
		// log to the console and the rotating file under the data directory
		l = lib.NewLogger(lib.LoggerConfig{
			Level:   config.GetLogLevel(),
			NoColor: config.NoColor,
		}, config.DataDirPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(SoftwareVersion)
	},
}

var (
	config, l = lib.DefaultConfig(), lib.LoggerI(lib.NewNullLogger())
	DataDir   = ""
	out       = io.Writer(os.Stdout)
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(specCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(forkHeightCmd)
	rootCmd.AddCommand(parentPathCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		l.Fatal(err.Error())
	}
}

// InitializeDataDirectory() creates the data directory and config file if missing and loads the config
func InitializeDataDirectory(dataDirPath string, log lib.LoggerI) (c lib.Config) {
	// make the data dir if missing
	if err := os.MkdirAll(dataDirPath, os.ModePerm); err != nil {
		log.Fatal(err.Error())
	}
	// make the config.json file if missing
	configFilePath := filepath.Join(dataDirPath, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.ConfigFilePath)
		if err = lib.DefaultConfig().WriteToFile(configFilePath); err != nil {
			log.Fatal(err.Error())
		}
	}
	// load the config object
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	// set the data-directory
	c.DataDirPath = dataDirPath
	return
}

// writeToConsole() prints a result in a human readable form or exits on error
func writeToConsole(a any, err error) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch a.(type) {
	case int, uint8, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, err = p.Fprintf(out, "%d\n", a); err != nil {
			l.Fatal(err.Error())
		}
	case string, crypto.H256:
		fmt.Fprintln(out, a)
	default:
		bz, e := json.MarshalIndent(a, "", "  ")
		if e != nil {
			l.Fatal(lib.ErrJSONMarshal(e).Error())
		}
		fmt.Fprintln(out, string(bz))
	}
}
