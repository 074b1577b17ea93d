package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/units"
	"github.com/canopy-network/smt/lib/crypto"
)

/* This file implements logic for 'user controlled' configuration of the smt tooling */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath = "config.json" // the file path for the tool configuration
)

// Config is the structure of the user configuration options
type Config struct {
	MainConfig   // main options spanning over all modules
	HasherConfig // digest algorithm options
	ProofConfig  // proof conversion options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:   DefaultMainConfig(),
		HasherConfig: DefaultHasherConfig(),
		ProofConfig:  DefaultProofConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel    string `json:"logLevel"`    // any level includes the levels above it: debug < info < warning < error
	NoColor     bool   `json:"noColor"`     // disable colored log output
	DataDirPath string `json:"dataDirPath"` // path of the designated folder where the tool stores its logs
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel:    "info",               // everything but debug is the default
		DataDirPath: DefaultDataDirPath(), // use the default data dir path
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch {
	case strings.Contains(strings.ToLower(m.LogLevel), "deb"):
		return DebugLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "inf"):
		return InfoLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "war"):
		return WarnLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}

// DefaultDataDirPath() is $USERHOME/.smt
func DefaultDataDirPath() string {
	// get the user home
	home, err := os.UserHomeDir()
	// if unable to get the user home
	if err != nil {
		// fatal error
		panic(err)
	}
	// exit with full default data directory path
	return filepath.Join(home, ".smt")
}

// HASHER CONFIG BELOW

// HasherConfig selects the digest algorithm used for tree hashing
type HasherConfig struct {
	Algorithm string `json:"algorithm"` // one of crypto.HasherNames()
}

// DefaultHasherConfig() uses the personalized blake2b tree hasher
func DefaultHasherConfig() HasherConfig {
	return HasherConfig{Algorithm: crypto.Blake2bAlgorithm}
}

// Hasher() resolves the configured algorithm into a factory
func (h *HasherConfig) Hasher() (crypto.HasherFactory, ErrorI) {
	factory, err := crypto.HasherByName(h.Algorithm)
	if err != nil {
		return nil, ErrInvalidArgument(err)
	}
	return factory, nil
}

// PROOF CONFIG BELOW

// ProofConfig bounds the proof conversion inputs
type ProofConfig struct {
	MaxProofBytes uint64 `json:"maxProofBytes"` // the largest encoded internal proof that will be read
}

// DefaultProofConfig() allows internal proofs up to 1 MB
func DefaultProofConfig() ProofConfig {
	return ProofConfig{
		MaxProofBytes: uint64(1 * units.MB), // 256 entries with hex siblings is far below this
	}
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	// convert the config to indented 'pretty' json bytes
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	// if an error occurred during the conversion
	if err != nil {
		// exit with error
		return ErrJSONMarshal(err)
	}
	// write the config.json file to the data directory
	if err = os.WriteFile(filepath, jsonBytes, os.ModePerm); err != nil {
		return ErrWriteFile(err)
	}
	return nil
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filepath string) (Config, error) {
	// read the file into bytes using
	fileBytes, err := os.ReadFile(filepath)
	// if an error occurred
	if err != nil {
		// exit with error
		return Config{}, err
	}
	// define the default config to fill in any blanks in the file
	c := DefaultConfig()
	// populate the default config with the file bytes
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		// exit with error
		return Config{}, err
	}
	// exit
	return c, nil
}
