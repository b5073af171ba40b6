package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/infrastructure/config"
	"github.com/spreadcoin/spreadd/infrastructure/logger"
	"github.com/spreadcoin/spreadd/version"
)

const (
	defaultLogFilename    = "spreadminer.log"
	defaultErrLogFilename = "spreadminer_err.log"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogLevel       = "info"
)

var (
	// Default configuration options
	defaultHomeDir = btcutil.AppDataDir("spreadminer", false)
	defaultDataDir = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)
)

type configFlags struct {
	ShowVersion    bool   `short:"V" long:"version" description:"Display version information and exit"`
	PrivateKey     string `long:"privkey" description:"Hex encoded private key that signs mined blocks (required)"`
	MiningAddr     string `long:"miningaddr" description:"Address the coinbase of every mined block pays to. Defaults to the address of --privkey"`
	NumberOfBlocks uint64 `short:"n" long:"numblocks" description:"Number of blocks to mine. If omitted, will mine until the process is interrupted."`
	DataDir        string `short:"b" long:"datadir" description:"Directory to store the mined headers"`
	LogDir         string `long:"logdir" description:"Directory to log output"`
	LogLevel       string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Metrics        string `long:"metrics" description:"Serve metrics and profiles on the given address, e.g. localhost:9100"`
	config.NetworkFlags

	privateKeyBytes []byte
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		DataDir:  defaultDataDir,
		LogDir:   defaultLogDir,
		LogLevel: defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.LogLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	if cfg.PrivateKey == "" {
		return nil, errors.New("--privkey is required")
	}
	cfg.privateKeyBytes, err = hex.DecodeString(cfg.PrivateKey)
	if err != nil || len(cfg.privateKeyBytes) != 32 {
		return nil, errors.New("--privkey must be 32 hex encoded bytes")
	}

	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir), cfg.NetParams().Name)
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir), cfg.NetParams().Name)

	logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename))
	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
