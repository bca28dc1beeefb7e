package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leftmike/tinydb/flags"
)

var (
	tinydbCmd = &cobra.Command{
		Use:               "tinydb",
		Short:             "An in-memory table store",
		Long:              "TinyDB is an in-memory table store with a four command language.",
		PersistentPreRunE: tinydbPreRun,
		PersistentPostRun: tinydbPostRun,
		SilenceUsage:      true,
	}

	logFile   = "tinydb.log"
	logLevel  = "info"
	logStderr = false
	logWriter io.WriteCloser

	configFile = "tinydb.hcl"
	noConfig   = false

	flgs      = flags.Default()
	usedFlags = map[string]struct{}{}
)

func init() {
	log.SetFormatter(&log.TextFormatter{
		DisableLevelTruncation: true,
	})

	fs := tinydbCmd.PersistentFlags()

	fs.StringVar(&logFile, "log-file", logFile, "`file` to use for logging")
	fs.StringVar(&logLevel, "log-level", logLevel,
		"log level: trace, debug, info, warn, error, fatal, or panic")
	configFlags(fs, "log-file", "log-level")

	fs.BoolVarP(&logStderr, "log-stderr", "s", logStderr, "log to standard error")

	fs.StringVar(&configFile, "config-file", configFile, "`file` to load config from")
	fs.BoolVar(&noConfig, "no-config", noConfig, "don't load config file")
}

func Execute() error {
	return tinydbCmd.Execute()
}

func tinydbPreRun(cmd *cobra.Command, args []string) error {
	cmd.Flags().Visit(
		func(flg *pflag.Flag) {
			usedFlags[flg.Name] = struct{}{}
		})

	if configFile != "" && !noConfig {
		if err := loadConfig(configFile); err != nil {
			return fmt.Errorf("tinydb: config file %s: %s", configFile, err)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("tinydb: %s", err)
	}
	log.WithField("pid", os.Getpid()).Info("tinydb starting")
	return nil
}

// setupLogging logs to logFile unless logging to standard error was requested.
func setupLogging() error {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	if !logStderr && logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return err
		}
		logWriter = f
		log.SetOutput(f)
	}
	log.SetLevel(ll)
	return nil
}

func tinydbPostRun(cmd *cobra.Command, args []string) {
	log.WithField("pid", os.Getpid()).Info("tinydb done")

	if logWriter != nil {
		logWriter.Close()
	}
}
