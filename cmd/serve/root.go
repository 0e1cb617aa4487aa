// File: cmd/serve/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// `zerosend server`: the transmitting side of the benchmark.

package serve

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/momentics/zerosend/control"
	"github.com/momentics/zerosend/internal/logging"
	"github.com/momentics/zerosend/server"
	"github.com/momentics/zerosend/strategy"
)

var (
	serveCfg = &control.ServerConfig{}

	// ServeCmd starts the benchmark server. Flags may be replaced by the
	// two positional arguments of the classic invocation:
	//   zerosend server <port> <message_size>
	ServeCmd = &cobra.Command{
		Use:     "server [port] [message_size]",
		Short:   "Run the transmitting benchmark server",
		Long:    "Run the benchmark server: accepts TCP connections and continuously transmits the configured payload with the selected strategy. Environment variables of the form ZEROSEND_<FLAG> override defaults.",
		Args:    cobra.MaximumNArgs(2),
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	ServeCmd.Flags().Int("port", 9090, "TCP port to listen on")
	ServeCmd.Flags().Int("size", 4096, "total message size in bytes")
	ServeCmd.Flags().String("strategy", strategy.NamePerSegment,
		fmt.Sprintf("transfer strategy (%s)", strings.Join(strategy.Names(), ", ")))
	ServeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("zerosend")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// processConfig merges flags, environment and positional arguments into
// the server configuration.
func processConfig(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCfg.Port = viper.GetInt("port")
	serveCfg.MessageSize = viper.GetInt("size")
	serveCfg.Strategy = viper.GetString("strategy")
	serveCfg.LogLevel = viper.GetString("log-level")

	if len(args) >= 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid port %q: %v", args[0], err)
		}
		serveCfg.Port = p
	}
	if len(args) >= 2 {
		s, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid message size %q: %v", args[1], err)
		}
		serveCfg.MessageSize = s
	}
	return serveCfg.Validate()
}

func run(cmd *cobra.Command, _ []string) error {
	log := logging.New(serveCfg.LogLevel)
	log.Info().Msgf("zerosend server starting\n%s", serveCfg)

	runFlag := control.NewRunFlag()
	metrics := control.NewMetrics()

	acceptor, err := server.NewAcceptor(*serveCfg, runFlag, log, metrics)
	if err != nil {
		log.Error().Err(err).Msg("server setup failed")
		return err
	}

	stop := runFlag.BindSignals(func() {
		log.Info().Msg("shutdown signal received")
		_ = acceptor.Shutdown()
	}, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := acceptor.Serve(); err != nil {
		return err
	}

	metrics.WritePrometheus(os.Stderr)
	log.Info().Msg("server shutdown complete")
	return nil
}
