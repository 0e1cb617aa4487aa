// File: cmd/client/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// `zerosend client`: the receiving side of the benchmark.

package client

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/momentics/zerosend/api"
	dial "github.com/momentics/zerosend/client"
	"github.com/momentics/zerosend/control"
	"github.com/momentics/zerosend/internal/logging"
)

var (
	clientCfg = &control.ClientConfig{}

	// ClientCmd runs the receiving client. Flags may be replaced by the
	// five positional arguments of the classic invocation:
	//   zerosend client <server_ip> <port> <message_size> <connections> <duration_seconds>
	ClientCmd = &cobra.Command{
		Use:     "client [server_ip] [port] [message_size] [connections] [duration_seconds]",
		Short:   "Run the receiving benchmark client",
		Long:    "Run the benchmark client: opens parallel TCP connections, receives for a fixed duration and reports throughput and average per-message latency. Environment variables of the form ZEROSEND_<FLAG> override defaults.",
		Args:    cobra.MaximumNArgs(5),
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	ClientCmd.Flags().String("host", "127.0.0.1", "server address")
	ClientCmd.Flags().Int("port", 9090, "server TCP port")
	ClientCmd.Flags().Int("size", 4096, "expected message size in bytes")
	ClientCmd.Flags().Int("connections", 1, "number of parallel connections")
	ClientCmd.Flags().Int("duration", 10, "receive duration in seconds")
	ClientCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
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
// the client configuration.
func processConfig(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	clientCfg.Host = viper.GetString("host")
	clientCfg.Port = viper.GetInt("port")
	clientCfg.MessageSize = viper.GetInt("size")
	clientCfg.Connections = viper.GetInt("connections")
	clientCfg.Duration = time.Duration(viper.GetInt("duration")) * time.Second
	clientCfg.LogLevel = viper.GetString("log-level")

	if len(args) >= 1 {
		clientCfg.Host = args[0]
	}
	for i, dst := range []*int{&clientCfg.Port, &clientCfg.MessageSize, &clientCfg.Connections} {
		if len(args) >= i+2 {
			v, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid argument %q: %v", args[i+1], err)
			}
			*dst = v
		}
	}
	if len(args) >= 5 {
		secs, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %v", args[4], err)
		}
		clientCfg.Duration = time.Duration(secs) * time.Second
	}
	return clientCfg.Validate()
}

func run(cmd *cobra.Command, _ []string) error {
	log := logging.New(clientCfg.LogLevel)
	log.Info().Msgf("zerosend client starting\n%s", clientCfg)

	runFlag := control.NewRunFlag()
	metrics := control.NewMetrics()

	dialer, err := dial.NewDialer(*clientCfg, runFlag, log, metrics)
	if err != nil {
		log.Error().Err(err).Msg("client setup failed")
		return err
	}

	stop := runFlag.BindSignals(func() {
		log.Info().Msg("shutdown signal received")
	}, os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg, results, runErr := dialer.Run()
	report(agg, results)
	return runErr
}

// report prints the per-connection and aggregate summaries to stdout,
// keeping the classic result block format.
func report(agg api.Result, results []api.Result) {
	for i, r := range results {
		fmt.Printf("conn %d: %d bytes, %d msgs, %.2f s, %.4f Gbps, avg latency %.2f us/msg\n",
			i, r.Bytes, r.Messages, r.Elapsed.Seconds(), r.ThroughputGbps(), r.AvgLatencyMicros())
	}

	fmt.Println("\n========== AGGREGATE RESULTS ==========")
	fmt.Printf("Total bytes received : %d\n", agg.Bytes)
	fmt.Printf("Total messages       : %d\n", agg.Messages)
	fmt.Printf("Wall-clock time      : %.2f s\n", agg.Elapsed.Seconds())
	fmt.Printf("Aggregate throughput : %.4f Gbps\n", agg.ThroughputGbps())
	fmt.Printf("Avg latency/msg      : %.2f us\n", agg.AvgLatencyMicros())
	fmt.Println("========================================")
}
