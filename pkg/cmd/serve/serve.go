package serve

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adjsw/f1telemetry/log"
	"github.com/adjsw/f1telemetry/pkg/config"
	"github.com/adjsw/f1telemetry/pkg/telemetry/packet"
	"github.com/adjsw/f1telemetry/pkg/telemetry/session"
)

// NewServerCmd builds the "serve" subcommand: opens a UDP socket, decodes
// every datagram the game sends, and folds it into a session.Model.
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "listens for F1 2020 UDP telemetry and maintains a session model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.Flags().StringVar(&config.ListenAddr,
		"listen",
		":20777",
		"UDP address to receive telemetry on")
	cmd.Flags().StringVar(&config.NameMappingFile,
		"name-mapping-file",
		"",
		"path to a YAML file overriding resolved driver names")
	cmd.Flags().StringVar(&config.PitSpeedingServeDelay,
		"pit-speeding-serve-delay",
		"60s",
		"minimum time before a pit-lane-speeding penalty can be served")
	cmd.Flags().StringVar(&config.LogLevel,
		"logLevel",
		"info",
		"log level name; not applied: json format logs at info, any other format at debug")
	cmd.Flags().StringVar(&config.LogFormat,
		"logFormat",
		"json",
		"controls the log output format")
	cmd.Flags().BoolVar(&config.PrintDatagrams,
		"print-datagrams",
		false,
		"if true and log level is debug, each ingested datagram's size is logged")

	return cmd
}

func run() error {
	if config.LogFormat == "json" {
		log.InitProductionLogger()
	} else {
		log.InitDevelopmentLogger()
	}

	delay, err := time.ParseDuration(config.PitSpeedingServeDelay)
	if err != nil {
		delay = session.DefaultPitSpeedingServeDelay
	}
	mappings, err := config.LoadNameMappings(config.NameMappingFile)
	if err != nil {
		log.Warn("could not load name mapping file", log.String("path", config.NameMappingFile), log.ErrorField(err))
	}

	model := session.NewModel(
		session.WithPitSpeedingServeDelay(delay),
		session.WithNameMappings(mappings),
	)
	defer model.Close()

	conn, err := net.ListenPacket("udp", config.ListenAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info("listening for telemetry", log.String("addr", config.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go receiveLoop(conn, model, done)

	select {
	case <-sigCh:
		log.Info("shutting down")
	case <-done:
	}
	return nil
}

// receiveLoop reads one datagram at a time and feeds it to the model. Per
// spec.md's error-handling design, a malformed or oversize datagram is
// discarded and logged; the loop itself never stops on a single bad packet.
// It closes done if the socket itself fails, so run's select doesn't block
// forever on a dead connection.
func receiveLoop(conn net.PacketConn, model *session.Model, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, packet.MaxDatagramSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			log.Warn("transport read failed", log.ErrorField(err))
			return
		}
		if config.PrintDatagrams {
			log.Debug("datagram received", log.String("from", addr.String()), log.Int("bytes", n))
		}
		if !model.Ingest(buf[:n]) {
			log.Debug("datagram discarded", log.String("from", addr.String()))
		}
	}
}
