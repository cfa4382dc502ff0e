// Command connholdd runs a connection sink: it accepts connections up to a
// configured cap, discards their payload and holds them until the peers
// drop them.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/connhold/connhold/server"
	_ "github.com/connhold/connhold/transport/all"
)

var (
	configPath  string
	addr        string
	maxConns    int
	idleTimeout time.Duration
	debug       bool
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "connholdd",
		Short:         "Accept and hold connections up to a configured cap",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVar(&configPath, "config", "", "yaml config file")
	cmd.Flags().StringVar(&addr, "addr", server.DefaultConfig().Addr, "listening address (tcp://, ipc://, ws://)")
	cmd.Flags().IntVar(&maxConns, "max-conns", server.DefaultConfig().MaxConnections, "maximum concurrent connections")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 0, "drop connections idle longer than this (0 disables)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	config := server.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = server.LoadConfig(configPath); err != nil {
			return err
		}
	}
	// flags override file values
	if cmd.Flags().Changed("addr") {
		config.Addr = addr
	}
	if cmd.Flags().Changed("max-conns") {
		config.MaxConnections = maxConns
	}
	if cmd.Flags().Changed("idle-timeout") {
		config.IdleTimeout = idleTimeout
	}

	s, err := server.New(config)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		sig := <-c
		log.WithField("signal", sig.String()).Info("signal")
		s.Close()
		close(done)
	}()

	if err := s.Run(); err != nil {
		return err
	}
	<-done
	return nil
}

func main() {
	if err := newCommand().Execute(); err != nil {
		log.WithError(err).Fatal("connholdd")
	}
}
