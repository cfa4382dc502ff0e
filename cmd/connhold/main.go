// Command connhold opens a number of concurrent connections to an endpoint
// and holds them open until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/connhold/connhold/opener"
	"github.com/connhold/connhold/options"
	"github.com/connhold/connhold/transport"
	_ "github.com/connhold/connhold/transport/all"
)

var (
	addr        string
	dialTimeout time.Duration
	debug       bool
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connhold [count]",
		Short: "Open concurrent connections to an endpoint and hold them open",
		Long: `connhold attempts the given number of concurrent connections (default 1)
toward one endpoint, logs one line per attempt with its ordinal index, and
then blocks until every held connection has terminated or the process is
interrupted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVar(&addr, "addr", "tcp://127.0.0.1:6379", "endpoint address (tcp://, ipc://, ws://)")
	cmd.Flags().DurationVar(&dialTimeout, "dial-timeout", 10*time.Second, "single connection attempt timeout")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

// ParseCount interpret the positional count argument. A missing argument
// means 1; anything but a non-negative integer is rejected.
func ParseCount(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("count must be an integer, got %q", args[0])
	}
	if n < 0 {
		return 0, fmt.Errorf("count must not be negative, got %d", n)
	}
	return n, nil
}

func run(cmd *cobra.Command, args []string) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	n, err := ParseCount(args)
	if err != nil {
		return err
	}

	o, err := opener.New(addr, options.OptionValues{
		transport.OptionDialTimeout: dialTimeout,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", addr, err)
	}

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		s := <-c
		log.WithField("signal", s.String()).Info("signal")
		o.Close()
	}()

	opened := o.Open(n)
	log.WithFields(log.Fields{
		"requested": n,
		"opened":    opened,
		"failed":    o.Failed(),
	}).Info("all connection attempts issued")

	o.Wait()
	return nil
}

func main() {
	if err := newCommand().Execute(); err != nil {
		log.WithError(err).Fatal("connhold")
	}
}
