package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/pkg/control"
	"github.com/aretw0/canopy/pkg/nodes"
	"github.com/aretw0/canopy/pkg/support"
)

var runCmd = &cobra.Command{
	Use:   "run <tree.json>",
	Short: "Run a serialized behavior tree",
	Long:  `Loads a V1 tree document, ticks its declared roots on the control loop, and echoes every emitted event to stdout as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("interval") {
			cfg.Interval, _ = cmd.Flags().GetDuration("interval")
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		sup := support.New()
		if err := nodes.Register(sup); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read tree: %w", err)
		}
		doc, err := support.DecodeDocument(data)
		if err != nil {
			return err
		}
		t, err := sup.DeserializeTree(doc)
		if err != nil {
			return fmt.Errorf("restore tree: %w", err)
		}
		t.SetDirectory(filepath.Dir(args[0]))

		client, server := control.NewPair(256)
		loop := control.NewLoop(t, sup, server,
			control.WithLogger(logger),
			control.WithInterval(cfg.Interval),
			control.WithRunRoots(cfg.RunRoots),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		done := make(chan error, 1)
		go func() {
			done <- loop.Run(ctx)
		}()

		// Echo events until the loop stops.
		out := cmd.OutOrStdout()
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case err := <-done:
				drainEvents(client, out)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			case <-ticker.C:
				drainEvents(client, out)
			}
		}
	},
}

func drainEvents(client *control.Client, out io.Writer) {
	for {
		ev, ok := client.TryRecv()
		if !ok {
			return
		}
		if data, err := control.MarshalEvent(ev); err == nil {
			fmt.Fprintln(out, string(data))
		}
	}
}

func init() {
	runCmd.Flags().Duration("interval", 50*time.Millisecond, "Sleep between poll/tick cycles")
	rootCmd.AddCommand(runCmd)
}
