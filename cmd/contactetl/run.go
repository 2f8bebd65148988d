package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"contactetl/internal/config"
	"contactetl/internal/metrics"
	"contactetl/internal/metrics/prompush"
	"contactetl/internal/normalize"
	"contactetl/internal/pipeline"
	"contactetl/internal/storage"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "contactetl/internal/storage/all"
)

var runFlags struct {
	config         string
	input          string
	output         string
	workers        int
	metricsBackend string
	pushGatewayURL string
	validate       bool
}

var runCmd = &cobra.Command{
	Use:   "run [input.csv]",
	Short: "Run the normalization pipeline over one input file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.config, "config", "", "run config file (JSON/YAML); flags override it")
	runCmd.Flags().StringVar(&runFlags.input, "input", "", "input CSV path (or pass as the positional argument)")
	runCmd.Flags().StringVar(&runFlags.output, "output", "", "output path; default normalized_<input name>")
	runCmd.Flags().IntVar(&runFlags.workers, "workers", 0, "worker count; 0 = one per CPU; omit flag for sequential")
	runCmd.Flags().StringVar(&runFlags.metricsBackend, "metrics-backend", "none", "metrics backend (pushgateway, none)")
	runCmd.Flags().StringVar(&runFlags.pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	runCmd.Flags().BoolVar(&runFlags.validate, "validate", false, "validate the configuration and exit")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	p, err := config.Load(runFlags.config)
	if err != nil {
		return err
	}

	// Flags and the positional argument override the config file.
	if len(args) == 1 {
		p.Source.Path = args[0]
	}
	if runFlags.input != "" {
		p.Source.Path = runFlags.input
	}
	if runFlags.output != "" {
		p.Storage.Path = runFlags.output
	}
	if cmd.Flags().Changed("workers") {
		w := runFlags.workers
		p.Runtime.Workers = &w
	}
	if p.Storage.Kind == "" || p.Storage.Kind == "csv" {
		if p.Storage.Path == "" && p.Source.Path != "" {
			p.Storage.Path = deriveOutput(p.Source.Path)
		}
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	if runFlags.validate {
		log.Printf("configuration is valid")
		return nil
	}

	setupMetrics(p.Job)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in, err := os.Open(p.Source.Path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	sink, err := storage.New(ctx, storage.Config{
		Kind:  p.Storage.Kind,
		Path:  p.Storage.Path,
		DSN:   p.Storage.DSN,
		Table: p.Storage.Table,
	})
	if err != nil {
		return err
	}

	var delim rune
	if p.Source.Delimiter != "" {
		delim = []rune(p.Source.Delimiter)[0]
	}

	res, runErr := pipeline.Run(ctx, in, sink, pipeline.Options{
		Job:       p.Job,
		Delimiter: delim,
		PhoneRule: normalize.PhoneRule{
			CountryCode: p.Normalize.CountryCode,
			LocalDigits: p.Normalize.LocalDigits,
		},
		Workers:       p.Runtime.Workers,
		BatchSize:     p.Runtime.BatchSize,
		ChannelBuffer: p.Runtime.ChannelBuffer,
		DedupeByID:    p.Normalize.DedupeByID,
	})
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close output: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), res.Summary())
	if runErr != nil {
		return runErr
	}
	log.Printf("completed in %s", res.Elapsed.Truncate(time.Millisecond))
	return nil
}

// deriveOutput places the default output next to the input file:
// /data/contacts.csv -> /data/normalized_contacts.csv.
func deriveOutput(input string) string {
	dir, base := filepath.Split(input)
	return filepath.Join(dir, "normalized_"+base)
}

// setupMetrics installs the requested metrics backend; the nop backend stays
// in place on any failure.
func setupMetrics(job string) {
	switch runFlags.metricsBackend {
	case "pushgateway":
		gwURL := runFlags.pushGatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v, backend=pushgateway, job=%v", gwURL, job)
		metrics.SetBackend(b)

	case "", "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", runFlags.metricsBackend)
	}
}
