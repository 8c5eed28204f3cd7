// ptree prints a bounded, depth-first pre-order snapshot of the system
// process tree, the way the classic ptree syscall reports it.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"ptree/internal/boundary"
	"ptree/internal/config"
	"ptree/internal/filter"
	"ptree/internal/otel"
	"ptree/internal/prinfo"
	"ptree/internal/seed"
)

var (
	maxEntries int
	filterExpr string
	procMount  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ptree",
		Short: "Print a bounded depth-first snapshot of the process tree",
		Long: `ptree seeds an in-process model of the system process tree from procfs,
takes a bounded pre-order snapshot of it through the syscall-style boundary
and prints the records. A snapshot larger than --max is truncated, never an
error; the truncation is reported alongside the true process count.`,
		RunE:         run,
		SilenceUsage: true,
	}
	rootCmd.Flags().IntVar(&maxEntries, "max", 4096, "maximum number of entries to copy out")
	rootCmd.Flags().StringVar(&filterExpr, "filter", "", `boolean row filter, e.g. 'comm == "bash" && uid != 0'`)
	rootCmd.Flags().StringVar(&procMount, "proc", "", "procfs mount point (default $PTREE_PROC_MOUNT or /proc)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	level, err := cfg.ParseLogLevel()
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if procMount == "" {
		procMount = cfg.ProcMount
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	tracer, cleanup, err := setupTracing()
	if err != nil {
		return err
	}
	defer cleanup()

	var rowFilter *filter.Filter
	if filterExpr != "" {
		rowFilter, err = filter.Compile(filterExpr)
		if err != nil {
			return err
		}
	}

	tree, err := seed.FromSystem(procMount)
	if err != nil {
		return err
	}
	adapter := boundary.New(tree, nil)

	var buf boundary.MemBuffer
	count := boundary.NewMemCount(maxEntries)

	_, span := tracer.Start(cmd.Context(), "ptree.snapshot")
	res, err := adapter.Snapshot(&buf, count)
	span.SetAttributes(
		attribute.Int("ptree.total", res.Total),
		attribute.Int("ptree.stored", res.Stored),
		attribute.Int("ptree.requested_max", res.RequestedMax),
		attribute.Int("ptree.capacity", res.Capacity),
	)
	span.End()
	if err != nil {
		return err
	}

	if err := printTable(cmd.OutOrStdout(), buf.Records, rowFilter); err != nil {
		return err
	}
	if res.Truncated() {
		log.Warnf("snapshot truncated: stored %d of %d processes (requested %d, allocated %d)",
			res.Stored, res.Total, res.RequestedMax, res.Capacity)
	}
	return nil
}

// setupTracing returns a span tracer and its cleanup. Without a configured
// OTLP endpoint, tracing is a no-op.
func setupTracing() (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, err
	}
	if !otelCfg.Enabled() {
		return noop.NewTracerProvider().Tracer("ptree"), func() {}, nil
	}

	tp, err := otel.InitProvider(otelCfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(ctx, tp); err != nil {
			log.WithError(err).Error("shutting down tracer provider")
		}
	}
	return tp.Tracer("ptree"), cleanup, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics listener failed")
	}
}

func printTable(w io.Writer, recs []prinfo.Record, rowFilter *filter.Filter) error {
	tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tPPID\tYOUNGEST\tSIBLING\tSTATE\tUID\tCOMM")
	for _, r := range recs {
		if rowFilter != nil {
			ok, err := rowFilter.Match(r)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.PID, r.ParentPID, r.FirstChildPID, r.NextSiblingPID, r.State, r.UID, r.CommString())
	}
	return tw.Flush()
}
