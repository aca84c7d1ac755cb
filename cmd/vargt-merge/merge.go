package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/varmerge/vargt-merge/internal/columnar"
	"github.com/varmerge/vargt-merge/internal/genotyper"
	"github.com/varmerge/vargt-merge/internal/gvcf"
	"github.com/varmerge/vargt-merge/internal/merge"
	"github.com/varmerge/vargt-merge/internal/output"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/store"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// zapLoggerAdapter satisfies merge.Logger by forwarding to a *zap.Logger.
type zapLoggerAdapter struct{ l *zap.Logger }

func (a zapLoggerAdapter) Warnf(format string, args ...any) {
	a.l.Sugar().Warnf(format, args...)
}

func newMergeCmd() *cobra.Command {
	var (
		permissive bool
		nonRef     string
		workers    int
		cachePath  string
		outputFile string
		arrowOut   string
	)

	cmd := &cobra.Command{
		Use:   "merge <input-file>",
		Short: "Merge multi-sample variant calls and report per-genotype PL medians",
		Long: `Reads per-site, per-sample variant calls (see internal/gvcf for the
expected format), merges each site's reference and alternate alleles,
re-indexes per-sample PL and GT into merged allele space, and reports a
DummyGenotyper median per genotype slot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := mergeOptions{
				Permissive: permissive,
				NonRef:     nonRef,
				Workers:    workers,
				CachePath:  cachePath,
				OutputFile: outputFile,
				ArrowOut:   arrowOut,
			}
			applyConfigDefaults(cmd, &opts)
			return runMerge(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&permissive, "permissive", false, "log and skip sites with an inconsistent reference instead of failing the run")
	cmd.Flags().StringVar(&nonRef, "non-ref-token", "<NON_REF>", "literal token recognized as the symbolic NON_REF allele")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of merge worker goroutines (0 = NumCPU)")
	cmd.Flags().StringVar(&cachePath, "cache", "", "optional DuckDB path to persist merged results")
	cmd.Flags().StringVar(&outputFile, "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&arrowOut, "arrow-out", "", "optional Arrow IPC file to receive the remapped PL matrix, one column per genotype slot")

	return cmd
}

type mergeOptions struct {
	Permissive bool
	NonRef     string
	Workers    int
	CachePath  string
	OutputFile string
	ArrowOut   string
}

// applyConfigDefaults fills in any mergeOptions field whose flag the
// caller did not pass explicitly from the persisted config (see
// config.go's mergeConfigKeys), so "vargt-merge config set merge.workers
// 8" actually changes runMerge's behavior instead of only being
// readable back via "config get".
func applyConfigDefaults(cmd *cobra.Command, opts *mergeOptions) {
	if !cmd.Flags().Changed("permissive") && viper.IsSet("merge.permissive") {
		opts.Permissive = viper.GetBool("merge.permissive")
	}
	if !cmd.Flags().Changed("non-ref-token") && viper.IsSet("merge.non_ref_token") {
		opts.NonRef = viper.GetString("merge.non_ref_token")
	}
	if !cmd.Flags().Changed("workers") && viper.IsSet("merge.workers") {
		opts.Workers = viper.GetInt("merge.workers")
	}
	if !cmd.Flags().Changed("cache") && viper.IsSet("merge.cache") {
		opts.CachePath = viper.GetString("merge.cache")
	}
	if !cmd.Flags().Changed("arrow-out") && viper.IsSet("merge.arrow_out") {
		opts.ArrowOut = viper.GetString("merge.arrow_out")
	}
}

func runMerge(inputPath string, opts mergeOptions) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	reg := querycfg.Standard()
	parser := gvcf.NewParser(in, reg, opts.NonRef)

	out := os.Stdout
	if opts.OutputFile != "" {
		f, err := os.Create(opts.OutputFile)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	writer := output.NewGenotypeWriter(out)

	var cache *store.Store
	if opts.CachePath != "" {
		cache, err = store.Open(opts.CachePath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()
	}

	logger := newLogger()
	defer logger.Sync()
	log := zapLoggerAdapter{l: logger}

	plIdx := reg.QueryIdxFor(querycfg.PL)

	columnarFieldIdx := -1
	var arrowFile *os.File
	var arrowWriter *columnar.Writer
	var arrowSlots int
	if opts.ArrowOut != "" {
		columnarFieldIdx = plIdx
		arrowFile, err = os.Create(opts.ArrowOut)
		if err != nil {
			return fmt.Errorf("create arrow output: %w", err)
		}
		defer arrowFile.Close()
	}

	sites := make(chan *variant.Variant, 64)
	go func() {
		defer close(sites)
		for {
			site, err := parser.Next()
			if err != nil {
				log.Warnf("stopping after parse error: %v", err)
				return
			}
			if site == nil {
				return
			}
			sites <- site
		}
	}()

	results := merge.RunSharded(sites, reg, opts.NonRef, opts.Permissive, log, opts.Workers, columnarFieldIdx)

	runErr := merge.OrderedCollect(results, func(r merge.SiteResult) error {
		if r.Err != nil {
			return fmt.Errorf("merge site at column %d: %w", r.Site.ColumnBegin, r.Err)
		}
		if r.Merged == nil {
			return nil // no valid calls, or skipped under permissive mode
		}

		medians := genotyper.Medians(r.Merged, plIdx)
		ref := r.Merged.Calls[firstValidIdx(r.Merged)].Field(reg.QueryIdxFor(querycfg.REF)).Strings[0]
		alt := r.Merged.Calls[firstValidIdx(r.Merged)].Field(reg.QueryIdxFor(querycfg.ALT)).Strings

		if err := writer.WriteSite(r.Merged.ColumnBegin, ref, alt, medians); err != nil {
			return fmt.Errorf("write site: %w", err)
		}

		if cache != nil {
			if err := cache.PutSite(r.Merged.ColumnBegin, ref, alt, medians); err != nil {
				return fmt.Errorf("cache site: %w", err)
			}
		}

		if arrowFile != nil && r.Columnar != nil {
			if arrowWriter == nil {
				arrowSlots = r.Columnar.NumSlots()
				arrowWriter, err = columnar.NewWriter(arrowFile, arrowSlots, 4096)
				if err != nil {
					return fmt.Errorf("open arrow writer: %w", err)
				}
			}
			if r.Columnar.NumSlots() != arrowSlots {
				log.Warnf("skipping arrow export for site at column %d: %d genotype slots, writer fixed at %d", r.Merged.ColumnBegin, r.Columnar.NumSlots(), arrowSlots)
			} else {
				for s := 0; s < r.Columnar.NumSamples(); s++ {
					if err := arrowWriter.WriteSample(r.Columnar.SampleColumn(s)); err != nil {
						return fmt.Errorf("write arrow row: %w", err)
					}
				}
			}
		}

		return nil
	})

	if runErr != nil {
		return runErr
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if arrowWriter != nil {
		if err := arrowWriter.Close(); err != nil {
			return fmt.Errorf("close arrow writer: %w", err)
		}
	}

	return nil
}

func firstValidIdx(v *variant.Variant) int {
	for i, c := range v.Calls {
		if c != nil && c.Valid {
			return i
		}
	}
	return 0
}
