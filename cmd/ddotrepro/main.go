// Command ddotrepro is the CLI driver around the reproducible dot product
// kernel: computing results from file-backed vectors, sweeping
// parallel-scaling benchmarks with resumable checkpoints, running the
// spec's literal scenarios, and fuzzing partition boundaries.
package main

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/oisee/ddotrepro/pkg/ddot"
	"github.com/oisee/ddotrepro/pkg/oracle"
	"github.com/oisee/ddotrepro/pkg/partition"
	"github.com/oisee/ddotrepro/pkg/report"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:   "ddotrepro",
		Short: "Reproducible double-precision dot product — exact superaccumulator kernel",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}

	rootCmd.AddCommand(computeCmd(), benchCmd(), scenariosCmd(), fuzzCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("ddotrepro failed")
		os.Exit(1)
	}
}

func computeCmd() *cobra.Command {
	var xPath, yPath string
	var workers, blockSize int
	var verify bool

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the reproducible dot product of two vector files",
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := readVector(xPath)
			if err != nil {
				return fmt.Errorf("reading --x: %w", err)
			}
			y, err := readVector(yPath)
			if err != nil {
				return fmt.Errorf("reading --y: %w", err)
			}
			if len(x) != len(y) {
				return fmt.Errorf("vector length mismatch: %d vs %d", len(x), len(y))
			}

			var got float64
			if workers > 0 || blockSize > 0 {
				got = ddot.DotReproParallel(x, y, ddot.ParallelConfig{NumWorkers: workers, BlockSize: blockSize})
			} else {
				got = ddot.DotRepro(x, y)
			}

			fmt.Printf("%v\n", got)
			log.Debug().Int("n", len(x)).Int("workers", workers).Int("blockSize", blockSize).Msg("computed dot product")

			if verify {
				want := oracle.DotRepro(x, y)
				mismatch := got != want && !(math.IsNaN(got) && math.IsNaN(want))
				if mismatch {
					log.Error().Float64("got", got).Float64("oracle", want).Msg("oracle cross-check mismatch")
					return fmt.Errorf("oracle cross-check mismatch: got %v, oracle %v", got, want)
				}
				log.Debug().Msg("oracle cross-check passed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xPath, "x", "", "Path to newline-delimited x vector")
	cmd.Flags().StringVar(&yPath, "y", "", "Path to newline-delimited y vector")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of workers (0 = sequential unless --block-size is set)")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "Fixed block size for the parallel path")
	cmd.Flags().BoolVar(&verify, "verify", false, "Cross-check against pkg/oracle")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")
	return cmd
}

func benchCmd() *cobra.Command {
	var sizesStr string
	var workers int
	var checkpointPath string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark DotReproParallel throughput across vector sizes for one worker count",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			sizes, err := parseSizes(sizesStr)
			if err != nil {
				return err
			}

			numWorkers := workers
			if numWorkers <= 0 {
				numWorkers = runtime.NumCPU()
			}

			startAt := 0
			if checkpointPath != "" {
				if ckpt, err := report.LoadCheckpoint(checkpointPath); err == nil {
					startAt = ckpt.CompletedSize
					log.Info().Int("resumeAt", startAt).Msg("resuming benchmark sweep from checkpoint")
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("loading checkpoint: %w", err)
				}
			}
			if startAt > len(sizes) {
				startAt = len(sizes)
			}

			log.Info().Ints("sizes", sizes).Int("workers", numWorkers).Msg("starting benchmark sweep")

			for sizeIdx, n := range sizes[startAt:] {
				sizeIdx += startAt
				select {
				case <-ctx.Done():
					log.Warn().Msg("benchmark interrupted, checkpoint not written for in-flight size")
					return ctx.Err()
				default:
				}

				x := make([]float64, n)
				y := make([]float64, n)
				for i := range x {
					x[i] = float64(i%97-48) * 0.5
					y[i] = float64(i%89-44) * 0.25
				}

				start := time.Now()
				ddot.DotReproParallel(x, y, ddot.ParallelConfig{NumWorkers: numWorkers})
				elapsed := time.Since(start)

				throughput := float64(n) / elapsed.Seconds()
				log.Info().
					Int("size", n).
					Dur("elapsed", elapsed).
					Float64("termsPerSec", throughput).
					Msg("size complete")

				if checkpointPath != "" {
					ckpt := &report.Checkpoint{CompletedSize: sizeIdx + 1}
					if err := report.SaveCheckpoint(checkpointPath, ckpt); err != nil {
						log.Error().Err(err).Msg("failed to write checkpoint")
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sizesStr, "sizes", "1000,10000,100000", "Comma-separated vector sizes")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count (0 = NumCPU)")
	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Checkpoint file to resume/record progress")
	return cmd
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Run the literal scenarios from the spec and report pass/fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runScenarios()
			failed := 0
			for _, r := range results {
				status := "PASS"
				if !r.pass {
					status = "FAIL"
					failed++
				}
				fmt.Printf("[%s] %s\n", status, r.name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
			}
			return nil
		},
	}
}

func fuzzCmd() *cobra.Command {
	var iterations int
	var seed int64

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Fuzz partition boundaries, asserting reproducibility never breaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 2000
			x := make([]float64, n)
			y := make([]float64, n)
			for i := range x {
				x[i] = float64(i%211-100) * 1.75
				y[i] = float64(i%179-90) * 0.625
			}

			seed1 := uint64(seed)
			seed2 := uint64(seed) ^ 0x9E3779B97F4A7C15

			m := partition.Run(x, y, iterations, seed1, seed2)
			if m != nil {
				log.Error().Interface("partition", m.Partition).Float64("want", m.Want).Float64("got", m.Got).
					Msg("partition fuzzing found a reproducibility mismatch")
				return fmt.Errorf("reproducibility mismatch after %d iterations", iterations)
			}
			fmt.Printf("OK: %d partition mutations, no reproducibility mismatch\n", iterations)
			return nil
		},
	}
	cmd.Flags().IntVar(&iterations, "iterations", 10000, "Number of mutation iterations")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PCG seed")
	return cmd
}

type scenarioResult struct {
	name string
	pass bool
}

func readVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var vals []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", line, err)
		}
		vals = append(vals, v)
	}
	return vals, scanner.Err()
}

func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing size %q: %w", p, err)
		}
		sizes = append(sizes, int(v))
	}
	return sizes, nil
}
