package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"github.com/superoptimizer/volcano/internal/chord"
	"github.com/superoptimizer/volcano/internal/worker"
	"github.com/superoptimizer/volcano/internal/zarr"
	"github.com/spf13/cobra"
)

var (
	volumeBaseURL string
	volumeArray   string
	fiberBaseURL  string
	fiberArray    string
	outputDir     string
	zmax, ymax, xmax int
	numWorkers    int
	axisFlag      string
	compressed    bool
	randSeed      int64
	processCpuProfile string
	processMemProfile string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract superpixels and chords from a scroll volume",
	Long: `Walks a tomographic scroll volume chunk by chunk, clustering each
chunk into superpixels with SNIC, growing chords across the superpixel
adjacency graph, and writing the results as CSV files.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&volumeBaseURL, "volume-url", "", "Base URL of the scroll volume zarr store (required)")
	processCmd.Flags().StringVar(&volumeArray, "volume-array", "0", "Array path within the volume store")
	processCmd.Flags().StringVar(&fiberBaseURL, "fiber-url", "", "Base URL of the fiber-mask zarr store (required)")
	processCmd.Flags().StringVar(&fiberArray, "fiber-array", "0", "Array path within the fiber store")
	processCmd.Flags().StringVar(&outputDir, "out", "./output", "Directory to write CSV output into")
	processCmd.Flags().IntVar(&zmax, "zmax", 14376, "Volume extent along Z")
	processCmd.Flags().IntVar(&ymax, "ymax", 7888, "Volume extent along Y")
	processCmd.Flags().IntVar(&xmax, "xmax", 8096, "Volume extent along X")
	processCmd.Flags().IntVar(&numWorkers, "workers", 1, "Number of concurrent chunk workers")
	processCmd.Flags().StringVar(&axisFlag, "axis", "z", "Chord growth axis: z, y, or x")
	processCmd.Flags().BoolVar(&compressed, "gzip", false, "Write gzip-compressed CSV output")
	processCmd.Flags().Int64Var(&randSeed, "seed", 42, "Seed grower random source")

	processCmd.Flags().StringVar(&processCpuProfile, "cpuprofile", "", "Write CPU profile to file")
	processCmd.Flags().StringVar(&processMemProfile, "memprofile", "", "Write memory profile to file")

	processCmd.MarkFlagRequired("volume-url")
	processCmd.MarkFlagRequired("fiber-url")
	rootCmd.AddCommand(processCmd)
}

func parseAxis(s string) (chord.Axis, error) {
	switch s {
	case "z", "Z":
		return chord.AxisZ, nil
	case "y", "Y":
		return chord.AxisY, nil
	case "x", "X":
		return chord.AxisX, nil
	default:
		return 0, fmt.Errorf("unknown axis %q (want z, y, or x)", s)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processCpuProfile != "" {
		f, err := os.Create(processCpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", processCpuProfile)
	}

	axis, err := parseAxis(axisFlag)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cfg := worker.DefaultConfig()
	cfg.Zmax, cfg.Ymax, cfg.Xmax = zmax, ymax, xmax
	cfg.NumWorkers = numWorkers
	cfg.Axis = axis
	cfg.Compressed = compressed
	cfg.OutputDir = outputDir
	cfg.RandSeed = randSeed

	src := &worker.Source{
		Volume:     zarr.NewFetcher(volumeBaseURL),
		VolumePath: volumeArray,
		Fiber:      zarr.NewFetcher(fiberBaseURL),
		FiberPath:  fiberArray,
	}
	pool := worker.NewPool(cfg, src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		slog.Info("shutdown signal received, finishing in-flight chunks", "signal", s)
		cancel()
	}()

	processed := 0
	skipped := 0
	err = pool.Run(ctx, func(r worker.Result) {
		if r.Skipped {
			skipped++
			return
		}
		processed++
	})

	slog.Info("processing complete", "processed", processed, "skipped", skipped)
	fmt.Printf("Processed %d chunks (%d skipped) into %s\n", processed, skipped, outputDir)

	if processMemProfile != "" {
		f, ferr := os.Create(processMemProfile)
		if ferr != nil {
			return fmt.Errorf("failed to create memory profile: %w", ferr)
		}
		defer f.Close()
		runtime.GC()
		if werr := pprof.WriteHeapProfile(f); werr != nil {
			return fmt.Errorf("failed to write memory profile: %w", werr)
		}
		slog.Info("memory profile written", "output", processMemProfile)
	}

	return err
}
