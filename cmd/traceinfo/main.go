// Command traceinfo generates a batch of synthetic leakage traces, runs the
// conditional accumulator and a sliding statistic over it, and prints a
// per-position summary table.
//
// Usage:
//
//	traceinfo [flags]
//
// Examples:
//
//	traceinfo
//	traceinfo -traces 5000 -samples 64 -classes 16 -stat variance
//	traceinfo -parallel -chunk 16
//	traceinfo -config run.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-trace/dsp/core"
	"github.com/cwbudde/algo-trace/dsp/sliding"
	"github.com/cwbudde/algo-trace/dsp/transform"
	"github.com/cwbudde/algo-trace/internal/pcg"
	"github.com/cwbudde/algo-trace/stats/condmean"
)

type config struct {
	Traces    int     `yaml:"traces"`
	Samples   int     `yaml:"samples"`
	Classes   int     `yaml:"classes"`
	Window    int     `yaml:"window"`
	Stat      string  `yaml:"stat"`
	Chunk     int     `yaml:"chunk"`
	Parallel  bool    `yaml:"parallel"`
	Seed      uint64  `yaml:"seed"`
	Leak      []int   `yaml:"leak"`
	Amplitude float64 `yaml:"amplitude"`
}

func defaultConfig() config {
	return config{
		Traces:    2000,
		Samples:   32,
		Classes:   8,
		Window:    4,
		Stat:      "stddev",
		Chunk:     8,
		Parallel:  false,
		Seed:      42,
		Leak:      []int{5, 6, 7},
		Amplitude: 2,
	}
}

func main() {
	def := defaultConfig()

	configPath := flag.String("config", "", "YAML config file; explicit flags override its values")
	traces := flag.Int("traces", def.Traces, "number of synthetic traces")
	samples := flag.Int("samples", def.Samples, "samples per trace")
	classes := flag.Int("classes", def.Classes, "number of leakage classes")
	window := flag.Int("window", def.Window, "sliding statistic window size")
	stat := flag.String("stat", def.Stat, "sliding statistic: mean, variance, stddev, skewness, kurtosis")
	chunk := flag.Int("chunk", def.Chunk, "sample-axis chunk size for the parallel accumulator")
	parallel := flag.Bool("parallel", def.Parallel, "accumulate sample-axis chunks in parallel")
	seed := flag.Uint64("seed", def.Seed, "trace generator seed")
	amplitude := flag.Float64("amplitude", def.Amplitude, "per-class leak amplitude")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: traceinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Generates synthetic leakage traces and prints per-position statistics.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := def
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "traces":
			cfg.Traces = *traces
		case "samples":
			cfg.Samples = *samples
		case "classes":
			cfg.Classes = *classes
		case "window":
			cfg.Window = *window
		case "stat":
			cfg.Stat = *stat
		case "chunk":
			cfg.Chunk = *chunk
		case "parallel":
			cfg.Parallel = *parallel
		case "seed":
			cfg.Seed = *seed
		case "amplitude":
			cfg.Amplitude = *amplitude
		}
	})

	if err := run(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func statKind(name string) (sliding.StatKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mean":
		return sliding.Mean, nil
	case "variance", "var":
		return sliding.Variance, nil
	case "stddev", "std":
		return sliding.StdDev, nil
	case "skewness", "skew":
		return sliding.Skewness, nil
	case "kurtosis", "kurt":
		return sliding.Kurtosis, nil
	default:
		return 0, fmt.Errorf("unknown statistic %q", name)
	}
}

func run(out io.Writer, cfg config) error {
	kind, err := statKind(cfg.Stat)
	if err != nil {
		return err
	}
	if cfg.Traces < cfg.Classes {
		return fmt.Errorf("need at least one trace per class (%d traces, %d classes)", cfg.Traces, cfg.Classes)
	}
	if cfg.Classes < 2 {
		return fmt.Errorf("need at least 2 classes for an SNR, got %d", cfg.Classes)
	}
	if cfg.Window > cfg.Samples {
		return fmt.Errorf("window %d exceeds trace length %d", cfg.Window, cfg.Samples)
	}
	for _, j := range cfg.Leak {
		if j < 0 || j >= cfg.Samples {
			return fmt.Errorf("leak position %d outside 0..%d", j, cfg.Samples-1)
		}
	}

	data, labels := generateTraces(cfg)

	acc, err := condmean.New[float64](1, cfg.Samples, cfg.Classes)
	if err != nil {
		return err
	}
	if cfg.Parallel {
		par, err := condmean.Split(acc, cfg.Chunk)
		if err != nil {
			return err
		}
		condmean.ProcessBlockParallel(par, data, labels)
		acc = par.Merge()
	} else {
		condmean.ProcessBlock(acc, data, labels)
	}

	mean, variance, count := acc.FreezeGlobalMeanVar()
	snr := acc.FreezeSNR()

	ex, err := sliding.NewExecutor[float64, float64](kind, cfg.Window, 0)
	if err != nil {
		return err
	}
	meanBatch := core.WrapMatrix(mean, 1, cfg.Samples)
	var smoothed core.Matrix[float64]
	if cfg.Parallel {
		smoothed = transform.Apply2DParallel[float64, float64](ex, meanBatch, cfg.Chunk)
	} else {
		smoothed = transform.Apply2D[float64, float64](ex, meanBatch)
	}

	fmt.Fprintf(out, "traces: %d  samples: %d  classes: %d  leak at %v  (seed %d)\n\n",
		count, cfg.Samples, cfg.Classes, cfg.Leak, cfg.Seed)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Pos\tMean\tVariance\tSNR\tSliding %s (w=%d)\t\n", kind, cfg.Window)
	fmt.Fprintf(tw, "---\t----\t--------\t---\t-------\t\n")
	best := 0
	for j := 0; j < cfg.Samples; j++ {
		if snr.At(0, j) > snr.At(0, best) {
			best = j
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			j, mean[j], variance[j], snr.At(0, j), smoothed.At(0, j))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	fmt.Fprintf(out, "\nstrongest leakage at position %d (SNR %.4f)\n", best, snr.At(0, best))
	return nil
}

// generateTraces builds the synthetic batch: uniform noise everywhere, plus
// a class-proportional offset at every configured leak position.
func generateTraces(cfg config) (core.Matrix[float64], core.Matrix[condmean.Label]) {
	rng := pcg.New(cfg.Seed, 2)

	data := core.NewMatrix[float64](cfg.Traces, cfg.Samples)
	labels := core.NewMatrix[condmean.Label](cfg.Traces, 1)
	for i := 0; i < cfg.Traces; i++ {
		class := i % cfg.Classes
		labels.Set(i, 0, condmean.Label(class))

		row := data.Row(i)
		for j := range row {
			row[j] = rng.Float64()*2 - 1
		}
		for _, j := range cfg.Leak {
			row[j] += cfg.Amplitude * float64(class)
		}
	}
	return data, labels
}
