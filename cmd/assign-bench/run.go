package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/assign/internal/logger"
	"github.com/katalvlaran/assign/matching"
	"github.com/katalvlaran/assign/perf"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark one matcher configuration against a random square matrix",
	Run: func(cmd *cobra.Command, _ []string) {
		runBench(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("size", "n", 100, "matrix dimension (n x n)")
	runCmd.Flags().IntP("iterations", "i", perf.DefaultIterations, "iterations per measurement")
	runCmd.Flags().Int64P("seed", "s", 1, "seed for generated matrices and tie-breaking")
	runCmd.Flags().Int("cache-size", matching.DefaultCacheSize, "LRU solve cache capacity")
	runCmd.Flags().String("name", "cli", "matcher label in results")
	runCmd.Flags().String("csv", "", "write results to this CSV file")
	runCmd.Flags().String("json-out", "", "write results to this JSON file")

	viper.BindPFlag("size", runCmd.Flags().Lookup("size"))
	viper.BindPFlag("iterations", runCmd.Flags().Lookup("iterations"))
	viper.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	viper.BindPFlag("cache-size", runCmd.Flags().Lookup("cache-size"))
}

// runBench is the single-size benchmark command.
func runBench(cmd *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	size := viper.GetInt("size")
	seed := viper.GetInt64("seed")
	name, _ := cmd.Flags().GetString("name")

	mt := matching.NewMatcher(
		matching.WithName(name),
		matching.WithSeed(seed),
		matching.WithCacheSize(viper.GetInt("cache-size")),
		matching.WithLogger(zlog),
	)
	a := perf.NewAnalyzer(
		perf.WithIterations(viper.GetInt("iterations")),
		perf.WithSeed(seed),
		perf.WithLogger(zlog),
	)

	zlog.Info("starting benchmark",
		zap.String("matcher", name), zap.Int("size", size), zap.Int64("seed", seed))

	if _, err = a.RunScalabilityTest(mt, []int{size}); err != nil {
		zlog.Fatal("benchmark failed", zap.Error(err))
	}

	fmt.Print(a.RenderTable())
	exportResults(cmd, a, zlog)
}

// exportResults honors the --csv / --json-out flags, shared by subcommands.
func exportResults(cmd *cobra.Command, a *perf.Analyzer, zlog *zap.Logger) {
	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		if err := a.SaveCSV(path); err != nil {
			zlog.Fatal("saving csv", zap.Error(err))
		}
		zlog.Info("results saved", zap.String("path", path))
	}
	if path, _ := cmd.Flags().GetString("json-out"); path != "" {
		if err := a.SaveJSON(path); err != nil {
			zlog.Fatal("saving json", zap.Error(err))
		}
		zlog.Info("results saved", zap.String("path", path))
	}
}
