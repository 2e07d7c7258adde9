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

var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Benchmark one matcher configuration across growing matrix sizes",
	Run: func(cmd *cobra.Command, _ []string) {
		runScale(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scaleCmd)

	scaleCmd.Flags().IntSlice("sizes", []int{10, 50, 100, 200}, "matrix dimensions to sweep")
	scaleCmd.Flags().IntP("iterations", "i", perf.DefaultIterations, "iterations per measurement")
	scaleCmd.Flags().Int64P("seed", "s", 1, "seed for generated matrices and tie-breaking")
	scaleCmd.Flags().String("name", "scale", "matcher label in results")
	scaleCmd.Flags().String("csv", "", "write results to this CSV file")
	scaleCmd.Flags().String("json-out", "", "write results to this JSON file")
}

// runScale sweeps the configured sizes and prints the table plus a timing
// summary.
func runScale(cmd *cobra.Command) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	sizes, _ := cmd.Flags().GetIntSlice("sizes")
	iterations, _ := cmd.Flags().GetInt("iterations")
	seed, _ := cmd.Flags().GetInt64("seed")
	name, _ := cmd.Flags().GetString("name")

	mt := matching.NewMatcher(
		matching.WithName(name),
		matching.WithSeed(seed),
		matching.WithLogger(zlog),
	)
	a := perf.NewAnalyzer(
		perf.WithIterations(iterations),
		perf.WithSeed(seed),
		perf.WithLogger(zlog),
	)

	zlog.Info("starting scalability sweep",
		zap.String("matcher", name), zap.Ints("sizes", sizes), zap.Int64("seed", seed))

	if _, err = a.RunScalabilityTest(mt, sizes); err != nil {
		zlog.Fatal("scalability sweep failed", zap.Error(err))
	}

	fmt.Print(a.RenderTable())

	s := a.Summarize()
	fmt.Printf("\nmeasurements: %d  min: %.6fs  median: %.6fs  avg: %.6fs  max: %.6fs\n",
		s.Count, s.MinTime, s.MedianTime, s.AvgTime, s.MaxTime)

	exportResults(cmd, a, zlog)
}
