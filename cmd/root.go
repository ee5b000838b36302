// cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/steveyeoks/o2des-go/demo"
	"github.com/steveyeoks/o2des-go/internal/durationutil"
)

var (
	capacity     int
	arrivalRate  float64
	serviceRate  float64
	horizonHours float64
	seed         int64
	logLevel     string
	scenarioPath string
)

var rootCmd = &cobra.Command{
	Use:   "o2des-go",
	Short: "Discrete-event simulation kernel and M/M/c queueing demo",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the M/M/c queueing demo to completion",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := &ScenarioConfig{
			Capacity:     capacity,
			ArrivalRate:  arrivalRate,
			ServiceRate:  serviceRate,
			HorizonHours: horizonHours,
			Seed:         seed,
		}
		if scenarioPath != "" {
			loaded, err := LoadScenarioConfig(scenarioPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		} else if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting M/M/c run: capacity=%d arrival_rate=%.2f service_rate=%.2f horizon=%s",
			cfg.Capacity, cfg.ArrivalRate, cfg.ServiceRate, durationutil.FormatHMS(hoursToDuration(cfg.HorizonHours)))

		sim := demo.NewMMcQueuePull(cfg.Capacity, cfg.ArrivalRate, cfg.ServiceRate, cfg.Seed)
		sim.SetDebugMode(logLevel == "debug" || logLevel == "trace")
		sim.RunForPeriod(hoursToDuration(cfg.HorizonHours))

		printResults(sim)
		logrus.Info("Simulation complete.")
	},
}

func printResults(sim *demo.MMcQueuePull) {
	fmt.Printf("Number waiting:    average %.4f, P95 %d\n",
		sim.Queue.NumberWaiting.AverageCount(), sim.Queue.NumberWaiting.Percentile(95))
	fmt.Printf("Number pending:    average %.4f\n", sim.Server.NumberPending.AverageCount())
	fmt.Printf("Number in service: average %.4f, utilization %.4f\n",
		sim.Server.NumberInService.AverageCount(), sim.Server.NumberInService.WorkingTimeRatio())
	fmt.Printf("Sojourn time P50/P99 (ms): %d / %d\n",
		sim.Server.SojournTimes.ValueAtQuantile(50), sim.Server.SojournTimes.ValueAtQuantile(99))
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().IntVar(&capacity, "capacity", 1, "Number of parallel servers")
	runCmd.Flags().Float64Var(&arrivalRate, "arrival-rate", 4.0, "Hourly Poisson arrival rate")
	runCmd.Flags().Float64Var(&serviceRate, "service-rate", 5.0, "Hourly exponential service rate")
	runCmd.Flags().Float64Var(&horizonHours, "horizon", 100.0, "Simulated run horizon, in hours")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Root sandbox seed")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (overrides the flags above)")

	rootCmd.AddCommand(runCmd)
}
