package remote

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dTodo/cmd/util"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for dTodo servers",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfOwnerPrefix = "__test"
	perfRecords     = 10
	perfNumThreads  = 10
	perfOwnerSpread = 100
	perfSkip        = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. store,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "records"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("How many records the lists of the test owners have"))
	key = "owners"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different owners to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfRecords = viper.GetInt("records")
	perfOwnerSpread = viper.GetInt("owners")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfOwnerSpread <= 0 {
		return fmt.Errorf("owners must be positive")
	}
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	fmt.Println("Performance testing tool for dTodo servers")

	config, err := util.GetClientConfig()
	if err != nil {
		return err
	}

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	list, err := testList(perfRecords)
	if err != nil {
		return err
	}

	fmt.Println("starting tests...")

	results := make(map[string]testing.BenchmarkResult)

	benchmarks := []struct {
		name  string
		setup bool
		op    func(owner string) error
	}{
		{
			name: "store",
			op: func(owner string) error {
				// delete first, the time of both commands is measured
				_ = rpcClient.DeleteOwner(ctx, owner)
				return rpcClient.Store(ctx, owner, list)
			},
		},
		{
			name:  "update",
			setup: true,
			op: func(owner string) error {
				return rpcClient.UpdateList(ctx, owner, list)
			},
		},
		{
			name:  "get",
			setup: true,
			op: func(owner string) error {
				_, _, err := rpcClient.Get(ctx, owner)
				return err
			},
		},
		{
			name: "get-missing",
			op: func(owner string) error {
				_, _, err := rpcClient.Get(ctx, owner)
				return err
			},
		},
		{
			name: "catalog",
			op: func(string) error {
				_, err := rpcClient.ListCatalog(ctx, common.CatalogFruits)
				return err
			},
		},
	}

	for _, bench := range benchmarks {
		bench := bench
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bench.name) {
				return
			}

			// prepare owners
			getOwner, iter := getOwners(bench.name)

			if bench.setup {
				iter(func(owner string) {
					if err := rpcClient.Store(ctx, owner, list); err != nil {
						log.Printf("(%s) - error storing list: %v\n", bench.name, err)
					}
				})
			}

			// cleanup
			b.Cleanup(func() {
				iter(func(owner string) {
					_ = rpcClient.DeleteOwner(ctx, owner)
				})
			})

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					if err := bench.op(getOwner(counter)); err != nil {
						log.Printf("(%s) - error: %v\n", bench.name, err)
					}
					counter++
				}
			})
		})

		results[bench.name] = result
		printResult(bench.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// testList creates a serialized list with n queued records
func testList(n int) (string, error) {
	records := make([]common.Record, n)
	for i := range records {
		records[i] = common.Record{Name: fmt.Sprintf("Item %d", i), Quantity: strconv.Itoa(i + 1)}
	}
	return common.PartitionRecords(records).Marshal()
}

// creates an array of test owners and functions to work with them
func getOwners(prefix string) (func(int) string, func(func(string))) {
	owners := make([]string, perfOwnerSpread)
	for i := 0; i < perfOwnerSpread; i++ {
		owners[i] = fmt.Sprintf("%s-%s-%d", perfOwnerPrefix, prefix, i)
	}

	// Function to get an owner by index (with wraparound)
	getOwner := func(i int) string {
		return owners[i%perfOwnerSpread]
	}

	// Function to iterate over all owners and apply a function to each
	iterateOwners := func(fn func(string)) {
		for _, owner := range owners {
			fn(owner)
		}
	}

	return getOwner, iterateOwners
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Endpoint", "TimeoutSec", "Framing", "Codec", "Transport",
		"Threads", "Records", "Owners",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		skipped := "true"

		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			config.Endpoint,
			strconv.Itoa(config.TimeoutSecond),
			string(config.Framing.Mode),
			viper.GetString("codec"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfRecords),
			strconv.Itoa(perfOwnerSpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
