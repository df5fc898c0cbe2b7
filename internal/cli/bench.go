package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jabtool/jab/internal/bench"
	"github.com/jabtool/jab/internal/output"
	"github.com/jabtool/jab/internal/probe"
)

var benchCmd = &cobra.Command{
	Use:   "bench URL",
	Short: "Benchmark an endpoint with sequential requests",
	Long: `Issue N sequential requests through the probe pipeline and report
aggregate statistics: mean/median/min/max/p95 latency, success rate,
and throughput. Failed samples are counted inside the aggregate rather
than aborting the run. Total elapsed time is measured around the whole
run, so rate-limit idle gaps count toward throughput.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		count, _ := cmd.Flags().GetInt("requests")

		req, err := requestFromFlags(cmd, args[0])
		if err != nil {
			fail(err)
		}
		client, err := probe.NewClient(configFromFlags(cmd))
		if err != nil {
			fail(err)
		}
		formatter, format, err := rendererFromFlags(cmd)
		if err != nil {
			fail(err)
		}

		if format == output.FormatText {
			fmt.Printf("Benchmarking %s with %d requests...\n", req.FullURL(), count)
		}

		result, err := bench.New(client).Run(context.Background(), req, count)
		if err != nil {
			fail(err)
		}

		if format == output.FormatText {
			fmt.Print(formatter.FormatBenchmark(result))
			return
		}
		rendered, err := output.Render(format, output.NewBenchmarkDocument(result))
		if err != nil {
			fail(err)
		}
		fmt.Print(rendered)
	},
}

func init() {
	addRequestFlags(benchCmd)
	addPipelineFlags(benchCmd)
	addOutputFlags(benchCmd)
	benchCmd.Flags().IntP("requests", "n", 10, "number of requests to issue")
}
