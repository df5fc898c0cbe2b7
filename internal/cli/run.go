package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jabtool/jab/internal/bench"
	"github.com/jabtool/jab/internal/config"
	"github.com/jabtool/jab/internal/probe"
	"github.com/jabtool/jab/pkg/jsonpath"
)

var runCmd = &cobra.Command{
	Use:   "run FILE [request...]",
	Short: "Execute named requests from a YAML profile",
	Long: `Run requests defined in a YAML profile. Without request names every
request in the profile runs, in name order. A request with count above 1
runs as a benchmark. The process exits non-zero when any probe fails.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		noColor, _ := cmd.Flags().GetBool("no-color")

		profile, err := config.Load(args[0])
		if err != nil {
			fail(err)
		}

		names := args[1:]
		if len(names) == 0 {
			names = profile.RequestNames()
		}

		cfg, err := profile.ClientConfig()
		if err != nil {
			fail(err)
		}
		client, err := probe.NewClient(cfg)
		if err != nil {
			fail(err)
		}

		formatter, _, err := rendererFromFlags(cmd)
		if err != nil {
			fail(err)
		}
		formatter.Verbose = verbose
		formatter.NoColor = formatter.NoColor || noColor

		failed := false
		for _, name := range names {
			req, spec, err := profile.BuildRequest(name)
			if err != nil {
				fail(err)
			}

			fmt.Printf("== %s\n", name)
			if spec.Count > 1 {
				result, err := bench.New(client).Run(context.Background(), req, spec.Count)
				if err != nil {
					fail(err)
				}
				fmt.Print(formatter.FormatBenchmark(result))
				if result.Failures > 0 {
					failed = true
				}
				continue
			}

			fmt.Print(formatter.FormatRequest(req))
			resp, err := client.Execute(context.Background(), req)
			if err != nil {
				fail(err)
			}
			fmt.Print(formatter.FormatResponse(resp))
			if !resp.Success() {
				failed = true
			}

			if len(spec.Extract) > 0 {
				values, err := jsonpath.ExtractAll(resp.BodyString(), spec.Extract)
				if err != nil {
					fmt.Fprintln(os.Stderr, "Warning:", err)
				}
				for _, key := range sortedKeys(values) {
					fmt.Printf("  %s: %s\n", key, values[key])
				}
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	addOutputFlags(runCmd)
}
