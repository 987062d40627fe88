// Command pools inspect size classes, run thread-cache workloads and
// parse JSON documents into an arena.
package main

import "fmt"
import "os"

import "github.com/bnclabs/mcpalloc/log"
import "github.com/bnclabs/mcpalloc/lib"
import "github.com/spf13/cobra"

var options struct {
	loglevel string
}

var rootCmd = &cobra.Command{
	Use:   "pools",
	Short: "Inspect and exercise the mcpalloc memory pools",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLogger(nil, lib.Settings{"log.level": options.loglevel})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&options.loglevel, "log", "warn", "log level for library logs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
