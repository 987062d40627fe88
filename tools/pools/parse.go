package main

import "fmt"
import "os"
import "time"

import "github.com/bnclabs/mcpalloc/jsonv"
import "github.com/bnclabs/mcpalloc/lib"
import humanize "github.com/dustin/go-humanize"
import "github.com/spf13/cobra"

var parseopts struct {
	blocksize int
	unescape  bool
	maxdepth  int
	print     bool
}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a JSON document into an arena and report arena usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runparse(args[0])
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&parseopts.blocksize, "blocksize", 32*1024, "arena block size")
	flags.BoolVar(&parseopts.unescape, "unescape", false, "decode string escapes")
	flags.IntVar(&parseopts.maxdepth, "maxdepth", jsonv.Maxdepth, "nesting limit")
	flags.BoolVar(&parseopts.print, "print", false, "print the parsed document")
	rootCmd.AddCommand(cmd)
}

func runparse(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	setts := jsonv.Defaultsettings().Mixin(lib.Settings{
		"maxdepth":        parseopts.maxdepth,
		"unescape":        parseopts.unescape,
		"arena.blocksize": parseopts.blocksize,
	})
	arena := jsonv.Fromsettings(setts)
	defer arena.Destroy()

	now := time.Now()
	root, err := jsonv.NewParser(setts).Parse(arena, data)
	if err != nil {
		return err
	}
	fmt.Printf("parsed %v of %v in %v\n",
		humanize.IBytes(uint64(len(data))), root.Type(), time.Since(now))
	fmt.Printf("arena %v\n", arena.Stats())
	if parseopts.print {
		fmt.Println(jsonv.Stringify(root))
	}
	return nil
}
