package main

import "fmt"

import "github.com/bnclabs/mcpalloc/jsonv"
import "github.com/bnclabs/mcpalloc/lib"
import "github.com/bnclabs/mcpalloc/log"
import "github.com/bnclabs/mcpalloc/malloc"
import "github.com/bnclabs/mcpalloc/region"
import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "settings",
		Short: "Print default settings of every package",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tellsettings("malloc", malloc.Defaultsettings())
			tellsettings("malloc", malloc.Cachesettings())
			tellsettings("region", region.Defaultsettings())
			tellsettings("jsonv", jsonv.Defaultsettings())
			tellsettings("log", log.Defaultsettings())
		},
	})
}

func tellsettings(pkg string, setts lib.Settings) {
	for _, key := range setts.Keys() {
		fmt.Printf("%-7v %-18v %v\n", pkg, key, setts[key])
	}
}
