package main

import "fmt"

import "github.com/bnclabs/mcpalloc/malloc"
import humanize "github.com/dustin/go-humanize"
import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "classes",
		Short: "Print the size-class table and per-class utilization",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tellclasses()
		},
	})
}

func tellclasses() {
	from := int64(0)
	for _, class := range []malloc.Class{malloc.Small, malloc.Medium, malloc.Large} {
		size := class.Blocksize()
		// mean utilization for uniformly distributed requests in (from,size].
		u := (float64(from+1+size) / 2.0) / float64(size)
		fmt.Printf("%-7v (%v, %v] block:%v footprint:%v util:%.2f\n",
			class, from, size, humanize.IBytes(uint64(size)),
			humanize.IBytes(uint64(size+malloc.Hdrsize)), u)
		from = size
	}
	fmt.Printf("%-7v > %v system allocator\n", malloc.Oversize, from)
}
