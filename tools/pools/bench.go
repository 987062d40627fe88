package main

import "fmt"
import "sync"
import "time"
import "math/rand"

import "github.com/bnclabs/mcpalloc/malloc"
import humanize "github.com/dustin/go-humanize"
import "github.com/spf13/cobra"

var benchopts struct {
	routines int
	ops      int
	maxsize  int
	window   int
	adaptive bool
	seed     int64
	verbose  bool
}

func init() {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run alloc/free workload through per-goroutine thread caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runbench()
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&benchopts.routines, "routines", 4, "number of goroutines")
	flags.IntVar(&benchopts.ops, "ops", 1000000, "allocations per goroutine")
	flags.IntVar(&benchopts.maxsize, "maxsize", 4096, "largest request size")
	flags.IntVar(&benchopts.window, "window", 64, "live blocks per goroutine")
	flags.BoolVar(&benchopts.adaptive, "adaptive", true, "adaptive cache sizing")
	flags.Int64Var(&benchopts.seed, "seed", time.Now().UnixNano(), "random seed")
	flags.BoolVar(&benchopts.verbose, "verbose", false, "print request size statistics")
	rootCmd.AddCommand(cmd)
}

func runbench() error {
	if benchopts.routines < 1 || benchopts.maxsize < 1 || benchopts.window < 1 {
		return fmt.Errorf("routines, maxsize and window must be positive")
	}
	pools := malloc.Default()
	if !pools.Init(malloc.Defaultsmall, malloc.Defaultmedium, malloc.Defaultlarge) {
		return fmt.Errorf("unable to initialize pool system")
	}
	defer pools.Cleanup()

	fmt.Printf("seed: %v\n", benchopts.seed)
	statsch := make(chan routinestats, benchopts.routines)
	var wg sync.WaitGroup
	now := time.Now()
	for i := 0; i < benchopts.routines; i++ {
		wg.Add(1)
		go benchroutine(pools, benchopts.seed+int64(i), statsch, &wg)
	}
	wg.Wait()
	close(statsch)
	elapsed := time.Since(now)

	total := int64(benchopts.routines) * int64(benchopts.ops)
	fmt.Printf("%v allocations in %v (%v/op)\n",
		humanize.Comma(total), elapsed,
		time.Duration(int64(elapsed)/max(total, 1)))
	for st := range statsch {
		fmt.Println(st.stats)
		if benchopts.verbose {
			fmt.Printf("  reqsize:%v\n", st.full["reqsize"])
		}
	}
	for _, class := range []malloc.Class{malloc.Small, malloc.Medium, malloc.Large} {
		if st, ok := pools.Stats(class); ok {
			fmt.Printf("%-7v %v\n", class, st)
		}
	}
	fmt.Println("system", malloc.Getsysstats())
	return nil
}

type routinestats struct {
	stats malloc.Cachestats
	full  map[string]interface{}
}

func benchroutine(
	pools *malloc.PoolSystem, seed int64,
	statsch chan<- routinestats, wg *sync.WaitGroup) {

	defer wg.Done()

	tc := malloc.NewThreadCache(pools)
	config := malloc.Defaultcacheconfig()
	config.Adaptive = benchopts.adaptive
	tc.InitWithConfig(config)
	defer tc.Cleanup()

	rnd := rand.New(rand.NewSource(seed))
	live := make([][]byte, benchopts.window)
	for i := 0; i < benchopts.ops; i++ {
		n := rnd.Intn(len(live))
		if live[n] != nil {
			tc.Free(live[n], len(live[n]))
		}
		live[n] = tc.Alloc(1 + rnd.Intn(benchopts.maxsize))
	}
	for _, b := range live {
		if b != nil {
			tc.Free(b, len(b))
		}
	}
	if st, ok := tc.Stats(); ok {
		statsch <- routinestats{stats: st, full: tc.Fullstats()}
	}
}
