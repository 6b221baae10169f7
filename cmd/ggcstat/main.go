// Command ggcstat reports the size-class layout and utilization a ggc
// collector's backing arena would use for a given minblock/maxblock
// range.
package main

import "flag"
import "fmt"

import "github.com/dustin/go-humanize"

import "github.com/prataprc/ggc/internal/sysmem"

var options struct {
	minblock int64
	maxblock int64
	capacity int64
	fill     int64
}

func argParse() {
	flag.Int64Var(&options.minblock, "minblock", 32, "minimum block size")
	flag.Int64Var(&options.maxblock, "maxblock", 1024*1024, "maximum block size")
	flag.Int64Var(&options.capacity, "capacity", 10*1024*1024, "arena capacity in bytes")
	flag.Int64Var(&options.fill, "fill", 0, "bytes to allocate (in minblock-sized chunks) before reporting utilization")
	flag.Parse()
}

func main() {
	argParse()
	reportSizes()
	if options.fill > 0 {
		reportUtilization()
	}
}

func reportSizes() {
	sizes := sysmem.Blocksizes(options.minblock, options.maxblock)
	fmt.Println(sizes, options.minblock, options.maxblock)
	for i := range sizes[1:] {
		u := (float64(sizes[i]+sizes[i+1]) / 2.0) / float64(sizes[i+1])
		fmt.Printf("size %10v, util %.4f\n", humanize.Bytes(uint64(sizes[i+1])), u)
	}
	fmt.Printf("total %v size classes\n", len(sizes))
}

func reportUtilization() {
	setts := sysmem.Defaultsettings(options.minblock, options.maxblock)
	arena := sysmem.NewArena(options.capacity, setts)
	defer arena.Release()

	n := options.fill / options.minblock
	for i := int64(0); i < n; i++ {
		if _, _, err := arena.Alloc(options.minblock); err != nil {
			fmt.Printf("allocation %v failed: %v\n", i, err)
			break
		}
	}

	overhead, useful := arena.Memory()
	fmt.Printf(
		"allocated %v, available %v, overhead %v, useful %v\n",
		humanize.Bytes(uint64(arena.Allocated())),
		humanize.Bytes(uint64(arena.Available())),
		humanize.Bytes(uint64(overhead)),
		humanize.Bytes(uint64(useful)),
	)
	sizes, utils := arena.Utilization()
	for i, size := range sizes {
		fmt.Printf("size %10v, util %.2f%%\n", humanize.Bytes(uint64(size)), utils[i])
	}
}
