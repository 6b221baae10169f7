// Command ggcmonster generates random allocate/free/root/unroot/pause/
// resume/run sequences with github.com/prataprc/monster and replays them
// against a live collector, checking the allocation index's bookkeeping
// invariant after every op.
package main

import "encoding/json"
import "flag"
import "fmt"
import "io/ioutil"
import "log"
import "sort"
import "unsafe"

import "github.com/prataprc/goparsec"
import "github.com/prataprc/monster"
import mcommon "github.com/prataprc/monster/common"

import "github.com/prataprc/ggc"

var options struct {
	n        int
	seed     int
	prodfile string
}

func argParse() {
	flag.IntVar(&options.n, "n", 1000, "number of operations to generate and replay")
	flag.IntVar(&options.seed, "seed", 1, "random seed")
	flag.StringVar(&options.prodfile, "prodfile", "ops.bnf", "monster production file describing the op grammar")
	flag.Parse()

	if options.prodfile == "" {
		log.Fatalf("please provide a production file to monster")
	}
	fmt.Printf("seed: %v\n", options.seed)
}

func main() {
	argParse()

	ops := generate(options.n, options.prodfile)
	stats := replay(ops)

	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	total := 0
	for _, key := range keys {
		total += stats[key]
		fmt.Printf("%v : %v\n", key, stats[key])
	}
	fmt.Printf("total : %v\n", total)
}

func generate(n int, prodfile string) [][]interface{} {
	text, err := ioutil.ReadFile(prodfile)
	if err != nil {
		log.Fatal(err)
	}
	root := compile(parsec.NewScanner(text)).(mcommon.Scope)
	scope := monster.BuildContext(root, uint64(options.seed), "", prodfile)
	nterms := scope["_nonterminals"].(mcommon.NTForms)

	ops := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		scope = scope.RebuildContext()
		val := evaluate("root", scope, nterms["s"])
		var arr [][]interface{}
		if err := json.Unmarshal([]byte(val.(string)), &arr); err != nil {
			log.Fatal(err)
		}
		ops = append(ops, arr...)
	}
	return ops
}

func compile(s parsec.Scanner) parsec.ParsecNode {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("%v at %v", r, s.GetCursor())
		}
	}()
	root, _ := monster.Y(s)
	return root
}

func evaluate(name string, scope mcommon.Scope, forms []*mcommon.Form) interface{} {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("%v", r)
		}
	}()
	return monster.EvalForms(name, scope, forms)
}

// replay drives a live collector through the generated op sequence,
// checking after every op that the index's size never exceeds the
// number of pointers the harness still considers live. It can be lower:
// an explicit or automatic Run may reclaim blocks the harness still holds.
func replay(ops [][]interface{}) map[string]int {
	var sentinel int
	ctx := ggc.Start(uintptr(unsafe.Pointer(&sentinel)))
	defer ctx.Stop()

	stats := make(map[string]int)
	live := make([]uintptr, 0, 256)

	for _, op := range ops {
		name, _ := op[0].(string)
		stats[name]++
		switch name {
		case "alloc":
			size := int64(8)
			if len(op) > 1 {
				if f, ok := op[1].(float64); ok {
					size = int64(f)
				}
			}
			if ptr := ctx.Malloc(size); ptr != 0 {
				live = append(live, ptr)
			}
		case "free":
			if len(live) > 0 {
				ptr := live[len(live)-1]
				live = live[:len(live)-1]
				ctx.Free(ptr)
			}
		case "root":
			if len(live) > 0 {
				ctx.MakeStatic(live[len(live)-1])
			}
		case "unroot":
			// clearing one block's root tag is not part of the public
			// façade (the only unrooting is the unexported bulk
			// unrootRoots that Stop uses); skip.
		case "pause":
			ctx.Pause()
		case "resume":
			ctx.Resume()
		case "run":
			ctx.Run()
		}
		if got, want := ctx.Index().Size(), int64(len(live)); got < 0 || got > want {
			log.Fatalf("index size %v inconsistent with %v pointers the harness still considers live", got, want)
		}
	}
	return stats
}
