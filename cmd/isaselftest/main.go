// Command isaselftest is a standalone harness for exercising the mutator
// outside the AFL++ host: load a schema and config, pass one fixed sample
// buffer through the stream mutator a few times, and print field usage for
// schema-authoring debugging.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/robin3773/isa-mutator/internal/isa"
	"github.com/robin3773/isa-mutator/internal/mutate"
	"github.com/robin3773/isa-mutator/internal/mutatorconfig"
	"github.com/robin3773/isa-mutator/internal/mutatorerr"
	"github.com/robin3773/isa-mutator/internal/prng"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		schemaRoot  = flag.String("schema-root", ".", "directory containing isa_map.yaml")
		isaName     = flag.String("isa", "", "ISA name to load from isa_map.yaml")
		isaMapPath  = flag.String("isa-map", "", "override path to isa_map.yaml")
		configPath  = flag.String("config", "", "mutator YAML config path")
		seed        = flag.Uint("seed", 1, "PRNG seed")
		rounds      = flag.Int("rounds", 5, "number of times to mutate the sample buffer")
		showUsage   = flag.Bool("field-usage", false, "print field-to-instruction cross reference")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("isaselftest %s (%s)\n", Version, Commit)
		return
	}

	if *isaName == "" {
		fmt.Fprintln(os.Stderr, "isaselftest: -isa is required")
		os.Exit(2)
	}

	schema, err := isa.Load(*schemaRoot, *isaName, *isaMapPath)
	if err != nil {
		mutatorerr.Fatal(err)
	}
	fmt.Printf("loaded ISA %q: %d fields, %d formats, %d instructions (enable_c=%v)\n",
		schema.Name, len(schema.Fields), len(schema.Formats), len(schema.Instructions), schema.EnableC)

	cfg := mutatorconfig.DefaultConfig()
	cfg.ISAName = *isaName
	cfg.EnableC = schema.EnableC
	if *configPath != "" {
		loaded, err := mutatorconfig.Load(*configPath)
		if err != nil {
			mutatorerr.Fatal(err)
		}
		loaded.EnableC = schema.EnableC
		cfg = loaded
	}

	if *showUsage {
		printFieldUsage(schema)
	}

	rng := prng.New(uint32(*seed))
	sample := []byte{0x13, 0x00, 0x00, 0x00, 0x63, 0x00, 0x00, 0x00}
	out := make([]byte, len(sample))

	for r := 0; r < *rounds; r++ {
		n := mutate.Stream(sample, out, len(out), schema, cfg, rng, nil, nil)
		fmt.Printf("round %d: % x -> % x (legal=%v)\n", r, sample, out[:n], isa.IsLegal(u32(out[:4]), schema))
	}
}

func u32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func printFieldUsage(schema *isa.ISA) {
	usage := schema.FieldUsage()
	for idx, field := range schema.Fields {
		fid := isa.FieldID(idx)
		insts := usage[fid]
		names := make([]string, 0, len(insts))
		for _, iid := range insts {
			names = append(names, schema.Instructions[iid].Name)
		}
		fmt.Printf("  %-10s used by: %v\n", field.Name, names)
	}
}
