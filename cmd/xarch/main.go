package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	crossarch "github.com/RunningShrimp/vm-sub002"
	"github.com/RunningShrimp/vm-sub002/abi"
	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/memory"
	"github.com/RunningShrimp/vm-sub002/pattern"
	"github.com/RunningShrimp/vm-sub002/register"
)

func main() {
	var (
		from        = flag.String("from", "x86_64", "Source architecture")
		to          = flag.String("to", "aarch64", "Target architecture")
		regs        = flag.Bool("regs", false, "Print the target register inventory")
		mapNames    = flag.String("map", "", "Source registers to map (rax,rcx,...)")
		check       = flag.String("check", "", "Memory access to check (addr:width[:align][:atomic])")
		op          = flag.String("op", "", "IR operation to lower (\"add r0, r1, r2\")")
		wasmFile    = flag.String("wasm", "", "Core wasm module whose exports to lower")
		host        = flag.Bool("host", false, "Print the detected host configuration")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		register.SetLogger(l.Named("register"))
		memory.SetLogger(l.Named("memory"))
		pattern.SetLogger(l.Named("pattern"))
		abi.SetLogger(l.Named("abi"))
	}

	source, err := arch.Parse(*from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	target, err := arch.Parse(*to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(source, target); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	o := options{
		regs:     *regs,
		mapNames: *mapNames,
		check:    *check,
		op:       *op,
		wasmFile: *wasmFile,
		host:     *host,
	}
	if o.empty() {
		usage()
		os.Exit(1)
	}
	if err := run(source, target, o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	mapNames string
	check    string
	op       string
	wasmFile string
	regs     bool
	host     bool
}

func (o options) empty() bool {
	return !o.regs && !o.host && o.mapNames == "" && o.check == "" && o.op == "" && o.wasmFile == ""
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: xarch [-from arch] [-to arch] -regs")
	fmt.Fprintln(os.Stderr, "       xarch -map rax,rcx")
	fmt.Fprintln(os.Stderr, "       xarch -check 0x1001:4:aligned4")
	fmt.Fprintln(os.Stderr, "       xarch -op \"load r0, [r1+8]\"")
	fmt.Fprintln(os.Stderr, "       xarch -wasm <file.wasm>")
	fmt.Fprintln(os.Stderr, "       xarch -host")
	fmt.Fprintln(os.Stderr, "       xarch -i  (interactive mode)")
}

func run(source, target arch.Architecture, o options) error {
	u, err := crossarch.NewUnit(source, target)
	if err != nil {
		return err
	}
	fmt.Printf("Translating %s -> %s\n", source, target)

	if o.host {
		printHost()
	}
	if o.regs {
		printRegisters(u.Target)
	}
	if o.mapNames != "" {
		if err := mapRegisters(u, strings.Split(o.mapNames, ",")); err != nil {
			return err
		}
	}
	if o.check != "" {
		p, err := parseAccess(o.check)
		if err != nil {
			return err
		}
		printCheck(u, p)
	}
	if o.op != "" {
		irop, err := pattern.ParseOp(o.op)
		if err != nil {
			return err
		}
		l, err := u.Lower(irop)
		if err != nil {
			return fmt.Errorf("lower %q: %w", o.op, err)
		}
		printLowered(l)
	}
	if o.wasmFile != "" {
		if err := lowerWasm(u, o.wasmFile); err != nil {
			return err
		}
	}
	return nil
}

func printHost() {
	info := arch.DetectHost()
	fmt.Printf("\nHost: %s\n", info.Arch)
	fmt.Printf("Cache line: %d bytes\n", info.CacheLineSize)
	fmt.Printf("Vector width: %d bytes\n", info.VectorWidth)
	if len(info.Features) > 0 {
		fmt.Printf("Features: %s\n", strings.Join(info.Features, ", "))
	}
}

func printRegisters(set *register.Set) {
	fmt.Printf("\nRegisters (%d):\n", set.Len())
	for _, class := range register.Classes() {
		infos := set.RegistersByClass(class)
		if len(infos) == 0 {
			continue
		}
		names := make([]string, len(infos))
		for i, info := range infos {
			names[i] = info.Name
			if info.Reserved {
				names[i] += "*"
			}
		}
		fmt.Printf("  %-16s %s\n", class.String()+":", strings.Join(names, " "))
	}
	fmt.Println("  (* reserved)")
}

func mapRegisters(u *crossarch.Unit, names []string) error {
	fmt.Printf("\nMappings:\n")
	for _, name := range names {
		name = strings.TrimSpace(name)
		src, ok := u.Source.RegisterByName(name)
		if !ok {
			return fmt.Errorf("no register %q on %s", name, u.Source.Architecture())
		}
		dst, err := u.Mapper.MapRegister(src.ID)
		if err != nil {
			return fmt.Errorf("map %s: %w", name, err)
		}
		info, _ := u.Target.Register(dst)
		fmt.Printf("  %s -> %s\n", name, info.Name)
	}
	stats := u.Mapper.Stats()
	fmt.Printf("  %d mapped, strategy %s\n", stats.TotalMappings, stats.Strategy)
	return nil
}

// parseAccess parses addr:width[:align][:atomic]. Width is in bytes;
// widths above 16 are vector accesses.
func parseAccess(s string) (memory.AccessPattern, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return memory.AccessPattern{}, fmt.Errorf("check %q: want addr:width[:align][:atomic]", s)
	}
	addr, err := strconv.ParseInt(parts[0], 0, 64)
	if err != nil {
		return memory.AccessPattern{}, fmt.Errorf("check address: %w", err)
	}
	size, err := strconv.ParseUint(parts[1], 0, 8)
	if err != nil {
		return memory.AccessPattern{}, fmt.Errorf("check width: %w", err)
	}
	width, ok := memory.WidthForSize(int(size))
	if !ok {
		width = memory.Vector(uint8(size))
	}

	p := memory.NewAccessPattern(0, addr, width)
	for _, opt := range parts[2:] {
		switch opt = strings.ToLower(opt); opt {
		case "atomic":
			p = p.WithAccessType(memory.AtomicReadWrite)
			p.Flags.Atomic = true
		case "natural":
			p = p.WithAlignment(memory.Natural)
		case "unaligned":
			p = p.WithAlignment(memory.Unaligned)
		case "strict":
			p = p.WithAlignment(memory.Strict)
		default:
			a, err := parseAligned(opt)
			if err != nil {
				return memory.AccessPattern{}, err
			}
			p = p.WithAlignment(a)
		}
	}
	return p, nil
}

func parseAligned(s string) (memory.Alignment, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "aligned"))
	if err != nil || !strings.HasPrefix(s, "aligned") {
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
	a := memory.Aligned1
	for size := 1; size < n; size <<= 1 {
		a++
	}
	if a > memory.Aligned64 || 1<<(a-memory.Aligned1) != n {
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
	return a, nil
}

func printCheck(u *crossarch.Unit, p memory.AccessPattern) {
	fmt.Printf("\nAccess: %s\n", p)
	if err := memory.CheckAccess(p, false); err != nil {
		fmt.Printf("  check: %v\n", err)
	} else {
		fmt.Printf("  check: ok\n")
	}

	issues := u.Optimizer.DetectAlignmentIssues(p)
	fixes := u.Optimizer.SuggestFixes(issues)
	for i, issue := range issues {
		fmt.Printf("  %s: %s\n", issue.Severity, issue.Description)
		fmt.Printf("    fix (%s cost): %s\n", fixes[i].Cost, fixes[i].Description)
	}

	opt := u.Optimizer.OptimizeAccessPattern(p)
	for _, applied := range opt.Applied {
		fmt.Printf("  %s gain %.3f\n", applied.Kind, applied.Gain)
	}
	if len(opt.Applied) > 0 {
		fmt.Printf("  optimized: %s (total gain %.3f)\n", opt.Optimized, opt.Gain)
	}
}

func printLowered(l crossarch.Lowered) {
	fmt.Printf("\nPattern: %s (%s, cost %d, latency %d)\n",
		l.Pattern.ID, l.Pattern.Category, l.Pattern.Cost, l.Pattern.Latency)
	fmt.Printf("Lowered: %s\n", l.Op)
	for _, a := range l.Accesses {
		fmt.Printf("  access: %s\n", a)
	}
}

func lowerWasm(u *crossarch.Unit, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	sigs, err := abi.LoadSignatures(context.Background(), data)
	if err != nil {
		return err
	}

	fmt.Printf("\nExported functions:\n")
	for _, sig := range sigs {
		slots, err := abi.LowerParams(u.Allocator, sig.Params)
		if err != nil {
			return fmt.Errorf("lower %s: %w", sig.Name, err)
		}
		fmt.Printf("  %s\n", sig)
		for _, slot := range slots {
			if slot.OnStack {
				fmt.Printf("    #%d %s -> stack+%d\n", slot.Index, slot.Type, slot.StackOffset)
				continue
			}
			info, _ := u.Target.Register(slot.Reg)
			fmt.Printf("    #%d %s -> %s\n", slot.Index, slot.Type, info.Name)
		}
		u.Allocator.FreeAll()
	}
	return nil
}
