package main

import (
	"errors"
	"flag"
	"fmt"
	"kmon/kernel/kfmt"
	"kmon/kernel/monitor"
	"os"
	"strconv"
	"strings"
)

// hexValue is a flag.Value holding a 32-bit hex number with an optional 0x
// prefix.
type hexValue struct {
	val uint32
	set bool
}

func (v *hexValue) String() string {
	return fmt.Sprintf("0x%x", v.val)
}

func (v *hexValue) Set(s string) error {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	val, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return fmt.Errorf("%q is not a 32-bit hex value", s)
	}

	v.val, v.set = uint32(val), true
	return nil
}

var (
	memFlag    = flag.String("mem", "", "physical memory image to inspect")
	kernelFlag = flag.String("kernel", "", "kernel ELF image providing symbols and line tables")
	ttyFlag    = flag.String("tty", "", "serial device to read commands from instead of the terminal")
	scriptFlag = flag.String("script", "", "lua script to run instead of an interactive session")
)

var (
	pgdirFlag hexValue
	ebpFlag   hexValue
)

func init() {
	flag.Var(&pgdirFlag, "pgdir", "physical address of the kernel page directory (default: the value of kern_pgdir)")
	flag.Var(&ebpFlag, "ebp", "frame pointer to start backtraces from")
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[kmonsim] error: %s\n", err.Error())
	os.Exit(1)
}

func warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[kmonsim] warning: "+format+"\n", args...)
}

// exitCommand leaves an interactive session.
var exitCommand = monitor.Command{
	Name: "exit",
	Desc: "Leave the monitor",
	Func: func(*monitor.Monitor, []string) int { return -1 },
}

func run() error {
	if *memFlag == "" {
		return errors.New("missing -mem argument")
	}

	physMem, unmap, err := mapImage(*memFlag)
	if err != nil {
		return err
	}
	defer unmap()

	env := monitor.Env{
		PhysMem: physMem,
		KernPDT: pgdirFlag.val,
		ReadEBP: func() uint32 { return ebpFlag.val },
	}

	switch {
	case *kernelFlag != "":
		img, err := loadKernel(*kernelFlag)
		if err != nil {
			return err
		}
		env.Symbols = img

		if env.Layout, err = kernelLayout(img); err != nil {
			warn("%s", err)
		}

		if !pgdirFlag.set {
			if env.KernPDT, err = findPageDirectory(img, physMem); err != nil {
				return err
			}
		}
	case !pgdirFlag.set:
		return errors.New("either -pgdir or -kernel must be specified")
	}

	if *scriptFlag != "" {
		env.Out = &schemeWriter{w: os.Stdout}
		kfmt.SetOutputSink(env.Out)
		return runScript(monitor.New(env), *scriptFlag)
	}

	sess, err := openSession(*ttyFlag)
	if err != nil {
		return err
	}
	defer sess.Close()

	env.Out = &schemeWriter{w: sess}
	kfmt.SetOutputSink(env.Out)

	m := monitor.New(env)
	m.Register(exitCommand)
	return m.Run(sess)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		exit(err)
	}
}
