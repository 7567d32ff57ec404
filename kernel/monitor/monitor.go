// Package monitor implements an interactive command interpreter for
// inspecting a running kernel: its page tables, physical and virtual memory
// and the call stack.
package monitor

import (
	"errors"
	"io"
	"kmon/kernel"
	"kmon/kernel/kdebug"
	"kmon/kernel/kfmt"
	"kmon/kernel/mem/pmm"
	"kmon/kernel/mem/vmm"
)

const prompt = "K> "

var (
	// ErrFormat is returned when a command argument is malformed.
	ErrFormat = &kernel.Error{Module: "monitor", Message: "malformed command argument"}

	// ErrTooManyArgs is returned when a command line contains more
	// arguments than the tokenizer accepts.
	ErrTooManyArgs = &kernel.Error{Module: "monitor", Message: "too many arguments"}

	// ErrUnknownCommand is returned when no registered command matches
	// the first token of a command line.
	ErrUnknownCommand = &kernel.Error{Module: "monitor", Message: "unknown command"}
)

// KernelLayout holds the link-time addresses of the kernel image sections.
type KernelLayout struct {
	Entry uint32
	Etext uint32
	Edata uint32
	End   uint32
}

// Env describes the kernel state that the monitor inspects.
type Env struct {
	// Out receives the monitor output. If nil, the active kfmt output
	// sink is used.
	Out io.Writer

	// PhysMem provides access to physical memory.
	PhysMem pmm.Memory

	// KernPDT is the physical address of the kernel page directory.
	KernPDT uint32

	// Symbols resolves instruction addresses for backtraces. If nil, all
	// addresses are reported as unknown.
	Symbols kdebug.Resolver

	// Layout describes the kernel image.
	Layout KernelLayout

	// ReadEBP returns the frame pointer of the code that entered the
	// monitor. If nil, backtraces are empty.
	ReadEBP func() uint32
}

// CommandFunc implements a monitor command. args[0] is the command name.
// Returning a negative value stops Monitor.Run.
type CommandFunc func(m *Monitor, args []string) int

// Command describes a monitor command.
type Command struct {
	Name string
	Desc string
	Func CommandFunc
}

// LineReader is implemented by objects that read command lines.
type LineReader interface {
	// ReadLine displays prompt and returns the next line of input. io.EOF
	// signals that no more input is available.
	ReadLine(prompt string) (string, error)
}

// Monitor dispatches command lines to registered commands.
type Monitor struct {
	env      Env
	as       *vmm.AddressSpace
	commands []Command
}

// New returns a monitor for env with the built-in commands registered.
func New(env Env) *Monitor {
	m := &Monitor{
		env: env,
		as:  vmm.NewAddressSpace(env.KernPDT, env.PhysMem),
	}

	m.commands = append(m.commands, builtinCommands()...)
	return m
}

// Register appends cmd to the command list. Commands are matched in
// registration order so cmd cannot shadow an existing command.
func (m *Monitor) Register(cmd Command) {
	m.commands = append(m.commands, cmd)
}

// Commands returns the registered commands in registration order.
func (m *Monitor) Commands() []Command {
	return m.commands
}

// Printf writes formatted output to the monitor output.
func (m *Monitor) Printf(format string, args ...interface{}) {
	kfmt.Fprintf(m.out(), format, args...)
}

func (m *Monitor) out() io.Writer {
	if m.env.Out != nil {
		return m.env.Out
	}
	return kfmt.OutputSink()
}

// lookup returns the first command whose name equals name.
func (m *Monitor) lookup(name string) (*Command, *kernel.Error) {
	for i := range m.commands {
		if m.commands[i].Name == name {
			return &m.commands[i], nil
		}
	}
	return nil, ErrUnknownCommand
}

// RunCommand tokenizes line and runs the command it names. It returns the
// value of the command or 0 if the line is empty or cannot be dispatched.
func (m *Monitor) RunCommand(line string) int {
	args, err := Parse(line)
	if err != nil {
		m.Printf("Too many arguments (max %d)\n", MaxArgs)
		return 0
	}

	if len(args) == 0 {
		return 0
	}

	cmd, err := m.lookup(args[0])
	if err != nil {
		m.Printf("Unknown command '%s'\n", args[0])
		return 0
	}

	return cmd.Func(m, args)
}

// Run prints the welcome banner and executes the lines returned by r until
// a command returns a negative value or r runs out of input. Errors other
// than io.EOF reported by r are returned to the caller.
func (m *Monitor) Run(r LineReader) error {
	m.Printf("Welcome to the JOS kernel monitor!\n")
	m.Printf("Type 'help' for a list of commands.\n")

	for {
		line, err := r.ReadLine(prompt)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if m.RunCommand(line) < 0 {
			return nil
		}
	}
}
