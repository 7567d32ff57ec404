package monitor

import (
	"bytes"
	"errors"
	"io"
	"kmon/kernel/kfmt"
	"kmon/kernel/mem"
	"kmon/kernel/mem/vmm/vmmtest"
	"strings"
	"testing"
)

// testEnv returns an environment with the following kernel mappings:
//   - 0xf0000000 -> 0x8000 (kernel, read-only)
//   - 0xf0001000 -> 0x9000 (kernel, writable)
//   - 0xf0002000 unmapped, its page table is present
//   - 0xf0003000 -> 0x20000 (beyond the end of physical memory)
//   - 0xf0400000 -> 0x400000 (4MB page, kernel, writable)
//   - 0x00801000 -> 0xa000 (user, writable)
//
// Physical bytes between 0x8000 and 0xafff hold the low byte of their
// address.
func testEnv() (Env, *vmmtest.Builder, *bytes.Buffer) {
	b := vmmtest.New(64*mem.Kb, 0x1000, 0x2000)
	b.MapPage(0xf0000000, 0x8000, 0)
	b.MapPage(0xf0001000, 0x9000, vmmtest.Writable)
	b.SetPTE(0xf0002000, 0)
	b.MapPage(0xf0003000, 0x20000, 0)
	b.MapLarge(0xf0400000, 0x00400000, vmmtest.Writable)
	b.MapPage(0x00801000, 0xa000, vmmtest.Writable|vmmtest.User)

	pattern := make([]byte, 0x3000)
	for i := range pattern {
		pattern[i] = byte(i)
	}
	b.Fill(0x8000, pattern)

	var buf bytes.Buffer
	return Env{
		Out:     &buf,
		PhysMem: b.Image(),
		KernPDT: b.PageDirectory(),
	}, b, &buf
}

type scriptedReader struct {
	lines   []string
	err     error
	prompts []string
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", r.err
	}

	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestRunCommand(t *testing.T) {
	specs := []struct {
		line      string
		expRet    int
		expOutput string
	}{
		{"", 0, ""},
		{" \t\r\n", 0, ""},
		{"foo bar", 0, "Unknown command 'foo'\n"},
		{"HELP", 0, "Unknown command 'HELP'\n"},
		{strings.Repeat("a ", MaxArgs), 0, "Too many arguments (max 16)\n"},
		{"matrix", 0, "Command format: matrix on|off\n"},
	}

	for specIndex, spec := range specs {
		env, _, buf := testEnv()
		m := New(env)

		if got := m.RunCommand(spec.line); got != spec.expRet {
			t.Errorf("[spec %d] expected RunCommand to return %d; got %d", specIndex, spec.expRet, got)
		}

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected output:\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestRegister(t *testing.T) {
	env, _, buf := testEnv()
	m := New(env)

	var gotArgs []string
	m.Register(Command{
		Name: "exit",
		Desc: "Leave the monitor",
		Func: func(_ *Monitor, args []string) int {
			gotArgs = args
			return -1
		},
	})
	m.Register(Command{
		Name: "help",
		Desc: "Shadowed",
		Func: func(*Monitor, []string) int { return 42 },
	})

	if got := len(m.Commands()); got != 8 {
		t.Fatalf("expected 8 registered commands; got %d", got)
	}

	if got := m.RunCommand("exit  now"); got != -1 {
		t.Fatalf("expected exit command to return -1; got %d", got)
	}
	if exp := []string{"exit", "now"}; len(gotArgs) != 2 || gotArgs[0] != exp[0] || gotArgs[1] != exp[1] {
		t.Fatalf("expected command to receive args %v; got %v", exp, gotArgs)
	}

	// The built-in help command is matched first
	if got := m.RunCommand("help"); got != 0 {
		t.Fatalf("expected built-in help to run; got return value %d", got)
	}
	if !strings.Contains(buf.String(), "exit - Leave the monitor\n") {
		t.Fatalf("expected help output to list registered command; got:\n%s", buf.String())
	}
}

func TestRun(t *testing.T) {
	const banner = "Welcome to the JOS kernel monitor!\nType 'help' for a list of commands.\n"

	t.Run("end of input", func(t *testing.T) {
		env, _, buf := testEnv()
		m := New(env)
		r := &scriptedReader{lines: []string{"foo", ""}, err: io.EOF}

		if err := m.Run(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if exp, got := banner+"Unknown command 'foo'\n", buf.String(); got != exp {
			t.Fatalf("expected output:\n%q\ngot:\n%q", exp, got)
		}

		if len(r.prompts) != 3 {
			t.Fatalf("expected ReadLine to be called 3 times; got %d", len(r.prompts))
		}
		for _, p := range r.prompts {
			if p != "K> " {
				t.Fatalf("expected prompt %q; got %q", "K> ", p)
			}
		}
	})

	t.Run("command stops the loop", func(t *testing.T) {
		env, _, _ := testEnv()
		m := New(env)
		m.Register(Command{Name: "exit", Func: func(*Monitor, []string) int { return -1 }})
		r := &scriptedReader{lines: []string{"exit", "help"}, err: io.EOF}

		if err := m.Run(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(r.lines) != 1 {
			t.Fatalf("expected the line after exit to remain unread; %d lines left", len(r.lines))
		}
	})

	t.Run("reader error", func(t *testing.T) {
		env, _, _ := testEnv()
		m := New(env)
		expErr := errors.New("device lost")

		if err := m.Run(&scriptedReader{err: expErr}); err != expErr {
			t.Fatalf("expected error %v; got %v", expErr, err)
		}
	})
}

func TestOutputDefaultsToSink(t *testing.T) {
	defer kfmt.SetOutputSink(nil)

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	env, _, _ := testEnv()
	env.Out = nil
	New(env).RunCommand("nope")

	if exp, got := "Unknown command 'nope'\n", buf.String(); got != exp {
		t.Fatalf("expected output %q; got %q", exp, got)
	}
}
