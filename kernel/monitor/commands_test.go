package monitor

import (
	"kmon/device/video/console"
	"testing"
)

func TestHelp(t *testing.T) {
	env, _, buf := testEnv()

	exp := "help - Display this list of commands\n" +
		"kerninfo - Display information about the kernel\n" +
		"backtrace - Display stack backtrace\n" +
		"matrix - Turn on/off matrix style\n" +
		"mem_showmappings - Show virtual memory mappings\n" +
		"mem_dump - dump memory\n"

	if ret := New(env).RunCommand("help"); ret != 0 {
		t.Fatalf("expected help to return 0; got %d", ret)
	}

	if got := buf.String(); got != exp {
		t.Fatalf("expected output:\n%s\ngot:\n%s", exp, got)
	}
}

func TestKernInfo(t *testing.T) {
	env, _, buf := testEnv()
	env.Layout = KernelLayout{
		Entry: 0xf010000c,
		Etext: 0xf0101a75,
		Edata: 0xf0112300,
		End:   0xf0112960,
	}

	exp := "Special kernel symbols:\n" +
		"  entry  f010000c (virt)  0010000c (phys)\n" +
		"  etext  f0101a75 (virt)  00101a75 (phys)\n" +
		"  edata  f0112300 (virt)  00112300 (phys)\n" +
		"  end    f0112960 (virt)  00112960 (phys)\n" +
		"Kernel executable memory footprint: 75KB\n"

	New(env).RunCommand("kerninfo")

	if got := buf.String(); got != exp {
		t.Fatalf("expected output:\n%s\ngot:\n%s", exp, got)
	}
}

func TestMatrix(t *testing.T) {
	defer console.SetColorScheme(console.SchemeDefault)

	const (
		okOutput    = "You should already see the difference. :-)\n"
		usageOutput = "Command format: matrix on|off\n"
	)

	specs := []struct {
		line      string
		expScheme console.ColorScheme
		expOutput string
	}{
		{"matrix on", console.SchemeMatrix, okOutput},
		// invalid invocations leave the scheme untouched
		{"matrix", console.SchemeMatrix, usageOutput},
		{"matrix ON", console.SchemeMatrix, usageOutput},
		{"matrix off now", console.SchemeMatrix, usageOutput},
		{"matrix off", console.SchemeDefault, okOutput},
		{"matrix off", console.SchemeDefault, okOutput},
		{"matrix on", console.SchemeMatrix, okOutput},
	}

	for specIndex, spec := range specs {
		env, _, buf := testEnv()

		if ret := New(env).RunCommand(spec.line); ret != 0 {
			t.Errorf("[spec %d] expected matrix to return 0; got %d", specIndex, ret)
		}

		if got := console.ActiveColorScheme(); got != spec.expScheme {
			t.Errorf("[spec %d] expected scheme 0x%04x; got 0x%04x", specIndex, spec.expScheme, got)
		}

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected output %q; got %q", specIndex, spec.expOutput, got)
		}
	}
}
