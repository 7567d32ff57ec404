package kernel

import "testing"

func TestKernelError(t *testing.T) {
	err := &Error{
		Module:  "foo",
		Message: "error message",
	}

	if err.Error() != err.Message {
		t.Fatalf("expected to err.Error() to return %q; got %q", err.Message, err.Error())
	}

	if exp, got := "[foo] error message", err.String(); got != exp {
		t.Fatalf("expected err.String() to return %q; got %q", exp, got)
	}

	err.Module = ""
	if exp, got := "error message", err.String(); got != exp {
		t.Fatalf("expected err.String() without a module to return %q; got %q", exp, got)
	}
}
