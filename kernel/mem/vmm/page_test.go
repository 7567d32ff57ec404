package vmm

import "testing"

func TestPageMethods(t *testing.T) {
	for pageIndex := uint32(0); pageIndex < 128; pageIndex++ {
		page := Page(pageIndex)

		if exp, got := pageIndex<<12, page.Address(); got != exp {
			t.Errorf("expected page (%d, index: %d) call to Address() to return %x; got %x", page, pageIndex, exp, got)
		}
	}
}

func TestPageFromAddress(t *testing.T) {
	specs := []struct {
		input   uint32
		expPage Page
		expOff  uint32
		expLOff uint32
	}{
		{0, Page(0), 0, 0},
		{4095, Page(0), 4095, 4095},
		{4096, Page(1), 0, 4096},
		{4123, Page(1), 27, 4123},
		{0xf0400123, Page(0xf0400), 0x123, 0x123},
		{0xffffffff, Page(0xfffff), 0xfff, 0x3fffff},
	}

	for specIndex, spec := range specs {
		if got := PageFromAddress(spec.input); got != spec.expPage {
			t.Errorf("[spec %d] expected returned page to be %v; got %v", specIndex, spec.expPage, got)
		}
		if got := PageOffset(spec.input); got != spec.expOff {
			t.Errorf("[spec %d] expected page offset to be 0x%x; got 0x%x", specIndex, spec.expOff, got)
		}
		if got := LargePageOffset(spec.input); got != spec.expLOff {
			t.Errorf("[spec %d] expected large page offset to be 0x%x; got 0x%x", specIndex, spec.expLOff, got)
		}
	}
}
