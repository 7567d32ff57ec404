package pmm

import (
	"bytes"
	"io"
	"kmon/kernel/mem"
	"testing"
)

func TestRead(t *testing.T) {
	img := make(Image, 64)
	for i := range img {
		img[i] = byte(i)
	}

	specs := []struct {
		addr   uint64
		len    int
		expErr bool
	}{
		{0, 16, false},
		{48, 16, false},
		{63, 1, false},
		{60, 0, false},
		{49, 16, true},
		{64, 1, true},
		{0xffffffff, 4, true},
	}

	for specIndex, spec := range specs {
		buf := make([]byte, spec.len)
		err := Read(img, spec.addr, buf)
		switch {
		case spec.expErr && err != ErrOutOfRange:
			t.Errorf("[spec %d] expected ErrOutOfRange; got %v", specIndex, err)
		case !spec.expErr && err != nil:
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		case !spec.expErr && !bytes.Equal(buf, img[spec.addr:spec.addr+uint64(spec.len)]):
			t.Errorf("[spec %d] read returned wrong contents: %v", specIndex, buf)
		}
	}
}

type shortMemory struct{}

func (shortMemory) Size() mem.Size { return mem.Kb }
func (shortMemory) ReadAt(p []byte, _ int64) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadShort(t *testing.T) {
	if err := Read(shortMemory{}, 0, make([]byte, 4)); err != errShortRead {
		t.Fatalf("expected errShortRead; got %v", err)
	}
}

func TestImageReadAt(t *testing.T) {
	img := Image("0123456789")

	buf := make([]byte, 4)
	if n, err := img.ReadAt(buf, 8); n != 2 || err != io.EOF {
		t.Fatalf("expected a short read of 2 bytes with io.EOF; got %d, %v", n, err)
	}

	if n, err := img.ReadAt(buf, -1); n != 0 || err != io.EOF {
		t.Fatalf("expected negative offsets to fail; got %d, %v", n, err)
	}

	if n, err := img.ReadAt(buf, 2); n != 4 || err != nil || string(buf) != "2345" {
		t.Fatalf("expected to read \"2345\"; got %q (%d, %v)", buf[:n], n, err)
	}
}
