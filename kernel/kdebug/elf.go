package kdebug

import (
	"debug/dwarf"
	"debug/elf"
	"errors"
	"fmt"
	"io"
)

// Image holds the symbols and line tables extracted from a kernel ELF image.
type Image struct {
	*SymbolTable

	symbols map[string]uint32
}

// Symbol returns the value of a symbol of any type.
func (img *Image) Symbol(name string) (uint32, bool) {
	v, ok := img.symbols[name]
	return v, ok
}

// LoadELF reads the symbol table and DWARF line tables of a 32-bit x86 ELF
// image. Images without DWARF data still resolve function names but report
// an unknown file and line.
func LoadELF(r io.ReaderAt) (*Image, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("kdebug: parsing ELF image: %w", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_386 {
		return nil, fmt.Errorf("kdebug: expected a 32-bit x86 image; got %s/%s", f.Class, f.Machine)
	}

	syms, err := f.Symbols()
	if err != nil {
		return nil, fmt.Errorf("kdebug: reading symbols: %w", err)
	}

	var (
		funcs   []Func
		symbols = make(map[string]uint32, len(syms))
	)
	for _, sym := range syms {
		if sym.Name == "" {
			continue
		}

		symbols[sym.Name] = uint32(sym.Value)
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC {
			continue
		}

		fn := Func{Name: sym.Name, Start: uint32(sym.Value)}
		if sym.Size != 0 {
			fn.End = uint32(sym.Value + sym.Size)
		}
		funcs = append(funcs, fn)
	}

	lines, err := loadLines(f)
	if err != nil {
		return nil, err
	}

	return &Image{
		SymbolTable: NewSymbolTable(funcs, lines),
		symbols:     symbols,
	}, nil
}

// loadLines collects the rows of the line tables of all compilation units.
func loadLines(f *elf.File) ([]LineEntry, error) {
	dw, err := f.DWARF()
	if err != nil {
		// Stripped images carry no DWARF sections
		if f.Section(".debug_info") == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("kdebug: reading DWARF data: %w", err)
	}

	var (
		lines []LineEntry
		row   dwarf.LineEntry
		rd    = dw.Reader()
	)
	for {
		cu, err := rd.Next()
		if err != nil {
			return nil, fmt.Errorf("kdebug: reading compilation units: %w", err)
		}
		if cu == nil {
			return lines, nil
		}
		if cu.Tag != dwarf.TagCompileUnit {
			rd.SkipChildren()
			continue
		}

		lr, err := dw.LineReader(cu)
		if err != nil {
			return nil, fmt.Errorf("kdebug: reading line table: %w", err)
		}
		rd.SkipChildren()
		if lr == nil {
			continue
		}

		for {
			if err = lr.Next(&row); errors.Is(err, io.EOF) {
				break
			} else if err != nil {
				return nil, fmt.Errorf("kdebug: reading line table: %w", err)
			}

			if row.EndSequence || row.File == nil {
				continue
			}
			lines = append(lines, LineEntry{
				Addr: uint32(row.Address),
				File: row.File.Name,
				Line: row.Line,
			})
		}
	}
}
