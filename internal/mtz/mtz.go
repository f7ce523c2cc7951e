package mtz

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column type codes from the MTZ column catalogue. Only the codes consulted
// by this package are named; Column.Type carries whatever the file declares.
const (
	TypeIntensity        byte = 'J' // merged intensity
	TypeAmplitude        byte = 'F' // structure factor amplitude
	TypeSigma            byte = 'Q' // standard deviation
	TypeAmplitudeFriedel byte = 'G' // amplitude of a Friedel pair F(+)/F(-)
	TypeSigmaFriedel     byte = 'L' // standard deviation of a Friedel pair
	TypeInteger          byte = 'I' // integer, used for free-R flags
)

// Column is one entry of a reflection file's column catalogue.
type Column struct {
	Label   string
	Type    byte
	Min     float64
	Max     float64
	Dataset int
}

// Cell holds unit cell dimensions in angstroms and degrees.
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// File is the parsed header of a CCP4 MTZ reflection file.
type File struct {
	Version          string
	Title            string
	NumColumns       int
	NumReflections   int
	NumBatches       int
	Cell             Cell
	SpaceGroupName   string
	SpaceGroupNumber int
	ResolutionLow    float64 // angstroms, low-resolution limit (large d)
	ResolutionHigh   float64 // angstroms, high-resolution limit (small d)

	columns []Column
}

// Columns returns a copy of the column catalogue in file order.
func (f *File) Columns() []Column {
	out := make([]Column, len(f.columns))
	copy(out, f.columns)
	return out
}

const (
	magic           = "MTZ "
	headerRecordLen = 80
)

// Open parses the header of the MTZ file at path. The reflection records are
// skipped; only the ASCII header block is read. Files that do not carry the
// MTZ magic word or whose header is truncated or malformed yield an error.
func Open(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reflection file %s: %w", path, err)
	}
	defer r.Close()

	// Words 1-3 of the file: magic, header offset, machine stamp.
	preamble := make([]byte, 12)
	if _, err := io.ReadFull(r, preamble); err != nil {
		return nil, fmt.Errorf("%s: truncated MTZ preamble: %w", path, err)
	}
	if string(preamble[:4]) != magic {
		return nil, fmt.Errorf("%s: not an MTZ file (bad magic %q)", path, string(preamble[:4]))
	}

	// The machine stamp's first nibble records the real-number format of the
	// writing machine: 1 is big-endian IEEE, 4 little-endian IEEE. Anything
	// else is treated as little-endian, which covers files written without a
	// stamp.
	var order binary.ByteOrder = binary.LittleEndian
	if preamble[8]>>4 == 1 {
		order = binary.BigEndian
	}

	// The header offset is a 1-based word index.
	headerWord := int64(int32(order.Uint32(preamble[4:8])))
	if headerWord < 1 {
		return nil, fmt.Errorf("%s: invalid MTZ header offset %d", path, headerWord)
	}
	if _, err := r.Seek((headerWord-1)*4, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%s: failed to seek to MTZ header: %w", path, err)
	}

	header, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read MTZ header: %w", path, err)
	}

	f := &File{}
	if err := f.parseHeader(header); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// parseHeader walks the 80-byte ASCII records up to the END record.
func (f *File) parseHeader(header []byte) error {
	sawEnd := false
	for off := 0; off+headerRecordLen <= len(header); off += headerRecordLen {
		record := strings.TrimRight(string(header[off:off+headerRecordLen]), " \x00")
		fields := strings.Fields(record)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "VERS":
			if len(fields) > 1 {
				f.Version = fields[1]
			}
		case "TITLE":
			f.Title = strings.TrimSpace(record[len("TITLE"):])
		case "NCOL":
			if len(fields) < 4 {
				return fmt.Errorf("malformed NCOL record %q", record)
			}
			f.NumColumns = atoiOrZero(fields[1])
			f.NumReflections = atoiOrZero(fields[2])
			f.NumBatches = atoiOrZero(fields[3])
		case "CELL":
			if len(fields) < 7 {
				return fmt.Errorf("malformed CELL record %q", record)
			}
			f.Cell = Cell{
				A:     atofOrZero(fields[1]),
				B:     atofOrZero(fields[2]),
				C:     atofOrZero(fields[3]),
				Alpha: atofOrZero(fields[4]),
				Beta:  atofOrZero(fields[5]),
				Gamma: atofOrZero(fields[6]),
			}
		case "SYMINF":
			if len(fields) < 5 {
				return fmt.Errorf("malformed SYMINF record %q", record)
			}
			f.SpaceGroupNumber = atoiOrZero(fields[4])
			if start := strings.Index(record, "'"); start >= 0 {
				if end := strings.LastIndex(record, "'"); end > start {
					f.SpaceGroupName = record[start+1 : end]
				}
			}
		case "RESO":
			// RESO carries 1/d^2 limits; convert to angstroms.
			if len(fields) < 3 {
				return fmt.Errorf("malformed RESO record %q", record)
			}
			f.ResolutionLow = invSquaredToAngstrom(atofOrZero(fields[1]))
			f.ResolutionHigh = invSquaredToAngstrom(atofOrZero(fields[2]))
		case "COLUMN", "COL":
			if len(fields) < 3 || len(fields[2]) != 1 {
				return fmt.Errorf("malformed COLUMN record %q", record)
			}
			col := Column{Label: fields[1], Type: fields[2][0]}
			if len(fields) > 3 {
				col.Min = atofOrZero(fields[3])
			}
			if len(fields) > 4 {
				col.Max = atofOrZero(fields[4])
			}
			if len(fields) > 5 {
				col.Dataset = atoiOrZero(fields[5])
			}
			f.columns = append(f.columns, col)
		case "END":
			sawEnd = true
		}
		if sawEnd {
			break
		}
	}

	if !sawEnd {
		return fmt.Errorf("truncated MTZ header: no END record")
	}
	return nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func atofOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func invSquaredToAngstrom(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return 1 / math.Sqrt(v)
}
