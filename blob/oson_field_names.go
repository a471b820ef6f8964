package blob

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/internal/collision"
	"github.com/arloliu/oson/internal/pool"
	"github.com/arloliu/oson/section"
)

// fieldNameSegment is one field name dictionary of an OSON image.
//
// Names are kept in (hash, length, name) order, which is also the order of
// their ids, their hash and offset entries and their bytes in the segment.
type fieldNameSegment struct {
	names []*collision.FieldName
	long  bool
	size  uint32
}

// buildFieldNameSegments splits names into the short and long segments,
// sorts each one, assigns field ids (short names first) and lays out the
// segment bytes.
func buildFieldNameSegments(names []*collision.FieldName) (fieldNameSegment, fieldNameSegment, error) {
	short := fieldNameSegment{}
	long := fieldNameSegment{long: true}

	for _, fn := range names {
		if fn.Long() {
			long.names = append(long.names, fn)
		} else {
			short.names = append(short.names, fn)
		}
	}

	var nextID uint32 = 1
	for _, seg := range []*fieldNameSegment{&short, &long} {
		slices.SortFunc(seg.names, compareFieldNames)

		var size uint64
		for _, fn := range seg.names {
			fn.ID = nextID
			nextID++

			fn.Offset = uint32(size) //nolint: gosec
			size += uint64(seg.lengthSize() + len(fn.Name))
			if size > math.MaxUint32 {
				return fieldNameSegment{}, fieldNameSegment{}, fmt.Errorf("%w: field name segment exceeds %d bytes",
					errs.ErrFieldNameTooLong, uint32(math.MaxUint32))
			}
		}
		seg.size = uint32(size)
	}

	return short, long, nil
}

func compareFieldNames(a, b *collision.FieldName) int {
	if c := cmp.Compare(a.Hash, b.Hash); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.Name), len(b.Name)); c != 0 {
		return c
	}

	return cmp.Compare(a.Name, b.Name)
}

// lengthSize is the width of the length prefix in front of every name.
func (s *fieldNameSegment) lengthSize() int {
	if s.long {
		return 2
	}

	return 1
}

// offsetSize is the width of the name offset entries, derived from the segment size.
func (s *fieldNameSegment) offsetSize() int {
	if s.size > math.MaxUint16 {
		return 4
	}

	return 2
}

func (s *fieldNameSegment) count() uint32 {
	return uint32(len(s.names)) //nolint: gosec
}

// write appends the hash array, the offset array and the name bytes.
func (s *fieldNameSegment) write(w *buffer.Writer) {
	for _, fn := range s.names {
		if s.long {
			w.WriteUint16BE(uint16(fn.Hash))
		} else {
			w.WriteUint8(fn.Hash)
		}
	}

	offsetSize := s.offsetSize()
	for _, fn := range s.names {
		section.WriteSized(w, offsetSize, fn.Offset)
	}

	for _, fn := range s.names {
		if s.long {
			w.WriteUint16BE(uint16(len(fn.Name))) //nolint: gosec
		} else {
			w.WriteUint8(uint8(len(fn.Name))) //nolint: gosec
		}
		w.WriteString(fn.Name)
	}
}

// readFieldNames reads one field name segment from r and appends its names,
// in field id order, to names.
//
// Parameters:
//   - names: Destination slice
//   - count: Number of names in the segment
//   - offsetSize: Width of each name offset entry (2 or 4)
//   - segSize: Size of the name bytes region
//   - lengthSize: Width of the hash entries and name length prefixes (1 or 2)
func readFieldNames(r *buffer.Reader, names []string, count uint32, offsetSize int, segSize uint32, lengthSize int) ([]string, error) {
	if err := r.Skip(int(count) * lengthSize); err != nil {
		return nil, err
	}

	table, err := r.ReadBytes(int(count) * offsetSize)
	if err != nil {
		return nil, err
	}
	region, err := r.ReadBytes(int(segSize))
	if err != nil {
		return nil, err
	}

	offsets, release := pool.IntSlices.Get(int(count))
	defer release()
	for i := range int(count) {
		*offsets = append(*offsets, int(sizedAt(table, i, offsetSize)))
	}

	engine := endian.GetBigEndianEngine()
	for _, off := range *offsets {
		if off+lengthSize > len(region) {
			return nil, fmt.Errorf("%w: field name at %d outside segment of %d bytes", errs.ErrInvalidOffset, off, len(region))
		}

		var n int
		if lengthSize == 1 {
			n = int(region[off])
		} else {
			n = int(engine.Uint16(region[off:]))
		}

		start := off + lengthSize
		if start+n > len(region) {
			return nil, fmt.Errorf("%w: field name of %d bytes at %d overruns segment of %d bytes",
				errs.ErrInvalidOffset, n, off, len(region))
		}
		names = append(names, string(region[start:start+n]))
	}

	return names, nil
}

// sizedAt returns the i-th big-endian entry of width 1, 2 or 4 in table.
func sizedAt(table []byte, i, width int) uint32 {
	engine := endian.GetBigEndianEngine()
	switch width {
	case 1:
		return uint32(table[i])
	case 2:
		return uint32(engine.Uint16(table[2*i:]))
	default:
		return engine.Uint32(table[4*i:])
	}
}
