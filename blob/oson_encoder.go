package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
	"github.com/arloliu/oson/internal/collision"
	"github.com/arloliu/oson/internal/options"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

// OSONEncoder encodes value trees into OSON images.
//
// Encoding runs in two passes. The first pass collects every distinct object
// key into the field name tracker; the keys are then sorted and numbered. The
// second pass writes the tree segment, referring to keys by field id.
//
// Note: The OSONEncoder is NOT thread-safe. Use one encoder per goroutine.
type OSONEncoder struct {
	*OSONConfig
	tracker     *collision.Tracker
	fieldIDSize int
}

// NewOSONEncoder creates a new OSON encoder.
//
// Parameters:
//   - opts: Optional configuration (WithMaxFieldNameSize, WithLocation)
//
// Returns:
//   - *OSONEncoder: The encoder
//   - error: ErrInvalidValue if an option is out of range
func NewOSONEncoder(opts ...OSONEncoderOption) (*OSONEncoder, error) {
	config := NewOSONConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &OSONEncoder{
		OSONConfig: config,
		tracker:    collision.NewTracker(config.maxFieldNameSize),
	}, nil
}

// Encode returns the OSON image of v.
//
// Objects and arrays produce a full image with field name segments; any
// other value produces a scalar image holding a single node.
//
// Returns:
//   - []byte: The image, owned by the caller
//   - error: ErrFieldNameTooLong, ErrNumberNotRepresentable, ErrInvalidID,
//     ErrInvalidVector or ErrInvalidValue for values that cannot be encoded
func (e *OSONEncoder) Encode(v value.Value) ([]byte, error) {
	e.tracker.Reset()

	header := section.OSONHeader{
		Version: section.OSONVersionMaxFieldName255,
		Flags:   section.NewOSONFlag(),
	}

	var short, long fieldNameSegment
	if v.IsContainer() {
		if err := e.collectFieldNames(v); err != nil {
			return nil, err
		}

		var err error
		short, long, err = buildFieldNameSegments(e.tracker.Names())
		if err != nil {
			return nil, err
		}

		header.Flags.Set(section.FlagHashIDUint8 | section.FlagTinyNodesStat)
		header.Flags.SetFieldIDSize(e.tracker.Count())
		e.fieldIDSize = header.Flags.FieldIDSize()

		header.NumShortFieldNames = short.count()
		header.ShortFieldNamesSegSize = short.size
		if short.offsetSize() == 4 {
			header.Flags.Set(section.FlagFieldNamesSegUint32)
		}

		if len(long.names) > 0 {
			header.Version = section.OSONVersionMaxFieldName65535
			header.NumLongFieldNames = long.count()
			header.LongFieldNamesSegSize = long.size
			if long.offsetSize() == 2 {
				header.SecondaryFlags = section.SecFlagFieldNamesSegUint16
			}
		}
	} else {
		header.Flags.Set(section.FlagIsScalar)
	}

	tree := buffer.NewWriter()
	defer tree.Release()

	if err := e.encodeNode(tree, v); err != nil {
		return nil, err
	}

	if uint64(tree.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: tree segment of %d bytes", errs.ErrInvalidValue, tree.Len())
	}
	header.TreeSegSize = uint32(tree.Len()) //nolint: gosec
	if header.TreeSegSize > math.MaxUint16 {
		header.Flags.Set(section.FlagTreeSegUint32)
	}

	out := buffer.NewWriter()
	defer out.Release()

	header.Write(out)
	if !header.Flags.IsScalar() {
		short.write(out)
		long.write(out)
	}
	out.WriteBytes(tree.Bytes())

	return out.Clone(), nil
}

// FieldNameCount returns the number of distinct field names in the last encoded tree.
func (e *OSONEncoder) FieldNameCount() int {
	return e.tracker.Count()
}

// HasNameCollision reports whether two distinct field names in the last
// encoded tree shared an xxHash64 id. Such names are still kept apart.
func (e *OSONEncoder) HasNameCollision() bool {
	return e.tracker.HasCollision()
}

// collectFieldNames registers every object key below v with the tracker.
func (e *OSONEncoder) collectFieldNames(v value.Value) error {
	switch v.Kind() { //nolint: exhaustive
	case value.KindObject:
		for _, f := range v.Fields() {
			if _, err := e.tracker.Track(f.Name); err != nil {
				return err
			}
			if err := e.collectFieldNames(f.Value); err != nil {
				return err
			}
		}
	case value.KindArray:
		for _, elem := range v.Elements() {
			if err := e.collectFieldNames(elem); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *OSONEncoder) encodeNode(w *buffer.Writer, v value.Value) error {
	switch v.Kind() {
	case value.KindNull:
		w.WriteUint8(section.NodeNull)
	case value.KindBool:
		if v.AsBool() {
			w.WriteUint8(section.NodeTrue)
		} else {
			w.WriteUint8(section.NodeFalse)
		}
	case value.KindNumber:
		w.WriteUint8(section.NodeNumberLenUint8)
		return w.WriteOracleNumber(v.AsNumber())
	case value.KindFloat32:
		w.WriteUint8(section.NodeBinaryFloat)
		w.WriteBinaryFloat(v.AsFloat32())
	case value.KindFloat64:
		w.WriteUint8(section.NodeBinaryDouble)
		w.WriteBinaryDouble(v.AsFloat64())
	case value.KindString:
		return encodeString(w, v.AsString())
	case value.KindBytes:
		return encodeBytes(w, v.AsBytes())
	case value.KindDateTime:
		return e.encodeDateTime(w, v)
	case value.KindID:
		id := v.AsBytes()
		if len(id) > section.MaxIDSize {
			return fmt.Errorf("%w: %d bytes, max %d", errs.ErrInvalidID, len(id), section.MaxIDSize)
		}
		w.WriteUint8(section.NodeID)
		w.WriteUint8(uint8(len(id))) //nolint: gosec
		w.WriteBytes(id)
	case value.KindVector:
		return encodeVectorNode(w, v.AsVector())
	case value.KindArray:
		return e.encodeArray(w, v.Elements())
	case value.KindObject:
		return e.encodeObject(w, v.Fields())
	default:
		return fmt.Errorf("%w: value kind %s", errs.ErrInvalidValue, v.Kind())
	}

	return nil
}

func encodeString(w *buffer.Writer, s string) error {
	n := len(s)
	switch {
	case n <= math.MaxUint8:
		w.WriteUint8(section.NodeStringLenUint8)
		w.WriteUint8(uint8(n))
	case n <= math.MaxUint16:
		w.WriteUint8(section.NodeStringLenUint16)
		w.WriteUint16BE(uint16(n))
	case uint64(n) <= math.MaxUint32:
		w.WriteUint8(section.NodeStringLenUint32)
		w.WriteUint32BE(uint32(n))
	default:
		return fmt.Errorf("%w: string of %d bytes", errs.ErrInvalidValue, n)
	}
	w.WriteString(s)

	return nil
}

func encodeBytes(w *buffer.Writer, b []byte) error {
	n := len(b)
	switch {
	case n <= math.MaxUint16:
		w.WriteUint8(section.NodeBinaryLenUint16)
		w.WriteUint16BE(uint16(n))
	case uint64(n) <= math.MaxUint32:
		w.WriteUint8(section.NodeBinaryLenUint32)
		w.WriteUint32BE(uint32(n))
	default:
		return fmt.Errorf("%w: binary of %d bytes", errs.ErrInvalidValue, n)
	}
	w.WriteBytes(b)

	return nil
}

// encodeDateTime writes zoned values as TIMESTAMP_TZ and plain values as
// TIMESTAMP, or TIMESTAMP7 when there is no fractional second.
func (e *OSONEncoder) encodeDateTime(w *buffer.Writer, v value.Value) error {
	t := v.AsTime()

	switch {
	case v.IsZoned():
		w.WriteUint8(section.NodeTimestampTZ)
		return w.WriteOracleDate(t, format.DateTypeTimestampTZ, e.location, false)
	case t.Nanosecond() == 0:
		w.WriteUint8(section.NodeTimestamp7)
	default:
		w.WriteUint8(section.NodeTimestamp)
	}

	return w.WriteOracleDate(t, format.DateTypeTimestamp, e.location, false)
}

// encodeVectorNode embeds a VECTOR image behind the extended node type and a
// 32-bit image length, patched once the image is written.
func encodeVectorNode(w *buffer.Writer, vec value.Vector) error {
	w.WriteUint8(section.NodeExtended)
	w.WriteUint8(section.ExtendedNodeVector)

	slot := w.ReserveSlot(4)
	start := w.Len()
	if err := writeVector(w, vec); err != nil {
		return err
	}

	return w.PatchSlot(slot, uint32(w.Len()-start)) //nolint: gosec
}

// encodeContainerHeader writes the container node type and child count. The
// child count width is the smallest of 1, 2 or 4 bytes that fits; child
// offsets are always 4 bytes wide.
func encodeContainerHeader(w *buffer.Writer, nodeType uint8, numChildren int) error {
	nodeType |= section.ContainerOffsetUint32

	switch {
	case numChildren <= math.MaxUint8:
		w.WriteUint8(nodeType | section.ContainerChildrenUint8)
		w.WriteUint8(uint8(numChildren))
	case numChildren <= math.MaxUint16:
		w.WriteUint8(nodeType | section.ContainerChildrenUint16)
		w.WriteUint16BE(uint16(numChildren))
	case uint64(numChildren) <= math.MaxUint32:
		w.WriteUint8(nodeType | section.ContainerChildrenUint32)
		w.WriteUint32BE(uint32(numChildren))
	default:
		return fmt.Errorf("%w: container of %d children", errs.ErrInvalidValue, numChildren)
	}

	return nil
}

func (e *OSONEncoder) encodeArray(w *buffer.Writer, elems []value.Value) error {
	if err := encodeContainerHeader(w, section.NodeArray, len(elems)); err != nil {
		return err
	}

	offsets := w.Reserve(4 * len(elems))
	for i, elem := range elems {
		if err := e.encodeChild(w, offsets+4*i, elem); err != nil {
			return err
		}
	}

	return nil
}

func (e *OSONEncoder) encodeObject(w *buffer.Writer, fields []value.Field) error {
	if err := encodeContainerHeader(w, section.NodeObject, len(fields)); err != nil {
		return err
	}

	for _, f := range fields {
		fn, err := e.tracker.Track(f.Name)
		if err != nil {
			return err
		}
		section.WriteSized(w, e.fieldIDSize, fn.ID)
	}

	offsets := w.Reserve(4 * len(fields))
	for i, f := range fields {
		if err := e.encodeChild(w, offsets+4*i, f.Value); err != nil {
			return err
		}
	}

	return nil
}

// encodeChild records the child's absolute tree position in its offset slot
// and then writes the child.
func (e *OSONEncoder) encodeChild(w *buffer.Writer, slotPos int, v value.Value) error {
	if err := w.PatchSlot(buffer.Slot{Pos: slotPos, Width: 4}, uint32(w.Len())); err != nil { //nolint: gosec
		return err
	}

	return e.encodeNode(w, v)
}
