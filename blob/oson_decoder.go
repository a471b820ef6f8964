package blob

import (
	"fmt"

	"github.com/arloliu/oson/buffer"
	"github.com/arloliu/oson/encoding"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/internal/options"
	"github.com/arloliu/oson/internal/pool"
	"github.com/arloliu/oson/section"
	"github.com/arloliu/oson/value"
)

// OSONDecoder decodes an OSON image into a value tree.
//
// The decoder reads images written by any OSON encoder, including features
// this package never writes: relative child offsets, inline-length number and
// string nodes, 16-bit container offsets and containers sharing the field id
// table of another container.
//
// Note: The OSONDecoder is NOT thread-safe.
type OSONDecoder struct {
	*OSONConfig
	data       []byte
	header     section.OSONHeader
	fieldNames []string
	tree       *buffer.Reader
}

// NewOSONDecoder creates a decoder over data.
//
// Parameters:
//   - data: The OSON image; it is not modified
//   - opts: Optional configuration (WithLocation, WithMaxDepth)
//
// Returns:
//   - *OSONDecoder: The decoder
//   - error: ErrInvalidValue if an option is out of range
func NewOSONDecoder(data []byte, opts ...OSONDecoderOption) (*OSONDecoder, error) {
	config := NewOSONConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	return &OSONDecoder{
		OSONConfig: config,
		data:       data,
	}, nil
}

// Header returns the header parsed by the last Decode call.
func (d *OSONDecoder) Header() section.OSONHeader {
	return d.header
}

// FieldNames returns the field names of the last decoded image in field id order.
func (d *OSONDecoder) FieldNames() []string {
	return d.fieldNames
}

// Decode decodes the image.
//
// Returns:
//   - value.Value: The root value
//   - error: ErrInvalidMagic or ErrUnsupportedVersion for a foreign header,
//     ErrUnsupportedNodeType, ErrInvalidOffset, ErrMaxDepthExceeded, or
//     ErrUnexpectedEndOfData for a truncated image
func (d *OSONDecoder) Decode() (value.Value, error) {
	r := buffer.NewReader(d.data)

	header, err := section.ParseOSONHeader(r)
	if err != nil {
		return value.Value{}, err
	}
	d.header = header
	d.fieldNames = nil

	if !header.Flags.IsScalar() {
		if err := d.readFieldNames(r); err != nil {
			return value.Value{}, err
		}
	}

	d.tree = buffer.NewReader(d.data[r.Pos():])

	return d.decodeNode(0)
}

func (d *OSONDecoder) readFieldNames(r *buffer.Reader) error {
	h := &d.header

	names := make([]string, 0, min(h.NumFieldNames(), r.NumBytesLeft()))
	names, err := readFieldNames(r, names, h.NumShortFieldNames, h.Flags.ShortOffsetSize(), h.ShortFieldNamesSegSize, 1)
	if err != nil {
		return err
	}

	if h.HasLongFieldNames() {
		names, err = readFieldNames(r, names, h.NumLongFieldNames, h.LongOffsetSize(), h.LongFieldNamesSegSize, 2)
		if err != nil {
			return err
		}
	}
	d.fieldNames = names

	return nil
}

// seek moves the tree cursor to an offset inside the tree segment.
func (d *OSONDecoder) seek(pos int) error {
	if err := d.tree.SetPos(pos); err != nil {
		return fmt.Errorf("%w: %d outside tree segment of %d bytes", errs.ErrInvalidOffset, pos, d.tree.Size())
	}

	return nil
}

func (d *OSONDecoder) decodeNode(depth int) (value.Value, error) {
	nodeType, err := d.tree.ReadUint8()
	if err != nil {
		return value.Value{}, err
	}

	if nodeType&section.ContainerMask != 0 {
		return d.decodeContainer(nodeType, depth)
	}

	switch nodeType {
	case section.NodeNull:
		return value.Null(), nil
	case section.NodeTrue:
		return value.Bool(true), nil
	case section.NodeFalse:
		return value.Bool(false), nil
	case section.NodeDate, section.NodeTimestamp7:
		return d.decodeDateTime(7, false)
	case section.NodeTimestamp:
		return d.decodeDateTime(11, false)
	case section.NodeTimestampTZ:
		return d.decodeDateTime(13, true)
	case section.NodeBinaryFloat:
		b, err := d.tree.ReadBytes(4)
		if err != nil {
			return value.Value{}, err
		}
		f, err := encoding.DecodeBinaryFloat(b)

		return value.Float32(f), err
	case section.NodeBinaryDouble:
		b, err := d.tree.ReadBytes(8)
		if err != nil {
			return value.Value{}, err
		}
		f, err := encoding.DecodeBinaryDouble(b)

		return value.Float64(f), err
	case section.NodeStringLenUint8:
		return d.decodeString(1)
	case section.NodeStringLenUint16:
		return d.decodeString(2)
	case section.NodeStringLenUint32:
		return d.decodeString(4)
	case section.NodeNumberLenUint8:
		n, err := d.tree.ReadUint8()
		if err != nil {
			return value.Value{}, err
		}

		return d.decodeNumber(int(n))
	case section.NodeBinaryLenUint16:
		return d.decodeBytes(2)
	case section.NodeBinaryLenUint32:
		return d.decodeBytes(4)
	case section.NodeID:
		return d.decodeID()
	case section.NodeExtended:
		return d.decodeExtended()
	}

	switch typeBits := nodeType & section.InlineNumberMask; {
	case typeBits == section.InlineNumber || typeBits == section.InlineNumberAlt:
		return d.decodeNumber(int(nodeType&section.InlineLengthMask) + 1)
	case typeBits == section.InlineInteger || typeBits == section.InlineIntegerAlt:
		return d.decodeNumber(int(nodeType & section.InlineLengthMask))
	case nodeType&section.InlineStringPrefix == 0:
		b, err := d.tree.ReadBytes(int(nodeType))
		if err != nil {
			return value.Value{}, err
		}

		return value.String(string(b)), nil
	}

	return value.Value{}, fmt.Errorf("%w: 0x%02x at tree offset %d", errs.ErrUnsupportedNodeType, nodeType, d.tree.Pos()-1)
}

func (d *OSONDecoder) decodeNumber(n int) (value.Value, error) {
	b, err := d.tree.ReadBytes(n)
	if err != nil {
		return value.Value{}, err
	}

	text, err := encoding.DecodeNumber(b)
	if err != nil {
		return value.Value{}, err
	}

	return value.Number(text), nil
}

func (d *OSONDecoder) decodeString(lengthSize int) (value.Value, error) {
	n, err := section.ReadSized(d.tree, lengthSize)
	if err != nil {
		return value.Value{}, err
	}
	b, err := d.tree.ReadBytes(int(n))
	if err != nil {
		return value.Value{}, err
	}

	return value.String(string(b)), nil
}

func (d *OSONDecoder) decodeBytes(lengthSize int) (value.Value, error) {
	n, err := section.ReadSized(d.tree, lengthSize)
	if err != nil {
		return value.Value{}, err
	}
	b, err := d.tree.ReadBytesCopy(int(n))
	if err != nil {
		return value.Value{}, err
	}

	return value.Bytes(b), nil
}

func (d *OSONDecoder) decodeDateTime(size int, zoned bool) (value.Value, error) {
	b, err := d.tree.ReadBytes(size)
	if err != nil {
		return value.Value{}, err
	}

	t, err := encoding.DecodeDate(b, d.location)
	if err != nil {
		return value.Value{}, err
	}
	if zoned {
		return value.ZonedDateTime(t), nil
	}

	return value.DateTime(t), nil
}

func (d *OSONDecoder) decodeID() (value.Value, error) {
	n, err := d.tree.ReadUint8()
	if err != nil {
		return value.Value{}, err
	}
	if int(n) > section.MaxIDSize {
		return value.Value{}, fmt.Errorf("%w: %d bytes at tree offset %d, max %d",
			errs.ErrInvalidID, n, d.tree.Pos()-1, section.MaxIDSize)
	}

	b, err := d.tree.ReadBytesCopy(int(n))
	if err != nil {
		return value.Value{}, err
	}

	return value.ID(b), nil
}

func (d *OSONDecoder) decodeExtended() (value.Value, error) {
	subType, err := d.tree.ReadUint8()
	if err != nil {
		return value.Value{}, err
	}
	if subType != section.ExtendedNodeVector {
		return value.Value{}, fmt.Errorf("%w: extended type 0x%02x at tree offset %d",
			errs.ErrUnsupportedNodeType, subType, d.tree.Pos()-1)
	}

	n, err := d.tree.ReadUint32BE()
	if err != nil {
		return value.Value{}, err
	}
	image, err := d.tree.ReadBytes(int(n))
	if err != nil {
		return value.Value{}, err
	}

	vec, err := readVector(buffer.NewReader(image))
	if err != nil {
		return value.Value{}, err
	}

	return value.FromVector(vec), nil
}

// decodeContainer decodes an object or array whose type byte has just been read.
//
// When the child count bits hold ContainerSharedFields, the count and the
// field ids come from the container at the offset that follows the type byte,
// while the child offsets are read from this container.
func (d *OSONDecoder) decodeContainer(nodeType uint8, depth int) (value.Value, error) {
	if depth >= d.maxDepth {
		return value.Value{}, fmt.Errorf("%w: more than %d nested containers", errs.ErrMaxDepthExceeded, d.maxDepth)
	}

	containerOffset := d.tree.Pos() - 1
	isObject := nodeType&section.ContainerArrayMask == 0
	offsetSize := 2
	if nodeType&section.ContainerOffsetUint32 != 0 {
		offsetSize = 4
	}

	var numChildren uint32
	var fieldIDsPos, offsetsPos int

	if nodeType&section.ContainerChildrenMask == section.ContainerSharedFields {
		sharedOffset, err := section.ReadSized(d.tree, offsetSize)
		if err != nil {
			return value.Value{}, err
		}
		offsetsPos = d.tree.Pos()

		if err := d.seek(int(sharedOffset)); err != nil {
			return value.Value{}, err
		}
		sharedType, err := d.tree.ReadUint8()
		if err != nil {
			return value.Value{}, err
		}
		if sharedType&section.ContainerMask == 0 || sharedType&section.ContainerChildrenMask == section.ContainerSharedFields {
			return value.Value{}, fmt.Errorf("%w: container at %d shares field ids of node type 0x%02x at %d",
				errs.ErrInvalidOffset, containerOffset, sharedType, sharedOffset)
		}

		if numChildren, err = readNumChildren(d.tree, sharedType); err != nil {
			return value.Value{}, err
		}
		fieldIDsPos = d.tree.Pos()
	} else {
		var err error
		if numChildren, err = readNumChildren(d.tree, nodeType); err != nil {
			return value.Value{}, err
		}
		fieldIDsPos = d.tree.Pos()
		offsetsPos = fieldIDsPos
		if isObject {
			offsetsPos += int(numChildren) * d.header.Flags.FieldIDSize()
		}
	}

	offsets, release := pool.IntSlices.Get(0)
	defer release()
	if err := d.readChildOffsets(offsets, offsetsPos, int(numChildren), offsetSize, containerOffset); err != nil {
		return value.Value{}, err
	}

	if !isObject {
		elems := make([]value.Value, 0, len(*offsets))
		for _, off := range *offsets {
			elem, err := d.decodeChild(off, depth)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, elem)
		}

		return value.Array(elems...), nil
	}

	idSize := d.header.Flags.FieldIDSize()
	if err := d.seek(fieldIDsPos); err != nil {
		return value.Value{}, err
	}
	ids, err := d.tree.ReadBytes(len(*offsets) * idSize)
	if err != nil {
		return value.Value{}, err
	}

	fields := make([]value.Field, 0, len(*offsets))
	for i, off := range *offsets {
		id := sizedAt(ids, i, idSize)
		if id == 0 || int(id) > len(d.fieldNames) {
			return value.Value{}, fmt.Errorf("%w: field id %d of container at %d, %d field names",
				errs.ErrInvalidValue, id, containerOffset, len(d.fieldNames))
		}

		child, err := d.decodeChild(off, depth)
		if err != nil {
			return value.Value{}, err
		}
		fields = append(fields, value.F(d.fieldNames[id-1], child))
	}

	return value.Object(fields...), nil
}

// readChildOffsets reads the child offset table at pos into offsets, turning
// relative offsets into tree segment offsets.
func (d *OSONDecoder) readChildOffsets(offsets *[]int, pos, numChildren, offsetSize, containerOffset int) error {
	if err := d.seek(pos); err != nil {
		return err
	}
	table, err := d.tree.ReadBytes(numChildren * offsetSize)
	if err != nil {
		return err
	}

	relative := d.header.Flags.HasRelativeOffsets()
	for i := range numChildren {
		off := int(sizedAt(table, i, offsetSize))
		if relative {
			off += containerOffset
		}
		*offsets = append(*offsets, off)
	}

	return nil
}

func (d *OSONDecoder) decodeChild(off, depth int) (value.Value, error) {
	if err := d.seek(off); err != nil {
		return value.Value{}, err
	}

	return d.decodeNode(depth + 1)
}

func readNumChildren(r *buffer.Reader, nodeType uint8) (uint32, error) {
	switch nodeType & section.ContainerChildrenMask {
	case section.ContainerChildrenUint8:
		return section.ReadSized(r, 1)
	case section.ContainerChildrenUint16:
		return section.ReadSized(r, 2)
	default:
		return section.ReadSized(r, 4)
	}
}
