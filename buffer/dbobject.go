package buffer

// DBObjectImage is the serialized envelope of a database object value: its
// type id, optional object id and snapshot, and the packed attribute data.
type DBObjectImage struct {
	TOID       []byte
	OID        []byte
	Snapshot   []byte
	Flags      uint32
	PackedData []byte
}

// ReadDBObject reads a database object envelope. All returned slices are copies.
func (r *Reader) ReadDBObject() (DBObjectImage, error) {
	var obj DBObjectImage
	var err error

	if obj.TOID, err = r.readCountedBytes(); err != nil {
		return DBObjectImage{}, err
	}
	if obj.OID, err = r.readCountedBytes(); err != nil {
		return DBObjectImage{}, err
	}
	if obj.Snapshot, err = r.readCountedBytes(); err != nil {
		return DBObjectImage{}, err
	}
	if err = r.SkipUB2(); err != nil { // version
		return DBObjectImage{}, err
	}

	numBytes, err := r.ReadUB4()
	if err != nil {
		return DBObjectImage{}, err
	}
	if obj.Flags, err = r.ReadUB4(); err != nil {
		return DBObjectImage{}, err
	}
	if numBytes > 0 {
		packed, err := r.ReadBytesWithLength()
		if err != nil {
			return DBObjectImage{}, err
		}
		obj.PackedData = append([]byte(nil), packed...)
	}

	return obj, nil
}

// readCountedBytes reads a UB4 byte count and, when non-zero, a copied length-prefixed value.
func (r *Reader) readCountedBytes() ([]byte, error) {
	numBytes, err := r.ReadUB4()
	if err != nil || numBytes == 0 {
		return nil, err
	}

	b, err := r.ReadBytesWithLength()
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), b...), nil
}

// WriteDBObject writes a database object envelope. The snapshot is never
// written and the version is always zero.
func (w *Writer) WriteDBObject(obj DBObjectImage) {
	w.writeCountedBytes(obj.TOID)
	w.writeCountedBytes(obj.OID)
	w.WriteUB4(0) // snapshot
	w.WriteUB4(0) // version
	w.WriteUB4(uint32(len(obj.PackedData)))
	w.WriteUB4(obj.Flags)
	if len(obj.PackedData) > 0 {
		w.WriteBytesWithLength(obj.PackedData)
	}
}

func (w *Writer) writeCountedBytes(b []byte) {
	w.WriteUB4(uint32(len(b)))
	if len(b) > 0 {
		w.WriteBytesWithLength(b)
	}
}
