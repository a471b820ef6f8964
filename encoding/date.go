package encoding

import (
	"fmt"
	"time"

	"github.com/arloliu/oson/endian"
	"github.com/arloliu/oson/errs"
	"github.com/arloliu/oson/format"
)

const (
	tzHourOffset   = 20
	tzMinuteOffset = 60
	tzRegionFlag   = 0x80

	minDateYear = -4712
	maxDateYear = 9999
)

// DateSize returns the number of bytes AppendDate writes for t as typ.
// Timestamps without a fractional second shrink to the 7-byte form; zoned
// timestamps always keep their full 13 bytes.
func DateSize(t time.Time, typ format.DateType) int {
	size := typ.Size()
	if size == 11 && t.Nanosecond() == 0 {
		return 7
	}

	return size
}

// AppendDate appends the date image of t to dst using the shrink rule of DateSize.
//
// Parameters:
//   - dst: Destination slice
//   - t: Instant to encode
//   - typ: Date type selecting the width and calendar zone
//   - loc: Calendar zone for DateTypeDate and DateTypeTimestamp (nil means time.Local)
//
// Returns:
//   - []byte: dst with the 7, 11 or 13 byte image appended
//   - error: ErrInvalidValue for an unknown type or a year outside -4712..9999
func AppendDate(dst []byte, t time.Time, typ format.DateType, loc *time.Location) ([]byte, error) {
	return appendDate(dst, t, typ, loc, DateSize(t, typ))
}

// AppendDateFixed is AppendDate without the shrink rule: the image is always
// typ.Size() bytes long.
func AppendDateFixed(dst []byte, t time.Time, typ format.DateType, loc *time.Location) ([]byte, error) {
	return appendDate(dst, t, typ, loc, typ.Size())
}

// EncodeDate returns the date image of t as written by AppendDate.
func EncodeDate(t time.Time, typ format.DateType, loc *time.Location) ([]byte, error) {
	return AppendDate(make([]byte, 0, 13), t, typ, loc)
}

func appendDate(dst []byte, t time.Time, typ format.DateType, loc *time.Location, size int) ([]byte, error) {
	if size == 0 {
		return dst, fmt.Errorf("%w: unknown date type %d", errs.ErrInvalidValue, typ)
	}

	cal := t.UTC()
	if !typ.UsesUTC() {
		if loc == nil {
			loc = time.Local
		}
		cal = t.In(loc)
	}

	year := cal.Year()
	if year < minDateYear || year > maxDateYear {
		return dst, fmt.Errorf("%w: year %d out of range", errs.ErrInvalidValue, year)
	}

	dst = append(dst,
		byte(year/100+100),
		byte(year%100+100),
		byte(cal.Month()),
		byte(cal.Day()),
		byte(cal.Hour()+1),
		byte(cal.Minute()+1),
		byte(cal.Second()+1),
	)
	if size > 7 {
		dst = endian.Network().AppendUint32(dst, uint32(t.Nanosecond()))
	}
	if size > 11 {
		_, offset := t.Zone()
		dst = append(dst, byte(offset/3600+tzHourOffset), byte(offset%3600/60+tzMinuteOffset))
	}

	return dst, nil
}

// DecodeDate decodes a 7, 11 or 13 byte date image.
//
// 7 and 11 byte images are read as calendar fields in loc (nil means
// time.Local). 13 byte images are read as UTC calendar fields and returned in
// a fixed zone of the stored offset; images carrying a region id instead of an
// offset are returned in UTC.
//
// Returns:
//   - time.Time: Decoded instant
//   - error: ErrBufferLengthInsufficient for other lengths, ErrInvalidValue for out-of-range fields
func DecodeDate(buf []byte, loc *time.Location) (time.Time, error) {
	switch len(buf) {
	case 7, 11, 13:
	default:
		return time.Time{}, fmt.Errorf("%w: date image of %d bytes", errs.ErrBufferLengthInsufficient, len(buf))
	}

	year := (int(buf[0])-100)*100 + int(buf[1]) - 100
	month, day := int(buf[2]), int(buf[3])
	hour, minute, sec := int(buf[4])-1, int(buf[5])-1, int(buf[6])-1
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 || sec < 0 || sec > 59 {
		return time.Time{}, fmt.Errorf("%w: date fields % x", errs.ErrInvalidValue, buf[:7])
	}

	var nsec int
	if len(buf) >= 11 {
		n := endian.Network().Uint32(buf[7:11])
		if n >= uint32(time.Second) {
			return time.Time{}, fmt.Errorf("%w: fractional second %d", errs.ErrInvalidValue, n)
		}
		nsec = int(n)
	}

	if len(buf) == 13 {
		t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, time.UTC)
		if buf[11]&tzRegionFlag != 0 {
			return t, nil
		}

		offset := (int(buf[11])-tzHourOffset)*3600 + (int(buf[12])-tzMinuteOffset)*60
		if offset == 0 {
			return t, nil
		}

		return t.In(time.FixedZone("", offset)), nil
	}

	if loc == nil {
		loc = time.Local
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc), nil
}
