package serialization

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// WriteCompactSize serializes val using the variable length integer
// encoding of block transaction counts: values below 0xfd take one byte,
// larger values are prefixed by 0xfd, 0xfe or 0xff followed by a 2, 4 or 8
// byte little endian integer.
func WriteCompactSize(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		_, err := w.Write([]byte{uint8(val)})
		return errors.WithStack(err)

	case val <= math.MaxUint16:
		var buf [3]byte
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf[:])
		return errors.WithStack(err)

	case val <= math.MaxUint32:
		var buf [5]byte
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf[:])
		return errors.WithStack(err)

	default:
		var buf [9]byte
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], val)
		_, err := w.Write(buf[:])
		return errors.WithStack(err)
	}
}

// ReadCompactSize reads a value written by WriteCompactSize. Encodings that
// are not the shortest possible are rejected as malformed.
func ReadCompactSize(r io.Reader) (uint64, error) {
	var discriminant [1]byte
	if _, err := io.ReadFull(r, discriminant[:]); err != nil {
		return 0, errors.WithStack(err)
	}

	var value, minimum uint64
	switch discriminant[0] {
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.WithStack(err)
		}
		value, minimum = binary.LittleEndian.Uint64(buf[:]), 0x100000000

	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.WithStack(err)
		}
		value, minimum = uint64(binary.LittleEndian.Uint32(buf[:])), 0x10000

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.WithStack(err)
		}
		value, minimum = uint64(binary.LittleEndian.Uint16(buf[:])), 0xfd

	default:
		return uint64(discriminant[0]), nil
	}

	if value < minimum {
		return 0, errors.Wrapf(errMalformed, "non-canonical compact size: %d is encoded with "+
			"discriminant %x", value, discriminant[0])
	}
	return value, nil
}
