package engine

import (
	"encoding/binary"
	"math/big"
)

// Binary encoding: a kind tag followed by the payload of the kind.
const (
	tagInteger byte = iota + 1
	tagRational
	tagReal
	tagComplex
	tagXInteger
)

// forms of a Real payload.
const (
	formFloat byte = iota
	formNaN
)

// FromBinary decodes a value encoded by MarshalBinary of any kind.
func FromBinary(data []byte) (Number, error) {
	if len(data) == 0 {
		return nil, ValueError("decode", "empty data", nil)
	}
	switch data[0] {
	case tagInteger:
		var z Integer
		if err := z.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return &z, nil
	case tagXInteger:
		var z XInteger
		if err := z.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return &z, nil
	case tagRational:
		var z Rational
		if err := z.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return &z, nil
	case tagReal:
		var z Real
		if err := z.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return &z, nil
	case tagComplex:
		var z Complex
		if err := z.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return &z, nil
	default:
		return nil, ValueError("decode", "unknown tag", data[0])
	}
}

func untag(data []byte, tag byte) ([]byte, error) {
	if len(data) == 0 || data[0] != tag {
		return nil, ValueError("decode", "unexpected tag", data)
	}
	return data[1:], nil
}

func appendInt(b []byte, i *big.Int) []byte {
	var sign byte
	if i.Sign() < 0 {
		sign = 1
	}
	b = append(b, sign)
	return append(b, i.Bytes()...)
}

func decodeInt(z *big.Int, data []byte) error {
	if len(data) == 0 {
		return ValueError("decode", "truncated integer", nil)
	}
	sign, mag := data[0], data[1:]
	switch sign {
	case 0:
		z.SetBytes(mag)
	case 1:
		z.SetBytes(mag)
		if z.Sign() == 0 {
			return ValueError("decode", "negative zero integer", nil)
		}
		z.Neg(z)
	default:
		return ValueError("decode", "invalid sign", sign)
	}
	return nil
}

func appendChunk(b, chunk []byte) []byte {
	b = binary.AppendUvarint(b, uint64(len(chunk)))
	return append(b, chunk...)
}

// chunk splits a length-prefixed chunk off data.
func chunk(data []byte) ([]byte, []byte, error) {
	n, k := binary.Uvarint(data)
	if k <= 0 || n > uint64(len(data)-k) {
		return nil, nil, ValueError("decode", "truncated data", nil)
	}
	return data[k : k+int(n)], data[k+int(n):], nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (x *Integer) MarshalBinary() ([]byte, error) {
	return appendInt([]byte{tagInteger}, &x.i), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (x *Integer) UnmarshalBinary(data []byte) error {
	data, err := untag(data, tagInteger)
	if err != nil {
		return err
	}
	return decodeInt(&x.i, data)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (x *XInteger) MarshalBinary() ([]byte, error) {
	return appendInt([]byte{tagXInteger}, &x.i), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (x *XInteger) UnmarshalBinary(data []byte) error {
	data, err := untag(data, tagXInteger)
	if err != nil {
		return err
	}
	x.changed()
	return decodeInt(&x.i, data)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (x *Rational) MarshalBinary() ([]byte, error) {
	b := []byte{tagRational}
	b = appendChunk(b, appendInt(nil, x.r.Num()))
	return appendChunk(b, appendInt(nil, x.r.Denom())), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (x *Rational) UnmarshalBinary(data []byte) error {
	data, err := untag(data, tagRational)
	if err != nil {
		return err
	}
	n, data, err := chunk(data)
	if err != nil {
		return err
	}
	d, data, err := chunk(data)
	if err != nil {
		return err
	}
	if len(data) != 0 {
		return ValueError("decode", "trailing data", nil)
	}

	var num, den big.Int
	if err := decodeInt(&num, n); err != nil {
		return err
	}
	if err := decodeInt(&den, d); err != nil {
		return err
	}
	if den.Sign() == 0 {
		return ZeroDivisionError("decode")
	}
	x.r.SetFrac(&num, &den)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
// The encoding keeps the precision and the rounding mode of x.
func (x *Real) MarshalBinary() ([]byte, error) {
	return append([]byte{tagReal}, x.payload()...), nil
}

func (x *Real) payload() []byte {
	if x.nan {
		b := binary.AppendUvarint([]byte{formNaN}, uint64(x.f.Prec()))
		return append(b, byte(x.f.Mode()))
	}
	g, _ := x.f.GobEncode()
	return append([]byte{formFloat}, g...)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (x *Real) UnmarshalBinary(data []byte) error {
	data, err := untag(data, tagReal)
	if err != nil {
		return err
	}
	return x.decode(data)
}

func (x *Real) decode(data []byte) error {
	if len(data) == 0 {
		return ValueError("decode", "truncated real", nil)
	}
	*x = Real{}
	switch form, data := data[0], data[1:]; form {
	case formFloat:
		if err := x.f.GobDecode(data); err != nil {
			return ValueError("decode", err.Error(), nil)
		}
		if p := x.f.Prec(); p < 1 || p > MaxPrecision {
			*x = Real{}
			return ValueError("decode", "precision out of range", p)
		}
		return nil
	case formNaN:
		p, k := binary.Uvarint(data)
		if k <= 0 || len(data) != k+1 || p < 1 || p > MaxPrecision {
			return ValueError("decode", "invalid NaN", nil)
		}
		x.f.SetPrec(uint(p)).SetMode(big.RoundingMode(data[k]))
		x.nan = true
		return nil
	default:
		return ValueError("decode", "invalid form", form)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (x *Complex) MarshalBinary() ([]byte, error) {
	b := []byte{tagComplex}
	b = appendChunk(b, x.re.payload())
	return appendChunk(b, x.im.payload()), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (x *Complex) UnmarshalBinary(data []byte) error {
	data, err := untag(data, tagComplex)
	if err != nil {
		return err
	}
	re, data, err := chunk(data)
	if err != nil {
		return err
	}
	im, data, err := chunk(data)
	if err != nil {
		return err
	}
	if len(data) != 0 {
		return ValueError("decode", "trailing data", nil)
	}
	if err := x.re.decode(re); err != nil {
		return err
	}
	return x.im.decode(im)
}
