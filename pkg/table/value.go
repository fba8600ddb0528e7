package table

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"
)

// Kind identifies the runtime type of a cell.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a single cell. Exactly one payload field is meaningful,
// selected by Kind; the zero Value is a missing cell.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// Missing returns a missing cell.
func Missing() Value { return Value{} }

// Str returns a text cell.
func Str(s string) Value { return Value{Kind: KindString, Str: s} }

// Num returns a numeric cell.
func Num(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Timestamp returns a time cell.
func Timestamp(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// Equal reports whether two cells hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindMissing:
		return true
	case KindString:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindTime:
		return v.Time.Equal(o.Time)
	default:
		return false
	}
}

// Compare orders cells for sorting: missing cells sort after any value,
// mixed kinds order by kind, same kinds compare their payloads.
func (v Value) Compare(o Value) int {
	if v.Kind == KindMissing || o.Kind == KindMissing {
		switch {
		case v.Kind == o.Kind:
			return 0
		case v.Kind == KindMissing:
			return 1
		default:
			return -1
		}
	}
	if v.Kind != o.Kind {
		if v.Kind < o.Kind {
			return -1
		}
		return 1
	}
	switch v.Kind {
	case KindString:
		switch {
		case v.Str < o.Str:
			return -1
		case v.Str > o.Str:
			return 1
		}
	case KindNumber:
		switch {
		case v.Num < o.Num:
			return -1
		case v.Num > o.Num:
			return 1
		}
	case KindTime:
		switch {
		case v.Time.Before(o.Time):
			return -1
		case v.Time.After(o.Time):
			return 1
		}
	}
	return 0
}

// Render formats the cell for CSV output. Missing cells render as the
// empty string, timestamps in UTC without a zone suffix.
func (v Value) Render() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindTime:
		return v.Time.UTC().Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// AppendBytes appends a canonical byte encoding of the cell to dst.
// The encoding is injective across kinds (kind tag plus fixed-width or
// length-prefixed payload) so it is safe for hashing and equality keys.
func (v Value) AppendBytes(dst []byte) []byte {
	dst = append(dst, byte(v.Kind))
	switch v.Kind {
	case KindString:
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(len(v.Str)))
		dst = append(dst, n[:]...)
		dst = append(dst, v.Str...)
	case KindNumber:
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], math.Float64bits(v.Num))
		dst = append(dst, n[:]...)
	case KindTime:
		var n [8]byte
		binary.LittleEndian.PutUint64(n[:], uint64(v.Time.UnixNano()))
		dst = append(dst, n[:]...)
	}
	return dst
}
