package qlite

import (
	"math"
	"strconv"
	"strings"

	"zombiezen.com/go/sqlite"
)

// Kind identifies the stored representation of a Value. The codes mirror
// the engine's fundamental datatypes.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return "null"
	}
}

// Blob is a view into a Value's bytes, not an owned buffer. Copy Data out
// before discarding the Value if the bytes need to persist.
type Blob struct {
	Data []byte
}

// Size returns the byte length of the view.
func (b Blob) Size() int { return len(b.Data) }

// Value is an owned snapshot of one scalar database cell. The cell's
// contents are duplicated when the Value is built, so a Value stays usable
// after the row, statement, or connection that produced it is gone.
// A Value never changes after construction. The zero Value is NULL.
type Value struct {
	kind Kind
	num  int64
	real float64
	data []byte
	ptr  any
}

// NullValue returns a NULL Value.
func NullValue() Value { return Value{} }

// IntegerValue wraps a 32-bit integer.
func IntegerValue(n int32) Value { return Value{kind: KindInteger, num: int64(n)} }

// BigIntegerValue wraps a 64-bit integer.
func BigIntegerValue(n int64) Value { return Value{kind: KindInteger, num: n} }

// RealValue wraps a float.
func RealValue(f float64) Value { return Value{kind: KindReal, real: f} }

// TextValue wraps a string, duplicating its bytes.
func TextValue(s string) Value { return Value{kind: KindText, data: []byte(s)} }

// BlobValue wraps raw bytes, duplicating them.
func BlobValue(b []byte) Value {
	d := make([]byte, len(b))
	copy(d, b)
	return Value{kind: KindBlob, data: d}
}

// PointerValue wraps an application-defined pointer. Like the engine's
// pointer values, it reads as NULL through every other accessor.
func PointerValue(p any) Value { return Value{kind: KindNull, ptr: p} }

// columnValue snapshots the cell at col of the statement's current row.
func columnValue(stmt *sqlite.Stmt, col int) Value {
	switch stmt.ColumnType(col) {
	case sqlite.TypeInteger:
		return Value{kind: KindInteger, num: stmt.ColumnInt64(col)}
	case sqlite.TypeFloat:
		return Value{kind: KindReal, real: stmt.ColumnFloat(col)}
	case sqlite.TypeText:
		return Value{kind: KindText, data: []byte(stmt.ColumnText(col))}
	case sqlite.TypeBlob:
		buf := make([]byte, stmt.ColumnLen(col))
		stmt.ColumnBytes(col, buf)
		return Value{kind: KindBlob, data: buf}
	default:
		return Value{}
	}
}

// Type reports the stored representation.
func (v Value) Type() Kind { return v.kind }

// Integer returns the cell as a 32-bit integer, applying the engine's
// standard coercions: text parses its leading numeric prefix, reals
// truncate toward zero, NULL is 0.
func (v Value) Integer() int32 { return int32(v.BigInteger()) }

// BigInteger returns the cell as a 64-bit integer.
func (v Value) BigInteger() int64 {
	switch v.kind {
	case KindInteger:
		return v.num
	case KindReal:
		return realToInt64(v.real)
	case KindText, KindBlob:
		return textToInt64(string(v.data))
	default:
		return 0
	}
}

// Real returns the cell as a double.
func (v Value) Real() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.num)
	case KindReal:
		return v.real
	case KindText, KindBlob:
		return textToReal(string(v.data))
	default:
		return 0
	}
}

// Pointer returns the application-defined pointer carried by a Value built
// with PointerValue, or nil for every other Value.
func (v Value) Pointer() any { return v.ptr }

// Text returns the cell as a string. Numeric cells are rendered the way
// the engine renders them; NULL is the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindReal:
		return formatReal(v.real)
	case KindText, KindBlob:
		return string(v.data)
	default:
		return ""
	}
}

// Blob returns a view of the cell's bytes. Numeric cells are rendered to
// text first, matching the engine's blob coercion.
func (v Value) Blob() Blob {
	switch v.kind {
	case KindText, KindBlob:
		return Blob{Data: v.data}
	case KindInteger, KindReal:
		return Blob{Data: []byte(v.Text())}
	default:
		return Blob{}
	}
}

// Size returns the byte length of the cell's text or blob representation,
// without any terminator.
func (v Value) Size() int {
	switch v.kind {
	case KindText, KindBlob:
		return len(v.data)
	case KindInteger, KindReal:
		return len(v.Text())
	default:
		return 0
	}
}

func realToInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// textToInt64 follows the engine's text-to-integer rule: a string that is
// entirely an integer parses directly, anything else goes through the real
// prefix parser and truncates.
func textToInt64(s string) int64 {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return n
	}
	return realToInt64(textToReal(s))
}

// textToReal parses the longest prefix of s that forms a valid real
// number and returns 0 when there is none.
func textToReal(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && isDigit(s[i]) {
		i++
		digits = true
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits = true
		}
		i = j
	}
	if digits && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	if !digits {
		return 0
	}
	f, _ := strconv.ParseFloat(s[:i], 64)
	return f
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// formatReal renders a real the way the engine's text coercion does:
// up to 15 significant digits and always a decimal point.
func formatReal(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
