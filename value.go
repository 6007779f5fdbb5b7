package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind is the semantic kind of a result field.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindTime
	KindDate
	KindBytes
)

// Value is one field of a result row.
type Value struct {
	kind     Kind
	str      string
	integer  int64
	unsigned uint64
	isUint   bool
	float    float64
	bits     int
	when     time.Time
	raw      []byte
}

func NullValue() Value             { return Value{kind: KindNull} }
func StringValue(s string) Value   { return Value{kind: KindString, str: s} }
func IntValue(i int64) Value       { return Value{kind: KindInt, integer: i} }
func UintValue(u uint64) Value     { return Value{kind: KindInt, unsigned: u, isUint: true} }
func FloatValue(f float64) Value   { return Value{kind: KindFloat, float: f, bits: 64} }
func Float32Value(f float32) Value { return Value{kind: KindFloat, float: float64(f), bits: 32} }
func TimeValue(t time.Time) Value  { return Value{kind: KindTime, when: t} }
func DateValue(t time.Time) Value  { return Value{kind: KindDate, when: t} }
func BytesValue(b []byte) Value    { return Value{kind: KindBytes, raw: b} }

func (v Value) Kind() Kind { return v.kind }

// String renders the value the same way in every output format.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "None"
	case KindString:
		return v.str
	case KindInt:
		if v.isUint {
			return strconv.FormatUint(v.unsigned, 10)
		}
		return strconv.FormatInt(v.integer, 10)
	case KindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, v.bits)
	case KindTime:
		if v.when.Nanosecond() != 0 {
			return v.when.Format("2006-01-02 15:04:05.000000")
		}
		return v.when.Format(time.DateTime)
	case KindDate:
		return v.when.Format(time.DateOnly)
	case KindBytes:
		if utf8.Valid(v.raw) {
			return string(v.raw)
		}
		return "0x" + hex.EncodeToString(v.raw)
	}
	return ""
}

// binaryTypes are database type names whose []byte values are not text.
var binaryTypes = map[string]bool{
	"BINARY":     true,
	"VARBINARY":  true,
	"BLOB":       true,
	"TINYBLOB":   true,
	"MEDIUMBLOB": true,
	"LONGBLOB":   true,
	"BITMAP":     true,
	"HLL":        true,
}

// valueFromDriver classifies a value scanned into *any. dbType is the
// column's database type name as reported by the driver, possibly empty.
func valueFromDriver(src any, dbType string) Value {
	dbType = strings.ToUpper(dbType)
	switch v := src.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(v)
	case []byte:
		if binaryTypes[dbType] {
			return BytesValue(v)
		}
		return StringValue(string(v))
	case bool:
		if v {
			return IntValue(1)
		}
		return IntValue(0)
	case int:
		return IntValue(int64(v))
	case int8:
		return IntValue(int64(v))
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case uint:
		return UintValue(uint64(v))
	case uint8:
		return UintValue(uint64(v))
	case uint16:
		return UintValue(uint64(v))
	case uint32:
		return UintValue(uint64(v))
	case uint64:
		return UintValue(v)
	case float32:
		return Float32Value(v)
	case float64:
		return FloatValue(v)
	case time.Time:
		if dbType == "DATE" {
			return DateValue(v)
		}
		return TimeValue(v)
	}
	return StringValue(fmt.Sprint(src))
}
