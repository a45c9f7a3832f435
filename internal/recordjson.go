package internal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseRecords parses data as a JSON array. Elements keep document order and
// may be of any kind; callers decide which ones are records.
func ParseRecords(data []byte) ([]Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	result := gjson.ParseBytes(data)
	if !result.IsArray() {
		return nil, fmt.Errorf("expected JSON array, got %s", result.Type)
	}
	return fromResult(result).list, nil
}

// ParseRecord parses data as a single JSON object.
func ParseRecord(data []byte) (*Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, fmt.Errorf("expected JSON object, got %s", result.Type)
	}
	return fromResult(result).record, nil
}

func fromResult(result gjson.Result) Value {
	switch result.Type {
	case gjson.True:
		return BoolValue(true)
	case gjson.False:
		return BoolValue(false)
	case gjson.String:
		return StringValue(result.Str)
	case gjson.Number:
		d, err := NewDecimal(result.Raw)
		if err != nil {
			// gjson accepts a few forms apd does not; fall back to the parsed float.
			d, err = NewDecimalFromFloat64(result.Num)
			if err != nil {
				return NullValue()
			}
		}
		return NumberValue(d)
	case gjson.JSON:
		if result.IsArray() {
			items := make([]Value, 0)
			result.ForEach(func(_, item gjson.Result) bool {
				items = append(items, fromResult(item))
				return true
			})
			return ListValue(items)
		}
		record := NewRecord()
		result.ForEach(func(key, item gjson.Result) bool {
			record.Set(key.String(), fromResult(item))
			return true
		})
		return RecordValue(record)
	default:
		return NullValue()
	}
}

// MarshalJSON writes the record's fields in order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeRecord(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, r *Record) error {
	if r == nil {
		buf.WriteString("null")
		return nil
	}
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeValue(buf, r.values[key]); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.number.String())
	case KindString:
		return writeString(buf, v.str)
	case KindRecord:
		return writeRecord(buf, v.record)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown value kind %d", v.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// MarshalRecords encodes records as a JSON array, the body format every
// transport publishes.
func MarshalRecords(records []*Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, record := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeRecord(&buf, record); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
