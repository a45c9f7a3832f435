package internal

// Kind enumerates the closed set of value shapes a usage record field can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindRecord
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is one field value of a Record. Nested records are held by pointer so
// rating a nested item mutates it inside its enclosing list.
type Value struct {
	kind   Kind
	b      bool
	number Decimal
	str    string
	record *Record
	list   []Value
}

func NullValue() Value {
	return Value{kind: KindNull}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func NumberValue(d Decimal) Value {
	return Value{kind: KindNumber, number: d}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func RecordValue(r *Record) Value {
	return Value{kind: KindRecord, record: r}
}

func ListValue(items []Value) Value {
	return Value{kind: KindList, list: items}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) Number() (Decimal, bool) {
	return v.number, v.kind == KindNumber
}

func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) Record() (*Record, bool) {
	return v.record, v.kind == KindRecord && v.record != nil
}

func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Text renders a scalar the way it reads in the source document: strings
// without quotes, everything else as its JSON text.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// Record is an ordered, string-keyed usage record. Field order follows the
// source document; new fields are appended.
type Record struct {
	keys   []string
	values map[string]Value
}

func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// GetString returns the field only when it holds a string.
func (r *Record) GetString(key string) (string, bool) {
	v, ok := r.values[key]
	if !ok {
		return "", false
	}
	return v.Str()
}

// Set replaces an existing field in place or appends a new one.
func (r *Record) Set(key string, value Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) IsEmpty() bool {
	return len(r.keys) == 0
}
