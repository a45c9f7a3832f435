package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSet(t *testing.T) {
	t.Run("new key is appended", func(t *testing.T) {
		record := NewRecord()

		record.Set("b", StringValue("x"))
		record.Set("a", BoolValue(true))

		assert.Equal(t, []string{"b", "a"}, record.Keys())
		assert.Equal(t, 2, record.Len())
	})

	t.Run("existing key is replaced in place", func(t *testing.T) {
		record := NewRecord()
		record.Set("a", StringValue("1"))
		record.Set("b", StringValue("2"))

		record.Set("a", StringValue("3"))

		assert.Equal(t, []string{"a", "b"}, record.Keys())
		value, ok := record.GetString("a")
		assert.True(t, ok)
		assert.Equal(t, "3", value)
	})

	t.Run("keys returns a copy", func(t *testing.T) {
		record := NewRecord()
		record.Set("a", NullValue())

		keys := record.Keys()
		keys[0] = "z"

		assert.True(t, record.Has("a"))
		assert.False(t, record.Has("z"))
	})
}

func TestRecordGetString(t *testing.T) {
	record := mustParseRecord(t, `{"s":"text","n":1,"z":null}`)

	t.Run("string field", func(t *testing.T) {
		value, ok := record.GetString("s")
		assert.True(t, ok)
		assert.Equal(t, "text", value)
	})

	t.Run("non-string field", func(t *testing.T) {
		_, ok := record.GetString("n")
		assert.False(t, ok)
	})

	t.Run("null field is present but not a string", func(t *testing.T) {
		assert.True(t, record.Has("z"))
		_, ok := record.GetString("z")
		assert.False(t, ok)
	})

	t.Run("missing field", func(t *testing.T) {
		_, ok := record.GetString("missing")
		assert.False(t, ok)
	})
}

func TestValueText(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string without quotes", StringValue("Foo"), "Foo"},
		{"number", NumberValue(NewDecimalFromInt64(42)), "42"},
		{"null", NullValue(), "null"},
		{"bool", BoolValue(false), "false"},
		{"list", ListValue([]Value{NumberValue(NewDecimalFromInt64(1)), StringValue("a")}), `[1,"a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Text())
		})
	}
}

func TestParseRecord(t *testing.T) {
	t.Run("field order and number text survive a round trip", func(t *testing.T) {
		input := `{"b":1,"a":"x","c":[1,{"d":null}],"e":true,"f":2.50,"g":-0.5}`

		record, err := ParseRecord([]byte(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"b", "a", "c", "e", "f", "g"}, record.Keys())
		assert.Equal(t, input, mustJSON(t, record))
	})

	t.Run("strings are escaped on output", func(t *testing.T) {
		record := mustParseRecord(t, `{"q":"say \"hi\"\n"}`)

		value, _ := record.GetString("q")
		assert.Equal(t, "say \"hi\"\n", value)
		assert.Equal(t, `{"q":"say \"hi\"\n"}`, mustJSON(t, record))
	})

	t.Run("nested records are records", func(t *testing.T) {
		record := mustParseRecord(t, `{"items":[{"x":1},2]}`)

		value, _ := record.Get("items")
		list, ok := value.List()
		require.True(t, ok)
		require.Len(t, list, 2)
		assert.Equal(t, KindRecord, list[0].Kind())
		assert.Equal(t, KindNumber, list[1].Kind())
	})

	t.Run("array is rejected", func(t *testing.T) {
		_, err := ParseRecord([]byte(`[{"a":1}]`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected JSON object")
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := ParseRecord([]byte(`{"a":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON document")
	})
}

func TestParseRecords(t *testing.T) {
	t.Run("elements of any kind keep their order", func(t *testing.T) {
		values, err := ParseRecords([]byte(`[{"a":1},"s",3,null]`))

		require.NoError(t, err)
		require.Len(t, values, 4)
		assert.Equal(t, KindRecord, values[0].Kind())
		assert.Equal(t, KindString, values[1].Kind())
		assert.Equal(t, KindNumber, values[2].Kind())
		assert.Equal(t, KindNull, values[3].Kind())
	})

	t.Run("empty array", func(t *testing.T) {
		values, err := ParseRecords([]byte(`[]`))

		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("object is rejected", func(t *testing.T) {
		_, err := ParseRecords([]byte(`{"a":1}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected JSON array")
	})
}

func TestMarshalRecords(t *testing.T) {
	first := mustParseRecord(t, `{"a":1}`)
	second := mustParseRecord(t, `{"b":"x"}`)

	data, err := MarshalRecords([]*Record{first, second})

	require.NoError(t, err)
	assert.Equal(t, `[{"a":1},{"b":"x"}]`, string(data))
}
