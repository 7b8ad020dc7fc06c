package endpoints

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePK(t *testing.T) {
	tests := []struct {
		raw    interface{}
		want   uint
		wantOK bool
	}{
		{json.Number("5"), 5, true},
		{"7", 7, true},
		{" 7 ", 7, true},
		{json.Number("-3"), 0, true},
		{json.Number("99999999999"), 0, true},
		{json.Number("1.5"), 0, false},
		{"abc", 0, false},
		{true, 0, false},
		{nil, 0, false},
		{[]interface{}{}, 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePK(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "%#v", tt.raw)
		assert.Equal(t, tt.want, got, "%#v", tt.raw)
	}
}

func TestUserIDs(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"id": json.Number("3")},
		map[string]interface{}{"name": "no id"},
		map[string]interface{}{"id": "4"},
		map[string]interface{}{"id": json.Number("0")},
		json.Number("5"),
	}

	assert.Equal(t, []uint{3, 4}, userIDs(raw))
	assert.Nil(t, userIDs("not a list"))
	assert.Nil(t, userIDs(nil))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", typeName(json.Number("1")))
	assert.Equal(t, "float", typeName(json.Number("1.5")))
	assert.Equal(t, "str", typeName("x"))
	assert.Equal(t, "dict", typeName(map[string]interface{}{}))
	assert.Equal(t, "NoneType", typeName(nil))
}
