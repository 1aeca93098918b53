package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_UnmarshalAnyValue(t *testing.T) {
	var v any
	require.NoError(t, JSON.Unmarshal([]byte(`{"a": 2, "b": [1, "x"]}`), &v))
	assert.Equal(t, map[string]any{"a": 2.0, "b": []any{1.0, "x"}}, v)

	require.NoError(t, JSON.Unmarshal([]byte(` 5 `), &v))
	assert.Equal(t, 5.0, v)

	require.NoError(t, JSON.Unmarshal([]byte(`null`), &v))
	assert.Nil(t, v)
}

func TestJSON_UnmarshalNumbersAreFloat64(t *testing.T) {
	var v any
	require.NoError(t, JSON.Unmarshal([]byte(`9007199254740993`), &v))
	assert.IsType(t, float64(0), v)
	assert.Equal(t, float64(9007199254740992), v)
}

func TestJSON_UnmarshalRejects(t *testing.T) {
	var v any
	assert.Error(t, JSON.Unmarshal(nil, &v))
	assert.Error(t, JSON.Unmarshal([]byte(`{"a":`), &v))
	assert.EqualError(t, JSON.Unmarshal([]byte(`{} {}`), &v), "json trailing content")
}

func TestJSON_Marshal(t *testing.T) {
	b, err := JSON.Marshal(int64(5))
	require.NoError(t, err)
	assert.Equal(t, "5", string(b))

	b, err = JSON.Marshal(map[string]any{"html": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<b>"}`, string(b))

	b, err = JSON.Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	assert.Equal(t, "application/json", JSON.ContentType())
}
