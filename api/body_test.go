package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecodeBody(t *testing.T) {
	body, err := decodeBody(strings.NewReader(`{"type": "quiz", "score": 90, "weight": 0.5, "tags": ["a"]}`))
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "type", Value: "quiz"},
		{Key: "score", Value: int32(90)},
		{Key: "weight", Value: 0.5},
		{Key: "tags", Value: bson.A{"a"}},
	}, body)

	body, err = decodeBody(strings.NewReader(`[{"score": 1}]`))
	require.NoError(t, err)
	assert.Equal(t, bson.A{bson.D{{Key: "score", Value: int32(1)}}}, body)

	body, err = decodeBody(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Equal(t, bson.D{}, body)
}

func TestDecodeBodyKeepsDollarKeys(t *testing.T) {
	body, err := decodeBody(strings.NewReader(`{"meta": {"$date": "x"}, "when": {"$date": "2020-01-01T00:00:00Z"}, "ref": {"$oid": 5}}`))
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "meta", Value: bson.D{{Key: "$date", Value: "x"}}},
		{Key: "when", Value: bson.D{{Key: "$date", Value: "2020-01-01T00:00:00Z"}}},
		{Key: "ref", Value: bson.D{{Key: "$oid", Value: int32(5)}}},
	}, body)
}

func TestDecodeBodyNumbers(t *testing.T) {
	body, err := decodeBody(strings.NewReader(`[1, -2147483649, 3000000000, 1.0, 1e2, null, false]`))
	require.NoError(t, err)
	assert.Equal(t, bson.A{int32(1), int64(-2147483649), int64(3000000000), 1.0, 100.0, nil, false}, body)
}

func TestDecodeBodyErrors(t *testing.T) {
	for _, in := range []string{`"text"`, `12`, `{"a": 1`, `{"a": 1}, "b": {}`, `true`, `{"a": tru}`, `[1,]`, `{"a" 1}`, `{} {}`} {
		_, err := decodeBody(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestNormalizeLegacyFields(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "student id renamed",
			in:   bson.D{{Key: "student_id", Value: 4}, {Key: "class_id", Value: 9}},
			want: bson.D{{Key: "learner_id", Value: 4}, {Key: "class_id", Value: 9}},
		},
		{
			name: "student id wins over learner id",
			in:   bson.D{{Key: "learner_id", Value: 1}, {Key: "class_id", Value: 9}, {Key: "student_id", Value: 4}},
			want: bson.D{{Key: "learner_id", Value: 4}, {Key: "class_id", Value: 9}},
		},
		{
			name: "learner id untouched",
			in:   bson.D{{Key: "learner_id", Value: 1}},
			want: bson.D{{Key: "learner_id", Value: 1}},
		},
		{
			name: "map",
			in:   bson.M{"student_id": 0},
			want: bson.M{"learner_id": 0},
		},
		{
			name: "array",
			in:   bson.A{bson.D{{Key: "student_id", Value: 1}}},
			want: bson.A{bson.D{{Key: "student_id", Value: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLegacyFields(tt.in))
		})
	}
}

func TestBodyField(t *testing.T) {
	assert.Equal(t, int32(5), bodyField(bson.D{{Key: "class_id", Value: int32(5)}}, "class_id"))
	assert.Equal(t, 5, bodyField(bson.M{"class_id": 5}, "class_id"))
	assert.Nil(t, bodyField(bson.D{}, "class_id"))
	assert.Nil(t, bodyField(bson.A{1}, "class_id"))
}
