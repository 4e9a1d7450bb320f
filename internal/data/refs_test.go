package data

import (
	"encoding/json"
	"testing"

	"github.com/bks/clubcoordinator/internal/assert"
)

func TestRefUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "raw number", input: `17`, want: 17},
		{name: "numeric string", input: `"17"`, want: 17},
		{name: "expanded object", input: `{"id": 17}`, want: 17},
		{name: "expanded object with extra fields", input: `{"id": 17, "first_name": "Jan"}`,
			want: 17},
		{name: "expanded object with string id", input: `{"id": "17"}`, want: 17},
		{name: "null", input: `null`, want: 0},
		{name: "garbage", input: `"seventeen"`, wantErr: true},
		{name: "object without id", input: `{"name": "x"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref
			err := json.Unmarshal([]byte(tt.input), &ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, ref.ID, tt.want)
		})
	}
}

func TestRefShapesAgree(t *testing.T) {
	var raw, expanded Ref
	assert.NilError(t, json.Unmarshal([]byte(`"42"`), &raw))
	assert.NilError(t, json.Unmarshal([]byte(`{"id": 42}`), &expanded))
	assert.Equal(t, raw, expanded)
}

func TestRefMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Ref{ID: 7})
	assert.NilError(t, err)
	assert.Equal(t, string(out), "7")
}

func TestRefScan(t *testing.T) {
	var ref Ref
	assert.NilError(t, ref.Scan(int64(9)))
	assert.Equal(t, ref.ID, int64(9))

	assert.NilError(t, ref.Scan(nil))
	assert.Equal(t, ref.ID, int64(0))

	assert.Error(t, ref.Scan("9"))
}
