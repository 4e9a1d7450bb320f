package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bks/clubcoordinator/internal/assert"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "date only", input: `"2026-03-01"`, want: "2026-03-01"},
		{name: "rfc3339", input: `"2026-03-01T18:30:00Z"`, want: "2026-03-01"},
		{name: "invalid", input: `"01.03.2026"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, d.String(), tt.want)
		})
	}
}

func TestDateMarshalJSON(t *testing.T) {
	out, err := json.Marshal(NewDate(2026, time.March, 1))
	assert.NilError(t, err)
	assert.Equal(t, string(out), `"2026-03-01"`)

	out, err = json.Marshal(Date{})
	assert.NilError(t, err)
	assert.Equal(t, string(out), "null")
}

func TestDateRangeContains(t *testing.T) {
	after := NewDate(2026, time.March, 1)
	before := NewDate(2026, time.March, 31)
	rng := DateRange{AfterDate: &after, BeforeDate: &before}

	tests := []struct {
		name string
		date Date
		want bool
	}{
		{name: "inside", date: NewDate(2026, time.March, 15), want: true},
		{name: "on start", date: NewDate(2026, time.March, 1), want: true},
		{name: "on end", date: NewDate(2026, time.March, 31), want: true},
		{name: "before start", date: NewDate(2026, time.February, 28), want: false},
		{name: "after end", date: NewDate(2026, time.April, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, rng.Contains(tt.date), tt.want)
		})
	}
}

func TestDateRangeEmptyContainsEverything(t *testing.T) {
	var rng DateRange
	assert.Equal(t, rng.IsEmpty(), true)
	assert.Equal(t, rng.Contains(NewDate(1990, time.January, 1)), true)
}
