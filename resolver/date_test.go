package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDateParts(t *testing.T) {
	cases := []struct {
		name    string
		year    string
		month   string
		day     string
		want    PartialDate
		wantErr bool
	}{
		{"no fields", "", "", "", PartialDate{}, false},
		{"year only", "2024", "", "", PartialDate{Year: 2024}, false},
		{"year and month", "2024", "06", "", PartialDate{Year: 2024, Month: 6}, false},
		{"full date", "2024", "06", "15", PartialDate{Year: 2024, Month: 6, Day: 15}, false},
		{"leap day on leap year", "2024", "02", "29", PartialDate{Year: 2024, Month: 2, Day: 29}, false},
		{"leap day on common year", "2023", "02", "29", PartialDate{}, true},
		{"february thirtieth never exists", "2024", "02", "30", PartialDate{}, true},
		{"month thirteen", "2024", "13", "", PartialDate{}, true},
		{"month zero", "2024", "00", "", PartialDate{}, true},
		{"day zero", "2024", "01", "00", PartialDate{}, true},
		{"thirty-first of april", "2024", "04", "31", PartialDate{}, true},
		{"day without month", "2024", "", "15", PartialDate{}, true},
		{"month without year", "", "06", "", PartialDate{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateDateParts(tc.year, tc.month, tc.day)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPartialDateRange(t *testing.T) {
	cases := []struct {
		name      string
		date      PartialDate
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "year",
			date:      PartialDate{Year: 2024},
			wantStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "year and month",
			date:      PartialDate{Year: 2024, Month: 12},
			wantStart: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "single day",
			date:      PartialDate{Year: 2024, Month: 2, Day: 29},
			wantStart: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.date.Range()
			assert.Equal(t, tc.wantStart, r.Start)
			assert.Equal(t, tc.wantEnd, r.End)
			assert.True(t, r.Contains(tc.wantStart))
			assert.False(t, r.Contains(tc.wantEnd))
		})
	}
}

func TestZeroPartialDateRangeIsUnbounded(t *testing.T) {
	r := PartialDate{}.Range()
	assert.True(t, r.IsZero())
	assert.True(t, r.Contains(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPartialDateString(t *testing.T) {
	assert.Equal(t, "", PartialDate{}.String())
	assert.Equal(t, "2024", PartialDate{Year: 2024}.String())
	assert.Equal(t, "2024/06", PartialDate{Year: 2024, Month: 6}.String())
	assert.Equal(t, "2024/06/05", PartialDate{Year: 2024, Month: 6, Day: 5}.String())
}
