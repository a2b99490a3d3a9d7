package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestParseDate(t *testing.T) {
	require.Equal(t, "2024-03-01", *ParseDate("3/1/2024"))
	require.Equal(t, "2024-03-01", *ParseDate(" 03/01/2024 "))
	require.Equal(t, "2024-12-31", *ParseDate("12/31/2024"))

	for _, bad := range []string{"", "13/01/2024", "2/30/2024", "2024-03-01", "soon"} {
		require.Nil(t, ParseDate(bad), bad)
	}
}

func TestParseTime(t *testing.T) {
	testCases := []struct {
		in         string
		hour, min  int
		wantParsed bool
	}{
		{"2:30 PM", 14, 30, true},
		{"2:30 pm", 14, 30, true},
		{"2:30PM", 14, 30, true},
		{"12:05 AM", 0, 5, true},
		{"12:00 PM", 12, 0, true},
		{"11:59  am", 11, 59, true},
		{"14:30 PM", 0, 0, false},
		{"2:30", 0, 0, false},
		{"noon", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range testCases {
		got, ok := ParseTime(tc.in)
		require.Equal(t, tc.wantParsed, ok, tc.in)
		if ok {
			require.Equal(t, tc.hour, got.Hour(), tc.in)
			require.Equal(t, tc.min, got.Minute(), tc.in)
		}
	}
}

func TestCombineDeadline(t *testing.T) {
	require.Equal(t, "2024-03-01T14:30:00", *CombineDeadline(ptr("2024-03-01"), ptr("2:30 PM")))
	require.Equal(t, "2024-03-01T10:00:00", *CombineDeadline(ptr("2024-03-01"), ptr("10:00AM")))
	require.Equal(t, "2024-03-01T09:05:00", *CombineDeadline(ptr("2024-03-01"), ptr("9:05 am")))
	require.Equal(t, "2024-03-01", *CombineDeadline(ptr("2024-03-01"), nil))
	require.Equal(t, "2024-03-01", *CombineDeadline(ptr("2024-03-01"), ptr("whenever")))
	require.Nil(t, CombineDeadline(nil, ptr("2:30 PM")))
	require.Nil(t, CombineDeadline(ptr(""), nil))
}
