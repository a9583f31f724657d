package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		places int
		sep    string
		want   string
	}{
		{name: "scenario", in: "777.77777777777777777778", places: 2, sep: ",", want: "777.78"},
		{name: "grouping", in: "1234567.891", places: 2, sep: ",", want: "1,234,567.89"},
		{name: "space separator", in: "1234567.891", places: 4, sep: " ", want: "1 234 567.8910"},
		{name: "dot separator", in: "1234.5", places: 2, sep: ".", want: "1.234.50"},
		{name: "no separator", in: "1234567", places: 2, sep: "", want: "1234567.00"},
		{name: "half up", in: "1000.125", places: 2, sep: ",", want: "1,000.13"},
		{name: "empty", in: "", places: 2, sep: ",", want: "0.00"},
		{name: "zero ignores places", in: "0", places: 8, sep: ",", want: "0.00"},
		{name: "invalid", in: "abc", places: 2, sep: ",", want: "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatAmount(tc.in, tc.places, tc.sep))
		})
	}
}

func TestFormatNumber_DoesNotRound(t *testing.T) {
	require.Equal(t, "1,234,567.891", FormatNumber("1234567.891", ","))
	require.Equal(t, "1,234", FormatNumber("1234", ","))
	require.Equal(t, "", FormatNumber("", ","))
}

func TestValidateAmount(t *testing.T) {
	require.True(t, ValidateAmount("", 2))
	require.True(t, ValidateAmount("12.34", 2))
	require.True(t, ValidateAmount(".5", 2))
	require.True(t, ValidateAmount("12.", 2))
	require.False(t, ValidateAmount("12.345", 2))
	require.False(t, ValidateAmount("1.2.3", 8))
	require.False(t, ValidateAmount("abc", 8))
	require.False(t, ValidateAmount("-1", 8))
}

func TestCleanAmount(t *testing.T) {
	require.Equal(t, "7", CleanAmount("007"))
	require.Equal(t, "0.5", CleanAmount("00.5"))
	require.Equal(t, "0.5", CleanAmount(".5"))
	require.Equal(t, "0.5", CleanAmount("0.5"))
	require.Equal(t, "100", CleanAmount("100"))
	require.Equal(t, "", CleanAmount(""))
}

func TestAbbreviate(t *testing.T) {
	require.Equal(t, "1.23M", Abbreviate("1234567", "en-US"))
	require.Equal(t, "1.5K", Abbreviate("1500", "en-US"))
	require.Equal(t, "999", Abbreviate("999", "en-US"))
	require.Equal(t, "2T", Abbreviate("2000000000000", "en-US"))
	require.Equal(t, "1.23亿", Abbreviate("123456789", "zh-CN"))
	require.Equal(t, "5.6万", Abbreviate("56000", "zh-CN"))
	require.Equal(t, "0", Abbreviate("", "en-US"))
}
