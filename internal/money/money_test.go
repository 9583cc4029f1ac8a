package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Amount
		wantErr bool
	}{
		{input: "50", want: 50 * One},
		{input: "0.01", want: Cent},
		{input: "0.000001", want: Micro},
		{input: "12.345678", want: 12_345_678},
		{input: "0.0000005", want: Micro},
		{input: "0.0000004", want: 0},
		{input: "-3.5", want: -3_500_000},
		{input: " 7 ", want: 7 * One},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1,5", wantErr: true},
		{input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidAmount))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAmountString(t *testing.T) {
	require.Equal(t, "50", (50 * One).String())
	require.Equal(t, "0.5", Amount(500_000).String())
	require.Equal(t, "-0.000001", (-Micro).String())
	require.Equal(t, "33.33", Amount(33_333_333).Display())
	require.Equal(t, "0.00", Amount(0).Display())
}

func TestAmountJSON(t *testing.T) {
	type wrapper struct {
		Amount Amount `json:"amount"`
	}

	data, err := json.Marshal(wrapper{Amount: 12_500_000})
	require.NoError(t, err)
	require.JSONEq(t, `{"amount":"12.5"}`, string(data))

	var fromString wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"0.25"}`), &fromString))
	require.Equal(t, Amount(250_000), fromString.Amount)

	var fromNumber wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"amount":90}`), &fromNumber))
	require.Equal(t, 90*One, fromNumber.Amount)

	var bad wrapper
	require.Error(t, json.Unmarshal([]byte(`{"amount":"ten"}`), &bad))
}

func TestSumAndAbs(t *testing.T) {
	require.Equal(t, Amount(0), Sum())
	require.Equal(t, 3*One, Sum(One, 2*One))
	require.Equal(t, Cent, (-Cent).Abs())
	require.False(t, Amount(0).IsPositive())
}
