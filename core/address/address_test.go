package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name  string
		parts Parts
		want  Result
	}{
		{
			name:  "street state postcode",
			parts: Parts{Address: "12 Main St NSW 2000", Postcode: "2000", Suburb: "Sydney"},
			want:  Result{Address: "12 Main St", State: "NSW", HasState: true},
		},
		{
			name:  "suburb after comma",
			parts: Parts{Address: "123 George St, SYDNEY NSW 2000", Postcode: "2000", Suburb: "Sydney"},
			want:  Result{Address: "123 George St", State: "NSW", HasState: true},
		},
		{
			name:  "comma before postcode",
			parts: Parts{Address: "5 Pacific Hwy, North Sydney NSW, 2060", Postcode: "2060", Suburb: "North Sydney"},
			want:  Result{Address: "5 Pacific Hwy", State: "NSW", HasState: true},
		},
		{
			name:  "postcode missing from address",
			parts: Parts{Address: "1 High St Parramatta NSW", Postcode: "2150", Suburb: "Parramatta"},
			want:  Result{Address: "1 High St", State: "NSW", HasState: true},
		},
		{
			name:  "no three letter token",
			parts: Parts{Address: "1 High Street 2150", Postcode: "2150", Suburb: "Parramatta"},
			want:  Result{Address: "1 High Street"},
		},
		{
			name:  "suburb inside a word is kept",
			parts: Parts{Address: "9 Long Rd Westmead NSW 2145", Postcode: "2145", Suburb: "Mead"},
			want:  Result{Address: "9 Long Rd Westmead", State: "NSW", HasState: true},
		},
		{
			name:  "postcode inside a number is kept",
			parts: Parts{Address: "9 Long Rd 2145", Postcode: "145", Suburb: "Westmead"},
			want:  Result{Address: "9 Long Rd 2145"},
		},
		{
			name:  "trailing comma kept without suburb match",
			parts: Parts{Address: "7 King St, NSW 2000", Postcode: "2000", Suburb: "Newtown"},
			want:  Result{Address: "7 King St,", State: "NSW", HasState: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decompose(tt.parts))
		})
	}
}

func TestApply(t *testing.T) {
	tbl, err := table.FromRows(
		[]string{"Address", "Postcode", "Suburb"},
		[][]table.Value{
			{table.String("12 Main St NSW 2000"), table.Int(2000), table.String("Sydney")},
			{table.String("4 Oak Ave Newtown NSW 2042"), table.Null(), table.String("Newtown")},
			{table.Null(), table.Int(2150), table.String("Parramatta")},
		})
	require.NoError(t, err)

	require.True(t, Apply(tbl))

	addr, _ := tbl.Column("Address")
	assert.Equal(t, []table.Value{
		table.String("12 Main St"),
		table.String("4 Oak Ave Newtown NSW 2042"),
		table.Null(),
	}, addr.Values)

	state, ok := tbl.Column("State")
	require.True(t, ok)
	assert.Equal(t, []table.Value{table.String("NSW"), table.Null(), table.Null()}, state.Values)
}

func TestApply_MissingColumns(t *testing.T) {
	tbl, err := table.FromRows([]string{"Address", "Postcode"}, [][]table.Value{
		{table.String("12 Main St NSW 2000"), table.Int(2000)},
	})
	require.NoError(t, err)

	assert.False(t, Apply(tbl))
	assert.False(t, tbl.Has("State"))

	addr, _ := tbl.Column("Address")
	assert.Equal(t, table.String("12 Main St NSW 2000"), addr.Values[0])
}
