package composite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/evio/errs"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   []int
	}{
		{"group with repeats", "(2I,1F)", []int{16, 43, 18, 0}},
		{"N group", "N(I)", []int{15, 27, 0}},
		{"plain list", "2I,F", []int{43, 18}},
		{"spaces ignored", " 2 I ", []int{43}},
		{"N item", "NS", []int{4}},
		{"repeated group", "3(i,D)", []int{48, 17, 24, 0}},
		{"string run", "12a", []int{16*12 + 3}},
		{"all letters", "i,F,a,S,s,C,c,D,L,l,I,A", []int{17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28}},
		{"nested", "N(2(I),F)", []int{15, 32, 27, 0, 18, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Compile(tt.format)
			require.NoError(t, err)
			require.Equal(t, tt.want, ops)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	for _, bad := range []string{
		")(",
		"16I",
		"(I",
		"I)",
		"X",
		"",
		"   ",
		"I2",
		"(I)F",
		"I,,F",
		"2,I",
	} {
		t.Run(bad, func(t *testing.T) {
			ops, err := Compile(bad)
			require.ErrorIs(t, err, errs.ErrCompile)
			require.Nil(t, ops)
		})
	}
}
