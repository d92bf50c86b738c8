package gsheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnName(t *testing.T) {
	cases := map[int]string{1: "A", 4: "D", 26: "Z", 27: "AA", 52: "AZ", 53: "BA", 702: "ZZ", 703: "AAA"}
	for n, want := range cases {
		assert.Equal(t, want, ColumnName(n), "column %d", n)
	}
	assert.Equal(t, "", ColumnName(0))
}

func TestRange(t *testing.T) {
	assert.Equal(t, "Vivek!A2:D", Range("Vivek", "A2", "D"))
	assert.Equal(t, "Vivek!A2:D25", Range("Vivek", "A2", "D25"))
	assert.Equal(t, "FormData!A1", Range("FormData", "A1", ""))
	assert.Equal(t, "'Team Calendar'!A:D", Range("Team Calendar", "A", "D"))
	assert.Equal(t, "'Bob''s'!A1:C1", Range("Bob's", "A1", "C1"))
}
