package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"already has country code", "5511987654321", "5511987654321"},
		{"mobile without country code", "11987654321", "5511987654321"},
		{"landline without country code", "1134567890", "551134567890"},
		{"formatted input is stripped", "+55 (11) 98765-4321", "5511987654321"},
		{"dashes and spaces", "11 98765-4321", "5511987654321"},
		{"unusual length passes through", "123456", "123456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPhoneNumber(tc.input))
		})
	}
}

func TestFormatGroupID(t *testing.T) {
	assert.Equal(t, "123456789@g.us", FormatGroupID("123456789"))
	assert.Equal(t, "123456789@g.us", FormatGroupID("123456789@g.us"))
}
