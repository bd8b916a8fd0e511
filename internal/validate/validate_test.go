package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"A", nil},
		{"Ann", nil},
		{"abcdefghijklmno", nil},
		{"MixedCASE", nil},
		{"", ErrName},
		{"abcdefghijklmnop", ErrName},
		{"Ann1", ErrName},
		{"Ann Lee", ErrName},
		{"O'Neil", ErrName},
		{"Zoë", ErrName},
		{"Ann\n", ErrName},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestName_AllLetterLengths(t *testing.T) {
	for n := 1; n <= 15; n++ {
		assert.NoError(t, Name(strings.Repeat("x", n)), "length %d", n)
	}
	assert.ErrorIs(t, Name(strings.Repeat("x", 16)), ErrName)
}

func TestEmail(t *testing.T) {
	accepted := []string{
		"ann@gmail.com",
		"ann.lee@yahoo.com",
		"a_b%c+d-e@outlook.com",
		"ANN99@gmail.com",
	}
	for _, s := range accepted {
		assert.NoError(t, Email(s), s)
	}

	rejected := []string{
		"",
		"ann@hotmail.com",
		"ann@gmail.org",
		"ann@mail.gmail.com",
		"@gmail.com",
		"ann gmail.com",
		"ann@@gmail.com",
		"ann@gmail.com ",
		"ann@gmailxcom",
	}
	for _, s := range rejected {
		assert.ErrorIs(t, Email(s), ErrEmail, s)
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"valid", "Abcdef1@", true},
		{"valid long", "Abc12345@", true},
		{"every symbol", "aA1@$!%*?&", true},
		{"no uppercase", "abcdef1@", false},
		{"no lowercase", "ABCDEF1@", false},
		{"no digit", "Abcdefg@", false},
		{"no symbol", "Abcdefg1", false},
		{"too short", "Ab1@", false},
		{"seven chars", "Abcd1@x", false},
		{"disallowed symbol", "Abcdef1@#", false},
		{"space", "Abcd ef1@", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password(tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPassword)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("annlee01"))
	assert.NoError(t, Username("ann_lee.x"))
	assert.ErrorIs(t, Username("ann"), ErrUsername)
	assert.ErrorIs(t, Username("AnnLee01"), ErrUsername)
	assert.ErrorIs(t, Username("ann-lee01"), ErrUsername)
}
