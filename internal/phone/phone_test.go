package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "formatted_kz", input: "+7 (777) 123-45-67", expected: "77771234567"},
		{name: "digits_only", input: "77771234567", expected: "77771234567"},
		{name: "dots_and_spaces", input: "8.701.234 56 78", expected: "87012345678"},
		{name: "empty", input: "", expected: ""},
		{name: "no_digits", input: "call me", expected: ""},
		{name: "non_ascii_digits_dropped", input: "+7 ٧٧٧ 1", expected: "71"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"+7 (701) 234-56-78", "", "abc", "8 800 555 35 35"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("+7 (777) 123-45-67", "77771234567"))
	assert.True(t, Equal("+7 (701) 234-56-78", "7-701-234-56-78"))

	// Leading 8 and +7 are different sequences; no country code folding.
	assert.False(t, Equal("81234567890", "71234567890"))
	assert.False(t, Equal("87012345678", "+7 (701) 234-56-78"))
}

func TestTrunkAlternate(t *testing.T) {
	alt, ok := TrunkAlternate("87012345678")
	assert.True(t, ok)
	assert.Equal(t, "77012345678", alt)

	for _, in := range []string{"77012345678", "8701234567", "870123456789", ""} {
		_, ok := TrunkAlternate(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "+7 (***) ***-**-78", Mask("+7 (701) 234-56-78"))
	assert.Equal(t, "8********78", Mask("87012345678"))
	assert.Equal(t, "***", Mask("123"))
	assert.Equal(t, "", Mask(""))
}
