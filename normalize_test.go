package surgdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		kind FieldKind
		in   string
		want string
	}{
		{KindIdentifier, "123 456 7890", "1234567890"},
		{KindIdentifier, "123-456-7890", "1234567890"},
		{KindIdentifier, "MRN/00042", "00042"},
		{KindIdentifier, "", ""},

		{KindPostcode, "sw1a 1aa", "SW1A1AA"},
		{KindPostcode, " SW1A  1AA ", "SW1A1AA"},
		{KindPostcode, "ec1a1bb", "EC1A1BB"},

		{KindName, "  O'Brien   SMITH ", "o'brien smith"},
		{KindName, "MacLeod", "macleod"},
		{KindName, "van  der\tBerg", "van der berg"},

		{KindDate, " 1947-03-12 ", "1947-03-12"},
		{KindDate, "1947-03-12", "1947-03-12"},

		{KindExact, " AS-IS ", " AS-IS "},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.kind, tt.in))
		})
	}
}

func TestFieldKindValid(t *testing.T) {
	for _, k := range []FieldKind{KindIdentifier, KindPostcode, KindName, KindDate, KindExact} {
		assert.True(t, k.valid(), "kind %q", k)
	}
	assert.False(t, FieldKind("fuzzy").valid())
	assert.False(t, FieldKind("").valid())
}
