package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePaginationParams(t *testing.T) {
	cases := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults on zero limit", 0, 0, 50, 0},
		{"negative limit falls back", -5, 0, 50, 0},
		{"limit capped at one thousand", 5000, 0, 1000, 0},
		{"negative offset floored", 20, -3, 20, 0},
		{"valid values pass through", 25, 100, 25, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := ValidatePaginationParams(tc.limit, tc.offset)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2026-08-31", "planned_date")
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-31", date.Format("2006-01-02"))

	_, err = ParseDate("31.08.2026", "planned_date")
	assert.Error(t, err)

	_, err = ParseDate("", "planned_date")
	assert.Error(t, err)
}

func TestParseQuantity(t *testing.T) {
	qty, err := ParseQuantity("12.5", "quantity")
	assert.NoError(t, err)
	assert.Equal(t, "12.5", qty.String())

	_, err = ParseQuantity("0", "quantity")
	assert.Error(t, err)

	_, err = ParseQuantity("-4", "quantity")
	assert.Error(t, err)

	_, err = ParseQuantity("a lot", "quantity")
	assert.Error(t, err)
}

func TestValidateUUID(t *testing.T) {
	_, err := ValidateUUID("not-a-uuid", "id")
	assert.Error(t, err)

	_, err = ValidateUUID("  ", "id")
	assert.Error(t, err)

	id, err := ValidateUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8", "id")
	assert.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())
}
