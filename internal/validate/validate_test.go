package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	t.Run("accepts alphanumeric passwords within bounds", func(t *testing.T) {
		for _, p := range []string{"abcd1234", "A1B2C3D4", "zzzzzzzz", "0123456789abcdef"} {
			assert.NoError(t, Password(p), "password=%q", p)
		}
	})

	t.Run("rejects non-alphanumeric characters", func(t *testing.T) {
		for _, p := range []string{"abc 1234", "pass-word1", "pя$$w0rd12", "", "with.dot12"} {
			assert.ErrorIs(t, Password(p), ErrPasswordFormat, "password=%q", p)
		}
	})

	t.Run("rejects lengths outside 8..16", func(t *testing.T) {
		assert.ErrorIs(t, Password("abc1234"), ErrPasswordLength)
		assert.NoError(t, Password("abcd1234"))
		assert.NoError(t, Password("abcd1234abcd1234"))
		assert.ErrorIs(t, Password("abcd1234abcd12345"), ErrPasswordLength)
	})

	t.Run("format failure wins over length failure", func(t *testing.T) {
		assert.ErrorIs(t, Password("!!"), ErrPasswordFormat)
	})
}

func TestPasswordPair(t *testing.T) {
	t.Run("valid matching pair has no errors", func(t *testing.T) {
		assert.True(t, PasswordPair("abcd1234", "abcd1234").Empty())
	})

	t.Run("mismatch is reported independently of validity", func(t *testing.T) {
		fe := PasswordPair("ab!", "other")
		require.Len(t, fe, 2)
		assert.Equal(t, ErrPasswordFormat.Error(), fe["password"])
		assert.Equal(t, ErrPasswordMismatch.Error(), fe["password_confirm"])
	})
}

func TestBirthDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	date := func(y int) *time.Time {
		d := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		return &d
	}

	t.Run("absent birth date is always valid", func(t *testing.T) {
		assert.NoError(t, BirthDate(nil, now))
	})

	t.Run("older than 100 years is rejected", func(t *testing.T) {
		assert.ErrorIs(t, BirthDate(date(1920), now), ErrBirthDateTooOld) // 104
	})

	t.Run("within 100 years is accepted", func(t *testing.T) {
		assert.NoError(t, BirthDate(date(1930), now)) // 94
	})

	t.Run("exactly 100 years is the accepted boundary", func(t *testing.T) {
		assert.NoError(t, BirthDate(date(1924), now)) // 100
	})
}
