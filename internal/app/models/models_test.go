package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	birth := date(2005, time.August, 20)

	assert.Equal(t, 18, AgeAt(birth, date(2024, time.August, 19)))
	assert.Equal(t, 19, AgeAt(birth, date(2024, time.August, 20)))
	assert.Equal(t, 19, AgeAt(birth, date(2024, time.December, 1)))
	assert.Equal(t, 18, AgeAt(birth, date(2024, time.January, 31)))

	leap := date(2004, time.February, 29)
	assert.Equal(t, 19, AgeAt(leap, date(2024, time.February, 28)))
	assert.Equal(t, 20, AgeAt(leap, date(2024, time.February, 29)))
}

func TestGender_Valid(t *testing.T) {
	for _, g := range Genders {
		assert.True(t, g.Valid(), g)
	}
	assert.False(t, Gender("female").Valid())
	assert.False(t, Gender("").Valid())
}

func TestFeeAccount(t *testing.T) {
	acct := FeeAccount{TotalFee: 50000, FeeDeposited: 20000}
	assert.Equal(t, int64(30000), acct.Remaining())
	assert.False(t, acct.FullyPaid())

	acct.FeeDeposited = 50000
	assert.True(t, acct.FullyPaid())
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, "system", prefs.Theme)
	assert.Equal(t, "Accounts", prefs.DefaultTab)
}
