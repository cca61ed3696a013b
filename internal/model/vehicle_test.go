package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestVehicle_AgeYears(t *testing.T) {
	v := &Vehicle{FirstRegistration: date(2019, 6, 15)}

	assert.Equal(t, 5, v.AgeYears(date(2025, 6, 15)), "anniversary counts as completed year")
	assert.Equal(t, 4, v.AgeYears(date(2025, 6, 14)), "day before anniversary")
	assert.Equal(t, 5, v.AgeYears(date(2025, 12, 1)))
	assert.Equal(t, 0, v.AgeYears(date(2019, 8, 1)))
}

func TestVehicle_AgeYears_NoRegistration(t *testing.T) {
	v := &Vehicle{}
	assert.Equal(t, 0, v.AgeYears(date(2025, 1, 1)))
}

func TestVehicle_Classify_Boundaries(t *testing.T) {
	reg := date(1995, 3, 10)
	v := &Vehicle{FirstRegistration: reg}

	// One day short of 15 years: standard.
	assert.Equal(t, ClassStandard, v.Classify(date(2010, 3, 9)))
	// Exactly 15 years: youngtimer.
	assert.Equal(t, ClassYoungtimer, v.Classify(date(2010, 3, 10)))
	// Exactly 30 years: still youngtimer.
	assert.Equal(t, ClassYoungtimer, v.Classify(date(2025, 3, 10)))
	// One day past 30 years: oldtimer.
	assert.Equal(t, ClassOldtimer, v.Classify(date(2025, 3, 11)))
}

func TestVehicle_Classify_NoRegistration(t *testing.T) {
	v := &Vehicle{}
	assert.Equal(t, ClassStandard, v.Classify(date(2025, 1, 1)))
}

func TestVehicle_Summary(t *testing.T) {
	v := &Vehicle{Make: "VOLKSWAGEN", Model: "GOLF", FirstRegistration: date(2019, 6, 15)}
	assert.Equal(t, "VOLKSWAGEN GOLF (2019)", v.Summary())

	assert.Equal(t, "TESLA", (&Vehicle{Make: "TESLA"}).Summary())
	assert.Equal(t, "", (*Vehicle)(nil).Summary())
}
