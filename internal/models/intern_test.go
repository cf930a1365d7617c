package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodEnded(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

	assert.True(t, Intern{PeriodEnd: "2026-08-29"}.PeriodEnded(now))
	assert.False(t, Intern{PeriodEnd: "2026-08-30"}.PeriodEnded(now), "the last day still counts as ongoing")
	assert.False(t, Intern{PeriodEnd: "2026-09-01"}.PeriodEnded(now))
	assert.False(t, Intern{PeriodEnd: "soon"}.PeriodEnded(now), "unparsable dates count as not ended")
	assert.False(t, Intern{}.PeriodEnded(now))
}

func TestInternStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusAlumni.Valid())
	assert.False(t, InternStatus("retired").Valid())
	assert.False(t, InternStatus("").Valid())
}

func TestMentorSanitized(t *testing.T) {
	mentor := Mentor{ID: "m1", Name: "Budi", PasswordHash: "hash"}
	clean := mentor.Sanitized()
	assert.Empty(t, clean.PasswordHash)
	assert.Equal(t, "hash", mentor.PasswordHash, "the original is untouched")
}
