package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVADER_Compound(t *testing.T) {
	v := NewVADER()

	assert.Zero(t, v.Compound(""), "empty text scores zero")

	positive := v.Compound("This is a wonderful, amazing and inspiring achievement!")
	assert.Greater(t, positive, 0.5)

	negative := v.Compound("This is a terrible, horrible disaster.")
	assert.Less(t, negative, 0.0)

	neutral := v.Compound("The report has twelve pages.")
	assert.InDelta(t, 0, neutral, 0.3)
}

func TestVADER_Deterministic(t *testing.T) {
	v := NewVADER()
	text := "Volunteers planted a thousand trees and the community celebrated."
	assert.Equal(t, v.Compound(text), v.Compound(text))
}
