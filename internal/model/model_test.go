package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "Plain", Plain.String())
	assert.Equal(t, "OptionalWrapped", OptionalWrapped.String())
	assert.Equal(t, "RepeatedAppend", RepeatedAppend.String())
	assert.Equal(t, "Unknown", Kind(42).String())
}

func TestRecordExported(t *testing.T) {
	assert.True(t, (&Record{Name: "Command"}).Exported())
	assert.False(t, (&Record{Name: "pair"}).Exported())
}
