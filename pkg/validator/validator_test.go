package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValid(t *testing.T) {
	v := New()

	valid := []string{
		"jane@example.com",
		"jane.doe+tag@sub.example.co.uk",
		"JANE@EXAMPLE.COM",
	}
	for _, email := range valid {
		assert.True(t, v.EmailValid(email), email)
	}

	invalid := []string{
		"",
		"jane",
		"jane@",
		"@example.com",
		"jane@example",
		"jane@example.c",
		"jane doe@example.com",
	}
	for _, email := range invalid {
		assert.False(t, v.EmailValid(email), email)
	}
}

func TestVarRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("secret1", "min=6"))
	assert.Error(t, v.Var("short", "min=6"))
	assert.NoError(t, v.Var("jane@example.com", "email"))
	assert.Error(t, v.Var("jane@example", "email"))
}
