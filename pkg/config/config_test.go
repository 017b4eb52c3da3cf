package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDur(t *testing.T) {
	t.Setenv("TEST_DUR", "")
	assert.Equal(t, 3600*time.Second, envDur("TEST_DUR", 3600)*time.Second)

	t.Setenv("TEST_DUR", "120")
	assert.Equal(t, 120*time.Second, envDur("TEST_DUR", 3600)*time.Second)
}

func TestEnvDurNonNumericFallsBack(t *testing.T) {
	// A garbled lifetime must not silently become zero; tokens would expire
	// at issue time.
	for _, v := range []string{"1h", "abc", "3600s"} {
		t.Setenv("TEST_DUR", v)
		assert.Equal(t, 3600*time.Second, envDur("TEST_DUR", 3600)*time.Second, "value %q", v)
	}
}
