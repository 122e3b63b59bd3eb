package ratelimit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledAlwaysAllows(t *testing.T) {
	l := New(nil, nil, true)
	d, err := l.Allow(context.Background(), httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLocalFallbackEnforcesBurst(t *testing.T) {
	rules := []Rule{{Name: "default", Match: RuleMatch{UseIP: true}, Limit: 2, Period: 2000 * time.Second}}
	l := New(rules, nil, false)

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "1.2.3.4:5555"

	allowedCount := 0
	for i := 0; i < 5; i++ {
		d, err := l.Allow(context.Background(), r)
		require.NoError(t, err)
		if d.Allowed {
			allowedCount++
		}
	}
	assert.Equal(t, 2, allowedCount)
}

func TestLocalFallbackIsolatesKeys(t *testing.T) {
	rules := []Rule{{Name: "default", Match: RuleMatch{UseIP: true}, Limit: 1, Period: 1000 * time.Second}}
	l := New(rules, nil, false)

	ra := httptest.NewRequest("GET", "/", nil)
	ra.RemoteAddr = "1.2.3.4:1111"
	d1, err := l.Allow(context.Background(), ra)
	require.NoError(t, err)
	assert.True(t, d1.Allowed)

	rb := httptest.NewRequest("GET", "/", nil)
	rb.RemoteAddr = "5.6.7.8:2222"
	d2, err := l.Allow(context.Background(), rb)
	require.NoError(t, err)
	assert.True(t, d2.Allowed)
}

func TestMatchRuleFallsBackToDefault(t *testing.T) {
	l := New(nil, nil, false)
	rule := l.matchRule(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, "default", rule.Name)
}

func TestMatchRulePrefersHeaderOverIPWhenPresent(t *testing.T) {
	rules := []Rule{
		{Name: "by-user", Match: RuleMatch{Header: "X-User-Id"}, Limit: 10, Period: time.Minute},
		{Name: "by-ip", Match: RuleMatch{UseIP: true}, Limit: 60, Period: time.Minute},
	}
	l := New(rules, nil, false)

	withHeader := httptest.NewRequest("GET", "/", nil)
	withHeader.Header.Set("X-User-Id", "user-1")
	assert.Equal(t, "by-user", l.matchRule(withHeader).Name)

	withoutHeader := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "by-ip", l.matchRule(withoutHeader).Name)
}
