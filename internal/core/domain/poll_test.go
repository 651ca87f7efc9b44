package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name      string
		isActive  bool
		expiresAt *time.Time
		want      PollStatus
	}{
		{"active no expiry", true, nil, PollStatusActive},
		{"active future expiry", true, &future, PollStatusActive},
		{"inactive", false, nil, PollStatusInactive},
		{"expired wins over active", true, &past, PollStatusExpired},
		{"expired wins over inactive", false, &past, PollStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.isActive, tt.expiresAt, now))
		})
	}
}

func TestPollExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	p := &Poll{}
	assert.False(t, p.Expired(now))

	p.ExpiresAt = &past
	assert.True(t, p.Expired(now))

	// The boundary instant counts as expired.
	p.ExpiresAt = &now
	assert.True(t, p.Expired(now))
}
