package family

import (
	"testing"
	"time"

	"family-sync/core/model"

	"github.com/stretchr/testify/assert"
)

func presenceConfig() Config {
	return Config{
		HomeLatitude:           55.7558,
		HomeLongitude:          37.6173,
		HomeRadiusDegrees:      0.0001,
		OnlineThresholdSeconds: 300,
	}
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	cfg := presenceConfig()
	farAway := model.Position{Latitude: 48.8566, Longitude: 2.3522}

	tests := []struct {
		name   string
		status model.PresenceStatus
		want   StatusKind
	}{
		{
			name: "recent ping far from home is online",
			status: model.PresenceStatus{
				LastOnline: model.FormatTime(now.Add(-10 * time.Second)),
				Position:   farAway,
			},
			want: StatusOnline,
		},
		{
			name: "ping just over the threshold is offline",
			status: model.PresenceStatus{
				LastOnline: model.FormatTime(now.Add(-301 * time.Second)),
				Position:   farAway,
			},
			want: StatusOffline,
		},
		{
			name: "ping exactly at the threshold is still online",
			status: model.PresenceStatus{
				LastOnline: model.FormatTime(now.Add(-300 * time.Second)),
				Position:   farAway,
			},
			want: StatusOnline,
		},
		{
			name: "stale ping from home is atHome, not offline",
			status: model.PresenceStatus{
				LastOnline: model.FormatTime(now.Add(-2 * time.Hour)),
				Position:   model.Position{Latitude: 55.75585, Longitude: 37.61735},
			},
			want: StatusAtHome,
		},
		{
			name: "just outside the home radius falls back to the time rule",
			status: model.PresenceStatus{
				LastOnline: model.FormatTime(now.Add(-2 * time.Hour)),
				Position:   model.Position{Latitude: 55.7560, Longitude: 37.6173},
			},
			want: StatusOffline,
		},
		{
			name: "unreadable timestamp is offline",
			status: model.PresenceStatus{
				LastOnline: "yesterday",
				Position:   farAway,
			},
			want: StatusOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.status, cfg, now)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestDeriveStatusOfflineCarriesSince(t *testing.T) {
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	last := model.FormatTime(now.Add(-time.Hour))

	got := DeriveStatus(model.PresenceStatus{
		LastOnline: last,
		Position:   model.Position{Latitude: 48.8566, Longitude: 2.3522},
	}, presenceConfig(), now)

	assert.Equal(t, StatusOffline, got.Kind)
	assert.Equal(t, last, got.Since)
}
