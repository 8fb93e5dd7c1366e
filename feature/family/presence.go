package family

import (
	"math"
	"time"

	"family-sync/core/model"
)

// StatusKind is the derived presence state of a member.
type StatusKind string

const (
	StatusOnline  StatusKind = "online"
	StatusOffline StatusKind = "offline"
	StatusAtHome  StatusKind = "atHome"
)

// Status is computed at read time from a presence row; it is never stored.
type Status struct {
	Kind StatusKind `json:"kind"`
	// Since is the last-online timestamp, set for offline members only.
	Since string `json:"since,omitempty"`
}

// DeriveStatus applies the presence rule to one row. Being at home wins
// over the time-based online/offline split; a member pinging from home is
// atHome even if the ping is old.
func DeriveStatus(st model.PresenceStatus, cfg Config, now time.Time) Status {
	if withinHome(st.Position, cfg) {
		return Status{Kind: StatusAtHome}
	}

	last, err := model.ParseTime(st.LastOnline)
	if err != nil {
		// Unreadable timestamp reads as offline since forever.
		return Status{Kind: StatusOffline}
	}

	threshold := time.Duration(cfg.OnlineThresholdSeconds) * time.Second
	if now.Sub(last) <= threshold {
		return Status{Kind: StatusOnline}
	}
	return Status{Kind: StatusOffline, Since: st.LastOnline}
}

func withinHome(pos model.Position, cfg Config) bool {
	return math.Abs(pos.Latitude-cfg.HomeLatitude) <= cfg.HomeRadiusDegrees &&
		math.Abs(pos.Longitude-cfg.HomeLongitude) <= cfg.HomeRadiusDegrees
}
