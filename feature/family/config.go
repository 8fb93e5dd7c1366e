package family

// Config holds the home coordinate and the presence thresholds.
type Config struct {
	// HomeLatitude is the latitude of the family home.
	HomeLatitude float64 `mapstructure:"home_latitude" default:"0"`
	// HomeLongitude is the longitude of the family home.
	HomeLongitude float64 `mapstructure:"home_longitude" default:"0"`
	// HomeRadiusDegrees is the at-home proximity in degrees, per axis.
	HomeRadiusDegrees float64 `mapstructure:"home_radius_degrees" default:"0.0001"`
	// OnlineThresholdSeconds is how recent a ping must be to count as online.
	OnlineThresholdSeconds int `mapstructure:"online_threshold_seconds" default:"300"`
}
