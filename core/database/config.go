package database

// Config holds configuration for the cache database.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the sqlite database file (":memory:" for an in-memory cache).
	Path string `mapstructure:"path" default:"family-sync.db"`
	// Host is the mysql host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the mysql port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the mysql user.
	User string `mapstructure:"user" default:"root"`
	// Password is the mysql password.
	Password string `mapstructure:"password" default:""`
	// Name is the mysql database name.
	Name string `mapstructure:"name" default:"familysync"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
