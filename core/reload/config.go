package reload

// Config holds the shaper reload action.
type Config struct {
	// Command runs after a cycle that wrote new files. Empty disables it.
	Command string `mapstructure:"command" default:""`
	// TimeoutSeconds bounds the command.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
