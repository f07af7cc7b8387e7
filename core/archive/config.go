package archive

// Config holds snapshot archiving settings.
type Config struct {
	// Enabled uploads the inventory and topology after every dirty cycle.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object key prefix snapshots are stored under.
	Prefix string `mapstructure:"prefix" default:"snapshots"`
	// Keep is the number of newest snapshots retained. Zero keeps all.
	Keep int `mapstructure:"keep" default:"48"`
}
