package player

// Config holds player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	SnapshotDir      string `env:"QUEUE_SNAPSHOT_DIR" envDefault:"data/queues"`
}
