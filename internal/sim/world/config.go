package world

type WorldConfig struct {
	ID         string
	TickRateHz int

	// LightBatchSize caps lighting updates per space per tick.
	LightBatchSize int

	// Operational parameters. These are included in snapshots for deterministic replay/resume.
	SnapshotEveryTicks int
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 5
	}
	if c.LightBatchSize <= 0 {
		c.LightBatchSize = LightBatchSize
	}
	if c.SnapshotEveryTicks < 0 {
		c.SnapshotEveryTicks = 0
	}
}
