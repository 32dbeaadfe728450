package game

import (
	"log/slog"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.perfCollector.Stats()

	g.lastStats = &stats

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick, g.integrator.Len()); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// census takes the end-of-window population snapshot.
func (g *Game) census() telemetry.Census {
	c := telemetry.Census{
		PlayerStars: g.stars,
		Dropped:     g.bus.Dropped(),
	}

	query := g.orgFilter.Query()
	for query.Next() {
		org, _ := query.Get()
		if !org.Alive {
			continue
		}
		e := query.Entity()
		c.Counts[org.Species]++

		switch org.Species {
		case components.SpeciesPrey, components.SpeciesPredator:
			c.FishTiers = append(c.FishTiers, float64(g.growthMap.Get(e).Tier))
		case components.SpeciesAlgae:
			c.AlgaeUnits = append(c.AlgaeUnits, float64(g.resourceMap.Get(e).Units))
		case components.SpeciesPlayer:
			c.PlayerTier = g.growthMap.Get(e).Tier
		}
	}
	return c
}
