package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFeedingFrenzy    BookmarkType = "feeding_frenzy"
	BookmarkPlanktonCrash    BookmarkType = "plankton_crash"
	BookmarkPredatorsExtinct BookmarkType = "predators_extinct"
	BookmarkAlgaeExhausted   BookmarkType = "algae_exhausted"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	planktonPeak       int // peak plankton count since the last crash
	hadPredators       bool
	algaeExhausted     bool
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			b.RunID = stats.RunID
			bookmarks = append(bookmarks, *b)
		}
	}

	if bd.historyFull || bd.historyIdx > 0 {
		add(bd.checkFeedingFrenzy(stats))
		add(bd.checkPlanktonCrash(stats))
	}
	add(bd.checkPredatorsExtinct(stats))
	add(bd.checkAlgaeExhausted(stats))

	bd.addToHistory(stats)
	add(bd.checkStableEcosystem(stats))

	if p := plankton(stats); p > bd.planktonPeak {
		bd.planktonPeak = p
	}

	return bookmarks
}

func plankton(s WindowStats) int {
	return s.PlanktonBlue + s.PlanktonPurple
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkFeedingFrenzy(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.BitesHit
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.BitesHit) > avg*2.0 && stats.BitesHit >= 10 {
		return &Bookmark{
			Type:        BookmarkFeedingFrenzy,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d bites landed, %.1fx average (%.1f)", stats.BitesHit, float64(stats.BitesHit)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPlanktonCrash(stats WindowStats) *Bookmark {
	if bd.planktonPeak == 0 {
		return nil
	}

	now := plankton(stats)
	drop := 1.0 - float64(now)/float64(bd.planktonPeak)
	if drop > 0.30 && now < bd.planktonPeak-10 {
		// Reset peak after crash
		oldPeak := bd.planktonPeak
		bd.planktonPeak = now

		return &Bookmark{
			Type:        BookmarkPlanktonCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Plankton crashed %.0f%% from peak %d to %d", drop*100, oldPeak, now),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorsExtinct(stats WindowStats) *Bookmark {
	if stats.Predators > 0 {
		bd.hadPredators = true
		return nil
	}
	if !bd.hadPredators {
		return nil
	}
	bd.hadPredators = false
	return &Bookmark{
		Type:        BookmarkPredatorsExtinct,
		Tick:        stats.WindowEndTick,
		Description: "Last predator died",
	}
}

func (bd *BookmarkDetector) checkAlgaeExhausted(stats WindowStats) *Bookmark {
	if stats.AlgaeUnits > 0 {
		bd.algaeExhausted = false
		return nil
	}
	if bd.algaeExhausted {
		return nil
	}
	bd.algaeExhausted = true
	return &Bookmark{
		Type:        BookmarkAlgaeExhausted,
		Tick:        stats.WindowEndTick,
		Description: "No algae left in the tank",
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if plankton(stats) < 10 || stats.Prey < 2 || stats.Predators < 1 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}
	recent := history[len(history)-4:]

	var planktonN, fishN []float64
	for _, h := range recent {
		planktonN = append(planktonN, float64(plankton(h)))
		fishN = append(fishN, float64(h.Prey+h.Predators))
	}

	// Low variance: coefficient of variation < 20%
	if cv2(planktonN) < 0.04 && cv2(fishN) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d plankton, %d fish over 5+ windows", plankton(stats), stats.Prey+stats.Predators),
		}
	}
	return nil
}

// cv2 returns the squared coefficient of variation (population variance).
func cv2(x []float64) float64 {
	mean, variance := stat.PopMeanVariance(x, nil)
	if mean == 0 {
		return 0
	}
	return variance / (mean * mean)
}
