package state

import (
	"fmt"
	"io"
	"strings"
)

// WriteSummary writes a plain-text summary of snap.
func WriteSummary(w io.Writer, snap Snapshot) {
	fmt.Fprintf(w, "Night sky @ %dx%d after %d ticks (%.2fs simulated)\n",
		snap.Width, snap.Height, snap.Ticks, snap.Elapsed)
	fmt.Fprintln(w, strings.Repeat("─", 48))
	fmt.Fprintf(w, "%-22s %d\n", "Ambient stars", snap.Stars)
	fmt.Fprintf(w, "%-22s %d\n", "Shooting stars now", snap.Meteors)
	fmt.Fprintf(w, "%-22s %d\n", "Shooting stars spawned", snap.Spawned)
	fmt.Fprintf(w, "%-22s %d\n", "Shooting stars faded", snap.Expired)
	fmt.Fprintf(w, "%-22s %d\n", "Star field generations", snap.Regenerations)
}

// WriteEvents writes up to the last n events, oldest first.
func WriteEvents(w io.Writer, events []Event, n int) {
	fmt.Fprintln(w, "Recent events")
	fmt.Fprintln(w, strings.Repeat("─", 48))

	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}

	for _, e := range events {
		switch e.Type {
		case EventRegenerated:
			fmt.Fprintf(w, "tick %-6d %-13s %d stars at %dx%d\n", e.Tick, e.Type, e.Stars, e.Width, e.Height)
		default:
			fmt.Fprintf(w, "tick %-6d %-13s at (%.0f, %.0f) lifetime %d\n", e.Tick, e.Type, e.X, e.Y, e.MaxAge)
		}
	}
}
