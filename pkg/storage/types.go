package storage

import (
	"time"

	"github.com/starcheat/starcheat/pkg/directives"
)

// Preset is a named directive string for one channel.
type Preset struct {
	Name       string
	Channel    directives.Channel
	Directives string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Change captures a committed directive change for auditing or printing.
type Change struct {
	OccurredAt time.Time

	Player  string
	Channel directives.Channel
	Before  string
	After   string
}

// DiffChannels lists the channels whose encoded directives differ
// between before and after, in channel display order.
func DiffChannels(playerName string, before, after map[directives.Channel]string) []Change {
	var out []Change
	for _, ch := range directives.Channels {
		b, a := before[ch], after[ch]
		if b == a {
			continue
		}
		out = append(out, Change{Player: playerName, Channel: ch, Before: b, After: a})
	}
	return out
}
