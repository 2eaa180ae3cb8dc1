package directives

import (
	"fmt"
	"strings"
)

// Channel is one independently edited color category.
type Channel string

const (
	Body       Channel = "body"
	Emote      Channel = "emote"
	Hair       Channel = "hair"
	FacialHair Channel = "facial_hair"
	FacialMask Channel = "facial_mask"
)

// Channels lists every channel in display order.
var Channels = []Channel{Body, Emote, Hair, FacialHair, FacialMask}

// ParseChannel accepts a channel name, also with '-' instead of '_'.
func ParseChannel(s string) (Channel, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, c := range Channels {
		if string(c) == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}
