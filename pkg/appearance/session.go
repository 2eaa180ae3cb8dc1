// Package appearance is the editing session for a player's looks.
//
// A Session decodes every color channel of a player into its own
// directives.Store, collects part, personality and color changes, and
// writes everything back to the player only on Commit. Cancel drops the
// in-memory state and leaves the player as it was. Commit writes only the
// values that changed since the session was opened.
package appearance

import (
	"errors"
	"fmt"

	"github.com/starcheat/starcheat/internal/utils"
	"github.com/starcheat/starcheat/pkg/directives"
	"github.com/starcheat/starcheat/pkg/player"
	"github.com/starcheat/starcheat/pkg/species"
)

var (
	// ErrClosed is returned by any call on a cancelled session.
	ErrClosed = errors.New("appearance session is closed")
	// ErrNotAllowed is returned when the species does not offer a value.
	ErrNotAllowed = errors.New("not offered by species")
)

type channelState struct {
	store    *directives.Store
	extra    []directives.Op
	original string
	replaced bool
}

// dirty reports whether the channel must be re-encoded on commit.
func (c *channelState) dirty() bool {
	return c.replaced || c.store.Modified()
}

// values is the part of the appearance that is not a directive string.
type values struct {
	parts       map[player.Part]player.Selection
	personality species.Personality
	color       player.RGB
}

func (v values) clone() values {
	parts := make(map[player.Part]player.Selection, len(v.parts))
	for k, sel := range v.parts {
		parts[k] = sel
	}
	v.parts = parts
	return v
}

// Session holds the pending appearance of one player.
type Session struct {
	player    *player.Player
	catalogue *species.Catalogue

	channels map[directives.Channel]*channelState
	pending  values
	loaded   values
	colorSet bool
	closed   bool
}

// NewSession decodes the appearance of p. catalogue may be nil, in which
// case part and personality values are not checked.
func NewSession(p *player.Player, catalogue *species.Catalogue) (*Session, error) {
	s := &Session{
		player:    p,
		catalogue: catalogue,
		channels:  make(map[directives.Channel]*channelState, len(directives.Channels)),
	}
	s.loaded.parts = make(map[player.Part]player.Selection, len(player.Parts))
	s.loaded.color = p.FavoriteColor()
	for _, ch := range directives.Channels {
		raw := p.Directives(ch)
		d, err := directives.ParseDirectives(raw)
		if err != nil {
			return nil, fmt.Errorf("%s directives: %w", ch, err)
		}
		s.channels[ch] = &channelState{
			store:    directives.NewStore(d.Groups),
			extra:    d.Extra,
			original: raw,
		}
		utils.Log.Debugf("[appearance] %s: %d groups, %d rows", ch, len(d.Groups), d.Groups.Len())
	}
	for _, part := range player.Parts {
		s.loaded.parts[part] = p.Part(part)
	}
	s.loaded.personality.Idle = p.Personality()
	s.pending = s.loaded.clone()
	return s, nil
}

func (s *Session) channel(ch directives.Channel) (*channelState, error) {
	if s.closed {
		return nil, ErrClosed
	}
	c, ok := s.channels[ch]
	if !ok {
		return nil, fmt.Errorf("unknown channel %q", ch)
	}
	return c, nil
}

// Store returns the directive store of a channel.
func (s *Session) Store(ch directives.Channel) (*directives.Store, error) {
	c, err := s.channel(ch)
	if err != nil {
		return nil, err
	}
	return c.store, nil
}

// Editable reports whether a channel has any directive group to edit.
// Channels without groups cannot take new pairs.
func (s *Session) Editable(ch directives.Channel) bool {
	c, err := s.channel(ch)
	if err != nil {
		return false
	}
	return !c.store.Empty()
}

// Encoded returns the directive string a channel would be saved as. A
// channel that was never edited keeps its original string.
func (s *Session) Encoded(ch directives.Channel) (string, error) {
	c, err := s.channel(ch)
	if err != nil {
		return "", err
	}
	if !c.dirty() {
		return c.original, nil
	}
	d := directives.Directives{Groups: c.store.GetColors(), Extra: c.extra}
	return d.String(), nil
}

// Original returns the directive strings the session started from.
func (s *Session) Original() map[directives.Channel]string {
	out := make(map[directives.Channel]string, len(s.channels))
	for ch, c := range s.channels {
		out[ch] = c.original
	}
	return out
}

// Replace swaps the whole directive set of a channel, e.g. when applying
// a preset.
func (s *Session) Replace(ch directives.Channel, encoded string) error {
	c, err := s.channel(ch)
	if err != nil {
		return err
	}
	d, err := directives.ParseDirectives(encoded)
	if err != nil {
		return fmt.Errorf("%s directives: %w", ch, err)
	}
	c.store = directives.NewStore(d.Groups)
	c.extra = d.Extra
	c.replaced = encoded != c.original
	return nil
}

// Part returns the pending selection for a part.
func (s *Session) Part(part player.Part) player.Selection {
	return s.pending.parts[part]
}

// SetPart changes the pending selection for a part.
func (s *Session) SetPart(part player.Part, sel player.Selection) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.pending.parts[part]; !ok {
		return fmt.Errorf("unknown part %q", part)
	}
	if s.catalogue != nil {
		ok, err := s.catalogue.Allows(s.player.Gender(), part, sel)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s %s/%s: %w", part, sel.Group, sel.Type, ErrNotAllowed)
		}
	}
	s.pending.parts[part] = sel
	return nil
}

// Personality returns the pending idle stance.
func (s *Session) Personality() string {
	return s.pending.personality.Idle
}

// SetPersonality changes the pending idle stance. With a catalogue the
// arm stance is taken from the species definition.
func (s *Session) SetPersonality(idle string) error {
	if s.closed {
		return ErrClosed
	}
	if s.catalogue == nil {
		s.pending.personality = species.Personality{Idle: idle}
		return nil
	}
	p, ok := s.catalogue.Personality(idle)
	if !ok {
		return fmt.Errorf("personality %q: %w", idle, ErrNotAllowed)
	}
	s.pending.personality = p
	return nil
}

// FavoriteColor returns the pending favorite color.
func (s *Session) FavoriteColor() player.RGB {
	return s.pending.color
}

// SetFavoriteColor changes the pending favorite color.
func (s *Session) SetFavoriteColor(c player.RGB) error {
	if s.closed {
		return ErrClosed
	}
	s.pending.color = c
	s.colorSet = true
	return nil
}

// Commit writes the pending appearance to the player. Only values that
// differ from what the session loaded are written, and channels that were
// never edited keep their original directive strings. The session stays
// open, so further edits can be committed again.
func (s *Session) Commit() error {
	if s.closed {
		return ErrClosed
	}
	// Stage on a copy so a failing write leaves the player untouched.
	staged := s.player.Clone()
	for _, part := range player.Parts {
		if s.pending.parts[part] == s.loaded.parts[part] {
			continue
		}
		if err := staged.SetPart(part, s.pending.parts[part]); err != nil {
			return err
		}
	}
	if s.pending.personality != s.loaded.personality {
		if err := staged.SetPersonality(s.pending.personality.Idle, s.pending.personality.ArmIdle); err != nil {
			return err
		}
	}
	for _, ch := range directives.Channels {
		if !s.channels[ch].dirty() {
			continue
		}
		enc, err := s.Encoded(ch)
		if err != nil {
			return err
		}
		if err := staged.SetDirectives(ch, enc); err != nil {
			return err
		}
	}
	if s.colorSet && (s.pending.color != s.loaded.color || !staged.HasFavoriteColor()) {
		if err := staged.SetFavoriteColor(s.pending.color); err != nil {
			return err
		}
	}
	*s.player = *staged
	s.loaded = s.pending.clone()
	s.colorSet = false
	utils.Log.Debugf("[appearance] committed appearance for %s", s.player.Name())
	return nil
}

// Cancel discards every pending change.
func (s *Session) Cancel() {
	s.closed = true
	s.channels = nil
	utils.Log.Debug("[appearance] session cancelled")
}
