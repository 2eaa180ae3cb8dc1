// Package player reads and writes the appearance fields of a player
// document.
//
// The document is kept as raw JSON. Reads go through gjson and writes
// through sjson, so fields this package does not know about are
// preserved byte for byte.
package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starcheat/starcheat/pkg/directives"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNoIdentity is returned when a document has no identity object.
var ErrNoIdentity = errors.New("player document has no identity object")

// Paths of the appearance fields inside the player document.
const (
	pathSpecies         = "identity.species"
	pathGender          = "identity.gender"
	pathName            = "identity.name"
	pathHairGroup       = "identity.hairGroup"
	pathHairType        = "identity.hairType"
	pathFacialHairGroup = "identity.facialHairGroup"
	pathFacialHairType  = "identity.facialHairType"
	pathFacialMaskGroup = "identity.facialMaskGroup"
	pathFacialMaskType  = "identity.facialMaskType"
	pathPersonalityIdle = "identity.personalityIdle"
	pathPersonalityArm  = "identity.personalityArmIdle"
	pathColor           = "identity.color"
)

var directivePaths = map[directives.Channel]string{
	directives.Body:       "identity.bodyDirectives",
	directives.Emote:      "identity.emoteDirectives",
	directives.Hair:       "identity.hairDirectives",
	directives.FacialHair: "identity.facialHairDirectives",
	directives.FacialMask: "identity.facialMaskDirectives",
}

// Part is a selectable body part with a group and a type.
type Part string

const (
	PartHair       Part = "hair"
	PartFacialHair Part = "facial_hair"
	PartFacialMask Part = "facial_mask"
)

// Parts lists every selectable part.
var Parts = []Part{PartHair, PartFacialHair, PartFacialMask}

var partPaths = map[Part][2]string{
	PartHair:       {pathHairGroup, pathHairType},
	PartFacialHair: {pathFacialHairGroup, pathFacialHairType},
	PartFacialMask: {pathFacialMaskGroup, pathFacialMaskType},
}

// Selection is a (group, type) choice for a Part.
type Selection struct {
	Group string
	Type  string
}

// Player is an in-memory player document.
type Player struct {
	raw []byte
}

// Parse wraps a JSON player document.
func Parse(data []byte) (*Player, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("player document is not valid JSON")
	}
	if !gjson.GetBytes(data, "identity").IsObject() {
		return nil, ErrNoIdentity
	}
	return &Player{raw: append([]byte(nil), data...)}, nil
}

// Load reads a player document from disk.
func Load(path string) (*Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Bytes returns the current document.
func (p *Player) Bytes() []byte {
	return append([]byte(nil), p.raw...)
}

// Clone returns an independent copy of p.
func (p *Player) Clone() *Player {
	return &Player{raw: p.Bytes()}
}

// Save writes the document to path through a temporary file in the same
// directory, so a failed write never truncates the original.
func (p *Player) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(p.raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (p *Player) str(path string) string {
	return gjson.GetBytes(p.raw, path).String()
}

func (p *Player) set(path string, v interface{}) error {
	out, err := sjson.SetBytes(p.raw, path, v)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	p.raw = out
	return nil
}

// setString writes a string field unless the document already holds v.
// An absent field is not created for an empty value.
func (p *Player) setString(path, v string) error {
	cur := gjson.GetBytes(p.raw, path)
	if cur.Exists() && cur.Type == gjson.String && cur.Str == v {
		return nil
	}
	if !cur.Exists() && v == "" {
		return nil
	}
	return p.set(path, v)
}

func (p *Player) Name() string    { return p.str(pathName) }
func (p *Player) Species() string { return p.str(pathSpecies) }
func (p *Player) Gender() string  { return p.str(pathGender) }

// Directives returns the raw directive string of a channel.
func (p *Player) Directives(ch directives.Channel) string {
	path, ok := directivePaths[ch]
	if !ok {
		return ""
	}
	return p.str(path)
}

// SetDirectives replaces the directive string of a channel.
func (p *Player) SetDirectives(ch directives.Channel, s string) error {
	path, ok := directivePaths[ch]
	if !ok {
		return fmt.Errorf("unknown channel %q", ch)
	}
	return p.setString(path, s)
}

// Part returns the current selection for a part.
func (p *Player) Part(part Part) Selection {
	paths, ok := partPaths[part]
	if !ok {
		return Selection{}
	}
	return Selection{Group: p.str(paths[0]), Type: p.str(paths[1])}
}

// SetPart writes a part selection.
func (p *Player) SetPart(part Part, sel Selection) error {
	paths, ok := partPaths[part]
	if !ok {
		return fmt.Errorf("unknown part %q", part)
	}
	if err := p.setString(paths[0], sel.Group); err != nil {
		return err
	}
	return p.setString(paths[1], sel.Type)
}

// Personality is the idle stance name. The arm stance is kept in step.
func (p *Player) Personality() string {
	return p.str(pathPersonalityIdle)
}

// SetPersonality writes the idle stance and, when the document already
// carries one, the matching arm stance.
func (p *Player) SetPersonality(idle, armIdle string) error {
	if err := p.setString(pathPersonalityIdle, idle); err != nil {
		return err
	}
	if armIdle == "" {
		return nil
	}
	return p.setString(pathPersonalityArm, armIdle)
}

// RGB is an 8-bit color.
type RGB [3]uint8

// FavoriteColor is identity.color without its alpha component.
func (p *Player) FavoriteColor() RGB {
	var c RGB
	for i, v := range gjson.GetBytes(p.raw, pathColor).Array() {
		if i >= len(c) {
			break
		}
		c[i] = uint8(v.Uint())
	}
	return c
}

// HasFavoriteColor reports whether the document carries identity.color.
func (p *Player) HasFavoriteColor() bool {
	return gjson.GetBytes(p.raw, pathColor).IsArray()
}

// SetFavoriteColor writes identity.color, keeping any existing alpha.
func (p *Player) SetFavoriteColor(c RGB) error {
	alpha := 255
	if a := gjson.GetBytes(p.raw, pathColor+".3"); a.Exists() {
		alpha = int(a.Int())
	}
	return p.set(pathColor, []int{int(c[0]), int(c[1]), int(c[2]), alpha})
}

// Hex renders c as a lower-case 6-digit hex string.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c[0], c[1], c[2])
}

// ParseRGB parses a 6-digit hex color, with or without a leading '#'.
func ParseRGB(s string) (RGB, error) {
	h := directives.NormalizeHex(s)
	if !h.Valid() {
		return RGB{}, fmt.Errorf("invalid hex color %q: must be 6 hex digits", s)
	}
	var c RGB
	if _, err := fmt.Sscanf(string(h), "%02x%02x%02x", &c[0], &c[1], &c[2]); err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}
