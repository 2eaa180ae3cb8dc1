// Package species loads the appearance options a species offers.
package species

import (
	"errors"
	"fmt"
	"os"

	"github.com/starcheat/starcheat/pkg/player"
	"github.com/tidwall/gjson"
)

// ErrUnknownGender is returned for a gender the species does not define.
var ErrUnknownGender = errors.New("unknown gender")

// Personality is an idle stance and its matching arm stance.
type Personality struct {
	Idle    string
	ArmIdle string
}

type partOptions struct {
	group string
	types []string
}

type gender struct {
	name  string
	parts map[player.Part]partOptions
}

// Catalogue is the option set of one species.
type Catalogue struct {
	Kind          string
	genders       []gender
	personalities []Personality
}

var partKeys = map[player.Part][2]string{
	player.PartHair:       {"hairGroup", "hair"},
	player.PartFacialHair: {"facialHairGroup", "facialHair"},
	player.PartFacialMask: {"facialMaskGroup", "facialMask"},
}

// Parse decodes a species definition document.
func Parse(data []byte) (*Catalogue, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("species document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	c := &Catalogue{Kind: doc.Get("kind").String()}

	for _, g := range doc.Get("genders").Array() {
		gd := gender{name: g.Get("name").String(), parts: map[player.Part]partOptions{}}
		if gd.name == "" {
			return nil, fmt.Errorf("species %q: gender without a name", c.Kind)
		}
		for part, keys := range partKeys {
			opts := partOptions{group: g.Get(keys[0]).String()}
			for _, t := range g.Get(keys[1]).Array() {
				opts.types = append(opts.types, t.String())
			}
			gd.parts[part] = opts
		}
		c.genders = append(c.genders, gd)
	}

	for _, p := range doc.Get("personalities").Array() {
		// Entries are [idle, armIdle, headOffset, armOffset].
		c.personalities = append(c.personalities, Personality{
			Idle:    p.Get("0").String(),
			ArmIdle: p.Get("1").String(),
		})
	}
	return c, nil
}

// Load reads a species definition from disk.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Catalogue) gender(name string) (gender, error) {
	for _, g := range c.genders {
		if g.name == name {
			return g, nil
		}
	}
	return gender{}, fmt.Errorf("%w %q for species %q", ErrUnknownGender, name, c.Kind)
}

// Genders lists the defined gender names.
func (c *Catalogue) Genders() []string {
	out := make([]string, 0, len(c.genders))
	for _, g := range c.genders {
		out = append(out, g.name)
	}
	return out
}

// Groups lists the groups available for a part. A gender without a group
// for the part has none.
func (c *Catalogue) Groups(genderName string, part player.Part) ([]string, error) {
	g, err := c.gender(genderName)
	if err != nil {
		return nil, err
	}
	if opts := g.parts[part]; opts.group != "" {
		return []string{opts.group}, nil
	}
	return nil, nil
}

// Types lists the types available in a part group.
func (c *Catalogue) Types(genderName string, part player.Part, group string) ([]string, error) {
	g, err := c.gender(genderName)
	if err != nil {
		return nil, err
	}
	opts := g.parts[part]
	if opts.group != group {
		return nil, nil
	}
	return append([]string(nil), opts.types...), nil
}

// Personalities lists the selectable stances.
func (c *Catalogue) Personalities() []Personality {
	return append([]Personality(nil), c.personalities...)
}

// Personality looks up a stance by its idle name.
func (c *Catalogue) Personality(idle string) (Personality, bool) {
	for _, p := range c.personalities {
		if p.Idle == idle {
			return p, true
		}
	}
	return Personality{}, false
}

// HasChoice reports whether a selector with these options offers a real
// choice. Selectors with fewer than two options are disabled.
func HasChoice(options []string) bool {
	return len(options) >= 2
}

// Allows reports whether sel is a valid selection for part. An empty
// selection is allowed when the gender has no group for the part.
func (c *Catalogue) Allows(genderName string, part player.Part, sel player.Selection) (bool, error) {
	groups, err := c.Groups(genderName, part)
	if err != nil {
		return false, err
	}
	if len(groups) == 0 {
		return sel.Group == "" && sel.Type == "", nil
	}
	types, err := c.Types(genderName, part, sel.Group)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t == sel.Type {
			return true, nil
		}
	}
	return false, nil
}
