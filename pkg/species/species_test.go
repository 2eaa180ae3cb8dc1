package species

import (
	"errors"
	"reflect"
	"testing"

	"github.com/starcheat/starcheat/pkg/player"
)

const human = `{
  "kind": "human",
  "genders": [
    {"name": "male", "hairGroup": "hair", "hair": ["male1", "male2"],
     "facialHairGroup": "beard", "facialHair": ["1"],
     "facialMaskGroup": "", "facialMask": []},
    {"name": "female", "hairGroup": "hair", "hair": ["female1", "female2", "female3"],
     "facialHairGroup": "", "facialHair": []}
  ],
  "personalities": [
    ["idle.1", "idle.1", [0, 0], [0, 0]],
    ["idle.2", "idle.2", [0, 0], [0, 0]]
  ]
}`

func mustParse(t *testing.T) *Catalogue {
	t.Helper()
	c, err := Parse([]byte(human))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestGroupsAndTypes(t *testing.T) {
	c := mustParse(t)
	if got := c.Genders(); !reflect.DeepEqual(got, []string{"male", "female"}) {
		t.Fatalf("unexpected genders %v", got)
	}
	groups, err := c.Groups("female", player.PartHair)
	if err != nil || !reflect.DeepEqual(groups, []string{"hair"}) {
		t.Fatalf("got %v, %v", groups, err)
	}
	types, _ := c.Types("female", player.PartHair, "hair")
	if len(types) != 3 || !HasChoice(types) {
		t.Fatalf("unexpected hair types %v", types)
	}
	beard, _ := c.Types("male", player.PartFacialHair, "beard")
	if HasChoice(beard) {
		t.Fatalf("a single beard option should not be a choice: %v", beard)
	}
	if groups, _ := c.Groups("female", player.PartFacialHair); len(groups) != 0 {
		t.Fatalf("expected no facial hair groups, got %v", groups)
	}
	if _, err := c.Groups("other", player.PartHair); !errors.Is(err, ErrUnknownGender) {
		t.Fatalf("expected ErrUnknownGender, got %v", err)
	}
}

func TestAllows(t *testing.T) {
	c := mustParse(t)
	tests := []struct {
		name   string
		gender string
		part   player.Part
		sel    player.Selection
		want   bool
	}{
		{"known hair", "female", player.PartHair, player.Selection{Group: "hair", Type: "female2"}, true},
		{"wrong gender hair", "female", player.PartHair, player.Selection{Group: "hair", Type: "male1"}, false},
		{"no group empty", "female", player.PartFacialMask, player.Selection{}, true},
		{"no group set", "female", player.PartFacialMask, player.Selection{Group: "x", Type: "y"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Allows(tt.gender, tt.part, tt.sel)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestPersonalities(t *testing.T) {
	c := mustParse(t)
	if len(c.Personalities()) != 2 {
		t.Fatalf("expected 2 personalities, got %v", c.Personalities())
	}
	p, ok := c.Personality("idle.2")
	if !ok || p.ArmIdle != "idle.2" {
		t.Fatalf("got %+v, %v", p, ok)
	}
	if _, ok := c.Personality("idle.9"); ok {
		t.Fatal("expected unknown personality to be missing")
	}
}

func TestParseGenderWithoutName(t *testing.T) {
	if _, err := Parse([]byte(`{"kind":"x","genders":[{"hair":[]}]}`)); err == nil {
		t.Fatal("expected error for unnamed gender")
	}
}
