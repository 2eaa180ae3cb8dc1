package appearance

import (
	"errors"
	"testing"

	"github.com/starcheat/starcheat/pkg/directives"
	"github.com/starcheat/starcheat/pkg/player"
	"github.com/starcheat/starcheat/pkg/species"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const doc = `{
  "identity": {
    "name": "Nova",
    "species": "human",
    "gender": "female",
    "hairGroup": "hair",
    "hairType": "female1",
    "personalityIdle": "idle.1",
    "personalityArmIdle": "idle.1",
    "bodyDirectives": "?replace;ffe2c5=ffc181;ffd9b1=d39c6c?replace;000000=111111",
    "emoteDirectives": "?replace;ffe2c5=ffc181",
    "hairDirectives": "?replace;d9c189=a38d59?hueshift=20",
    "facialHairDirectives": "",
    "facialMaskDirectives": "",
    "color": [10, 20, 30, 255]
  }
}`

const catalogueDoc = `{
  "kind": "human",
  "genders": [
    {"name": "female", "hairGroup": "hair", "hair": ["female1", "female2"]}
  ],
  "personalities": [["idle.1", "idle.1"], ["idle.4", "arm.4"]]
}`

func newSession(t *testing.T, withCatalogue bool) (*player.Player, *Session) {
	t.Helper()
	p, err := player.Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	var cat *species.Catalogue
	if withCatalogue {
		if cat, err = species.Parse([]byte(catalogueDoc)); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewSession(p, cat)
	if err != nil {
		t.Fatal(err)
	}
	return p, s
}

func TestChannelsAreIndependent(t *testing.T) {
	_, s := newSession(t, false)
	body, _ := s.Store(directives.Body)
	emote, _ := s.Store(directives.Emote)
	if body.RowCount() != 3 || emote.RowCount() != 1 {
		t.Fatalf("unexpected row counts body=%d emote=%d", body.RowCount(), emote.RowCount())
	}
	body.RemoveByValue("ffe2c5", "ffc181")
	if emote.RowCount() != 1 {
		t.Fatalf("edit leaked into another channel")
	}
	if s.Editable(directives.FacialHair) {
		t.Fatal("a channel without groups should not be editable")
	}
	if !s.Editable(directives.Hair) {
		t.Fatal("hair should be editable")
	}
}

func TestCommitWritesPlayer(t *testing.T) {
	p, s := newSession(t, false)
	body, _ := s.Store(directives.Body)
	if err := body.AddDefaultPair(); err != nil {
		t.Fatal(err)
	}
	if err := body.EditPairAt(3, "ABCDEF", directives.To); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFavoriteColor(player.RGB{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if p.Directives(directives.Body) != "?replace;ffe2c5=ffc181;ffd9b1=d39c6c?replace;000000=111111" {
		t.Fatal("player changed before commit")
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	want := "?replace;ffffff=ffffff;ffe2c5=ffc181;ffd9b1=d39c6c?replace;000000=abcdef"
	if got := p.Directives(directives.Body); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := p.Directives(directives.Hair); got != "?replace;d9c189=a38d59?hueshift=20" {
		t.Fatalf("hair directives not preserved: %q", got)
	}
	if p.FavoriteColor() != (player.RGB{1, 2, 3}) {
		t.Fatalf("favorite color not written: %v", p.FavoriteColor())
	}
}

func TestCancelLeavesPlayerUntouched(t *testing.T) {
	p, s := newSession(t, false)
	before := string(p.Bytes())
	hair, _ := s.Store(directives.Hair)
	hair.RemoveByValue("d9c189", "a38d59")
	s.Cancel()
	if string(p.Bytes()) != before {
		t.Fatal("player changed after cancel")
	}
	if err := s.Commit(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := s.Store(directives.Hair); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSetPartWithCatalogue(t *testing.T) {
	p, s := newSession(t, true)
	if err := s.SetPart(player.PartHair, player.Selection{Group: "hair", Type: "female2"}); err != nil {
		t.Fatal(err)
	}
	err := s.SetPart(player.PartHair, player.Selection{Group: "hair", Type: "male1"})
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if err := s.SetPersonality("idle.4"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPersonality("idle.9"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := p.Part(player.PartHair); got.Type != "female2" {
		t.Fatalf("hair type not written: %+v", got)
	}
	if p.Personality() != "idle.4" {
		t.Fatalf("personality not written: %q", p.Personality())
	}
}

func TestReplaceChannel(t *testing.T) {
	_, s := newSession(t, false)
	if err := s.Replace(directives.FacialMask, "?replace;123456=654321"); err != nil {
		t.Fatal(err)
	}
	if !s.Editable(directives.FacialMask) {
		t.Fatal("facial mask should be editable after replace")
	}
	if err := s.Replace(directives.FacialMask, "?replace;broken"); err == nil {
		t.Fatal("expected parse error")
	}
	enc, _ := s.Encoded(directives.FacialMask)
	if enc != "?replace;123456=654321" {
		t.Fatalf("failed replace changed the channel: %q", enc)
	}
}

const sparseDoc = `{
  "identity": {
    "name": "Nova",
    "gender": "female",
    "hairGroup": "hair",
    "hairType": "female1",
    "bodyDirectives": "?hueshift=20?replace;aabbcc=ddeeff",
    "hairDirectives": "?replace;d9c189=a38d59?brightness=-10?replace;000000=111111"
  },
  "inventory": {"pixels": 120}
}`

func TestPartOnlyCommitKeepsDocument(t *testing.T) {
	p, err := player.Parse([]byte(sparseDoc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetPart(player.PartHair, player.Selection{Group: "hair", Type: "female2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	want, err := sjson.SetBytes([]byte(sparseDoc), "identity.hairType", "female2")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Bytes(); string(got) != string(want) {
		t.Fatalf("document changed beyond the hair type:\n%s", got)
	}
	for _, path := range []string{"identity.color", "identity.facialHairGroup", "identity.personalityIdle", "identity.emoteDirectives"} {
		if gjson.GetBytes(p.Bytes(), path).Exists() {
			t.Errorf("commit created %s", path)
		}
	}
}

func TestCommitWithoutChanges(t *testing.T) {
	p, s := newSession(t, true)
	body, _ := s.Store(directives.Body)
	body.GetColors()
	if _, err := s.Encoded(directives.Hair); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPart(player.PartHair, player.Selection{Group: "hair", Type: "female1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if string(p.Bytes()) != doc {
		t.Fatalf("commit without changes rewrote the document:\n%s", p.Bytes())
	}
}

func TestEditedChannelKeepsOpOrder(t *testing.T) {
	p, err := player.Parse([]byte(sparseDoc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	hair, _ := s.Store(directives.Hair)
	if err := hair.EditPairAt(1, "222222", directives.To); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := p.Directives(directives.Hair); got != "?replace;d9c189=a38d59?brightness=-10?replace;000000=222222" {
		t.Fatalf("unexpected hair directives %q", got)
	}
	if got := p.Directives(directives.Body); got != "?hueshift=20?replace;aabbcc=ddeeff" {
		t.Fatalf("body directives rewritten: %q", got)
	}
}

func TestSetFavoriteColorOnDocumentWithoutColor(t *testing.T) {
	p, err := player.Parse([]byte(sparseDoc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetFavoriteColor(player.RGB{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(p.Bytes(), "identity.color").Raw; got != "[0,0,0,255]" {
		t.Fatalf("explicit black not written: %s", got)
	}
}
