package favors

import (
	"fmt"
	"strings"

	"github.com/pefman/orlog-duel/internal/engine"
)

// All returns every favor in catalog order.
func All() []engine.Favor {
	return []engine.Favor{
		NewThorsStrike(),
		NewIdunnsRejuvenation(),
		NewVidarrsMight(),
		NewUllrsAim(),
		NewHeimdallsWatch(),
		NewBaldrsInvulnerability(),
		NewBrunhildsFury(),
		NewFreyrsGift(),
		NewHelsGrip(),
		NewSkadisHunt(),
		NewSkuldsClaim(),
		NewFriggsSight(),
		NewBragisVerve(),
		NewFreyjasPlenty(),
		NewLokisTrick(),
		NewMimirsWisdom(),
		NewOdinsSacrifice(),
		NewThrymrsTheft(),
		NewTyrsPledge(),
		NewVarsBond(),
	}
}

// Names lists every favor name in catalog order.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, f := range all {
		out[i] = f.Name()
	}
	return out
}

// Lookup finds a favor by name. Matching ignores case and surrounding space.
func Lookup(name string) (engine.Favor, bool) {
	want := strings.TrimSpace(name)
	for _, f := range All() {
		if strings.EqualFold(f.Name(), want) {
			return f, true
		}
	}
	return nil, false
}

// LookupAll resolves a list of names, failing on the first unknown one.
func LookupAll(names []string) ([]engine.Favor, error) {
	out := make([]engine.Favor, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown favor %q", n)
		}
		out = append(out, f)
	}
	return out, nil
}
