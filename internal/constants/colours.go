package constants

// MagicColours is every valid deck colour identity: the five single
// colours, all multi-colour combinations in WUBRG order, and colourless.
var MagicColours = []string{
	"W", "U", "B", "R", "G",
	"WU", "WB", "WR", "WG", "UB", "UR", "UG", "BR", "BG", "RG",
	"WUB", "WUR", "WUG", "WBR", "WBG", "WRG", "UBR", "UBG", "URG", "BRG",
	"WUBR", "WUBG", "WURG", "WBRG", "UBRG",
	"WUBRG",
	"colourless",
}

var magicColourSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(MagicColours))
	for _, c := range MagicColours {
		set[c] = struct{}{}
	}
	return set
}()

func IsValidColours(colours string) bool {
	_, ok := magicColourSet[colours]
	return ok
}

// WinTypes and Formats are the known descriptive values for recorded
// games. They are informational only; the rating engine ignores them.
var WinTypes = []string{
	"Elimination",
	"Concession",
	"Deck Out",
	"Infinite Combo",
	"Commander Damage",
	"Combat Damage",
	"21+ Commander",
}

var Formats = []string{
	"Commander",
	"Brawl",
	"Oathbreaker",
}
