package effects

import (
	"fmt"
	"strings"
)

// Keyword is a static ability printed on a card.
type Keyword string

const (
	KeywordFearsome       Keyword = "FEARSOME"
	KeywordFrenzy         Keyword = "FRENZY"
	KeywordEvasion        Keyword = "EVASION"
	KeywordTrample        Keyword = "TRAMPLE"
	KeywordSentinel       Keyword = "SENTINEL"
	KeywordHeal           Keyword = "HEAL"
	KeywordGuardian       Keyword = "GUARDIAN"
	KeywordIndestructible Keyword = "INDESTRUCTIBLE"
	KeywordAmbush         Keyword = "AMBUSH"
	KeywordErosion        Keyword = "EROSION"
	KeywordTheft          Keyword = "THEFT"
)

// keywordAliases maps both the canonical names and the printed Spanish
// names onto a Keyword.
var keywordAliases = map[string]Keyword{
	"FEARSOME":       KeywordFearsome,
	"TEMIBLE":        KeywordFearsome,
	"FRENZY":         KeywordFrenzy,
	"FRENESÍ":        KeywordFrenzy,
	"FRENESI":        KeywordFrenzy,
	"EVASION":        KeywordEvasion,
	"EVASIÓN":        KeywordEvasion,
	"TRAMPLE":        KeywordTrample,
	"ARROLLAR":       KeywordTrample,
	"SENTINEL":       KeywordSentinel,
	"CENTINELA":      KeywordSentinel,
	"HEAL":           KeywordHeal,
	"CURAR":          KeywordHeal,
	"GUARDIAN":       KeywordGuardian,
	"GUARDIÁN":       KeywordGuardian,
	"INDESTRUCTIBLE": KeywordIndestructible,
	"AMBUSH":         KeywordAmbush,
	"SORPRESIVO":     KeywordAmbush,
	"EROSION":        KeywordErosion,
	"EROSIÓN":        KeywordErosion,
	"THEFT":          KeywordTheft,
	"HURTO":          KeywordTheft,
}

// ParseKeyword resolves a keyword name, accepting printed aliases.
func ParseKeyword(value string) (Keyword, error) {
	if kw, ok := keywordAliases[strings.ToUpper(strings.TrimSpace(value))]; ok {
		return kw, nil
	}
	return "", fmt.Errorf("unknown keyword %q", value)
}

// HasKeyword reports whether keywords contains kw.
func HasKeyword(keywords []Keyword, kw Keyword) bool {
	for _, k := range keywords {
		if k == kw {
			return true
		}
	}
	return false
}
