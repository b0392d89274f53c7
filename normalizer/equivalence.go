package normalizer

import (
	"sort"
	"strings"
)

// equivalentPhrases maps a canonical token to the phrases (space separated tokens) it replaces.
var equivalentPhrases = map[string][]string{
	"acknowledgment":   {"acknowledgement"},
	"analog":           {"analogue"},
	"analyze":          {"analyse"},
	"artifact":         {"artefact"},
	"authorization":    {"authorisation"},
	"authorized":       {"authorised"},
	"caliber":          {"calibre"},
	"canceled":         {"cancelled"},
	"capitalizations":  {"capitalisations"},
	"catalog":          {"catalogue"},
	"categorize":       {"categorise"},
	"center":           {"centre"},
	"copyright-holder": {"copyright holder", "copyright owner", "copyright-owner"},
	"emphasized":       {"emphasised"},
	"favor":            {"favour"},
	"favorite":         {"favourite"},
	"fulfill":          {"fulfil"},
	"fulfillment":      {"fulfilment"},
	"http":             {"https"},
	"initialize":       {"initialise"},
	"judgment":         {"judgement"},
	"labeling":         {"labelling"},
	"labor":            {"labour"},
	"license":          {"licence"},
	"licensed":         {"licenced"},
	"licenses":         {"licences"},
	"licensing":        {"licencing"},
	"maximize":         {"maximise"},
	"modeled":          {"modelled"},
	"modeling":         {"modelling"},
	"noncommercial":    {"non commercial", "non-commercial"},
	"offense":          {"offence"},
	"optimize":         {"optimise"},
	"organization":     {"organisation"},
	"organize":         {"organise"},
	"percent":          {"per cent", "per-cent"},
	"practice":         {"practise"},
	"program":          {"programme"},
	"realize":          {"realise"},
	"recognize":        {"recognise"},
	"signaling":        {"signalling"},
	"sublicense":       {"sub license", "sub-license"},
	"utilization":      {"utilisation"},
	"while":            {"whilst"},
	"wilful":           {"wilfull", "willful"},
	"©":                {"( c )"},
}

type phrase struct {
	tokens    []string
	canonical string
}

// phrases is indexed by the first token, longest phrase first
var phrases = buildPhrases()

func buildPhrases() map[string][]phrase {
	result := map[string][]phrase{}
	for canonical, variants := range equivalentPhrases {
		for _, variant := range variants {
			tokens := strings.Fields(variant)
			result[tokens[0]] = append(result[tokens[0]], phrase{tokens: tokens, canonical: canonical})
		}
	}
	for _, candidates := range result {
		sort.SliceStable(candidates, func(i, j int) bool {
			return len(candidates[i].tokens) > len(candidates[j].tokens)
		})
	}
	return result
}

// applyEquivalences collapses equivalent phrases into their canonical token,
// the merged token keeps the position of the first phrase token.
func applyEquivalences(tokens Run) Run {
	texts := tokens.Texts()
	result := make(Run, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if canonical, size, ok := Equivalence(texts[i:]); ok {
			result = append(result, Token{Text: canonical, Position: tokens[i].Position})
			i += size
			continue
		}
		result = append(result, tokens[i])
		i++
	}
	return result
}

// Equivalence returns the canonical token of the longest equivalent phrase
// that texts starts with, and the number of texts the phrase spans.
func Equivalence(texts []string) (canonical string, size int, ok bool) {
	if len(texts) == 0 {
		return "", 0, false
	}
	for _, candidate := range phrases[texts[0]] {
		if hasPhrase(texts, candidate.tokens) {
			return candidate.canonical, len(candidate.tokens), true
		}
	}
	return "", 0, false
}

func hasPhrase(texts []string, phrase []string) bool {
	if len(texts) < len(phrase) {
		return false
	}
	for i, text := range phrase {
		if texts[i] != text {
			return false
		}
	}
	return true
}
