package hub

import (
	"regexp"
	"sort"
	"strings"
)

// tagCategories maps normalised free-form tags to arXiv category codes.
var tagCategories = map[string]string{
	"ai":                          "cs.AI",
	"artificial intelligence":     "cs.AI",
	"agents":                      "cs.AI",
	"machine learning":            "cs.LG",
	"ml":                          "cs.LG",
	"deep learning":               "cs.LG",
	"reinforcement learning":      "cs.LG",
	"rl":                          "cs.LG",
	"nlp":                         "cs.CL",
	"natural language processing": "cs.CL",
	"llm":                         "cs.CL",
	"language models":             "cs.CL",
	"computation and language":    "cs.CL",
	"computer vision":             "cs.CV",
	"cv":                          "cs.CV",
	"vision":                      "cs.CV",
	"robotics":                    "cs.RO",
	"information retrieval":       "cs.IR",
	"ir":                          "cs.IR",
	"search":                      "cs.IR",
	"recommender systems":         "cs.IR",
	"neural networks":             "cs.NE",
	"evolutionary computing":      "cs.NE",
	"cryptography":                "cs.CR",
	"security":                    "cs.CR",
	"distributed systems":         "cs.DC",
	"databases":                   "cs.DB",
	"software engineering":        "cs.SE",
	"programming languages":       "cs.PL",
	"hci":                         "cs.HC",
	"human computer interaction":  "cs.HC",
	"statistics ml":               "stat.ML",
	"statistical learning":        "stat.ML",
	"stat ml":                     "stat.ML",
	"optimization":                "math.OC",
	"signal processing":           "eess.SP",
	"speech":                      "eess.AS",
	"audio":                       "eess.AS",
	"image processing":            "eess.IV",
	"quantum computing":           "quant-ph",
	"quantum":                     "quant-ph",
}

// categoryCode matches arXiv category codes such as cs.LG, stat.ML and
// cond-mat.stat-mech.
var categoryCode = regexp.MustCompile(`^(cs|stat|math|eess|econ|q-bio|q-fin|physics|astro-ph|cond-mat|nlin)\.([A-Za-z][A-Za-z-]*)$`)

// standaloneArchives are archives used as categories without a subject.
var standaloneArchives = map[string]bool{
	"quant-ph": true,
	"hep-th":   true,
	"hep-ph":   true,
	"hep-ex":   true,
	"hep-lat":  true,
	"gr-qc":    true,
	"nucl-th":  true,
	"nucl-ex":  true,
	"math-ph":  true,
}

// lowerSubjects are the archives whose subject class is written in lower
// case. Every other archive capitalizes it (cs.LG, astro-ph.GA, nlin.CD).
var lowerSubjects = map[string]bool{
	"cond-mat": true,
	"physics":  true,
}

// canonicalCode returns the canonical spelling of a raw category code.
func canonicalCode(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if standaloneArchives[strings.ToLower(raw)] {
		return strings.ToLower(raw), true
	}
	archive, subject, ok := strings.Cut(raw, ".")
	if !ok {
		return "", false
	}
	archive = strings.ToLower(archive)
	if lowerSubjects[archive] {
		subject = strings.ToLower(subject)
	} else {
		subject = strings.ToUpper(subject)
	}
	code := archive + "." + subject
	if !categoryCode.MatchString(code) {
		return "", false
	}
	return code, true
}

// normalizeTag lowercases and collapses separators so "Machine_Learning",
// "machine-learning" and "  machine   learning" compare equal.
func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.NewReplacer("_", " ", "-", " ", "#", "").Replace(tag)
	return strings.Join(strings.Fields(tag), " ")
}

// CategoryForTag maps a single tag to an arXiv category code.
func CategoryForTag(tag string) (string, bool) {
	if code, ok := canonicalCode(tag); ok {
		return code, true
	}
	code, ok := tagCategories[normalizeTag(tag)]
	return code, ok
}

// CategoriesForTags maps tags to de-duplicated category codes in the order
// first seen. Tags with no mapping are returned separately.
func CategoriesForTags(tags []string) (categories []string, unmapped []string) {
	seen := make(map[string]bool)
	for _, tag := range tags {
		code, ok := CategoryForTag(tag)
		if !ok {
			if strings.TrimSpace(tag) != "" {
				unmapped = append(unmapped, tag)
			}
			continue
		}
		if !seen[code] {
			seen[code] = true
			categories = append(categories, code)
		}
	}
	return categories, unmapped
}

// KnownTags returns every tag with a category mapping, sorted.
func KnownTags() []string {
	tags := make([]string, 0, len(tagCategories))
	for tag := range tagCategories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
