package services

import (
	"regexp"
	"sort"
	"strings"
)

// Placeholder tokens substituted for PII. They contain no lowercase letters
// and no digits, so a second redaction pass leaves them untouched.
const (
	RedactedEmail   = "[REDACTED_EMAIL]"
	RedactedPhone   = "[REDACTED_PHONE]"
	RedactedName    = "[REDACTED_NAME]"
	RedactedPronoun = "[REDACTED_PRONOUN]"
)

var (
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe   = regexp.MustCompile(`(\+?\d{1,3}[\s-]?)?(\(?\d{2,4}\)?[\s-]?)?\d{3,4}[\s-]?\d{3,4}`)
	pronounRe = regexp.MustCompile(`(?i)\b(he|she|his|her|him|hers)\b`)
)

// NameDetector finds person names in free text. Injected so tests and
// deployments can swap the heuristic for a real NER backend.
type NameDetector interface {
	DetectNames(text string) []string
}

// RedactorService strips PII from extracted resume text before any text
// leaves the process.
type RedactorService interface {
	Redact(text string) string
}

type redactorService struct {
	detector NameDetector
}

func NewRedactorService(detector NameDetector) RedactorService {
	if detector == nil {
		detector = NewHeuristicNameDetector()
	}
	return &redactorService{detector: detector}
}

// Redact replaces emails, phone numbers, person names and personal pronouns
// with placeholder tokens. Names are substituted longest-first: replacing
// "Jon" before "Jon Smith" would leave a dangling "Smith" that the full-name
// pattern can no longer match.
func (r *redactorService) Redact(text string) string {
	text = emailRe.ReplaceAllString(text, RedactedEmail)
	text = phoneRe.ReplaceAllString(text, RedactedPhone)

	names := dedupeLongestFirst(r.detector.DetectNames(text))
	for _, name := range names {
		nameRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		text = nameRe.ReplaceAllString(text, RedactedName)
	}

	text = pronounRe.ReplaceAllString(text, RedactedPronoun)
	return text
}

// dedupeLongestFirst removes duplicates and orders names longest-first,
// ties broken lexicographically so output is reproducible.
func dedupeLongestFirst(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})

	return out
}

// heuristicNameDetector approximates the NER step without a model: full-name
// shaped capitalized sequences plus names on labelled lines ("Name: ...").
// Sub-tokens of every detected full name are included so partial mentions
// elsewhere in the document are covered too.
type heuristicNameDetector struct{}

func NewHeuristicNameDetector() NameDetector {
	return &heuristicNameDetector{}
}

var (
	fullNameRe  = regexp.MustCompile(`\p{Lu}\p{Ll}+(?:[ \t]\p{Lu}\p{Ll}+)+`)
	nameLabelRe = regexp.MustCompile(`(?mi)^\s*(?:name|candidate|full name)\s*[:\-]\s*(.+)$`)
	nameWordRe  = regexp.MustCompile(`^\p{Lu}\p{Ll}+$`)
)

// notNames lists capitalized words that routinely start sentences or label
// resume sections; sequences containing them are not treated as person names.
var notNames = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"The", "This", "That", "These", "Those", "There", "Then",
		"And", "But", "For", "With", "From", "Into", "Over", "Under",
		"About", "After", "Before", "During", "Between",
		"January", "February", "March", "April", "May", "June", "July",
		"August", "September", "October", "November", "December",
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
		"Summary", "Objective", "Skills", "Experience", "Education", "Projects",
		"Project", "Work", "History", "Professional", "Certifications", "References",
		"Senior", "Junior", "Lead", "Staff", "Principal",
		"Engineer", "Engineering", "Developer", "Software", "Backend", "Frontend",
		"Manager", "Architect", "Analyst", "Consultant", "Intern",
		"University", "College", "Institute", "School", "Bachelor", "Master",
		"Science", "Computer", "Technology", "Degree",
	} {
		notNames[w] = struct{}{}
	}
}

// DetectNames implements NameDetector.
func (d *heuristicNameDetector) DetectNames(text string) []string {
	var names []string

	for _, match := range nameLabelRe.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(match[1])
		if isNameShaped(candidate) {
			names = append(names, candidate)
			names = append(names, nameTokens(candidate)...)
		}
	}

	for _, match := range fullNameRe.FindAllString(text, -1) {
		if !isNameShaped(match) {
			continue
		}
		names = append(names, match)
		names = append(names, nameTokens(match)...)
	}

	return names
}

func isNameShaped(candidate string) bool {
	words := strings.Fields(candidate)
	if len(words) == 0 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if !nameWordRe.MatchString(w) {
			return false
		}
		if _, stop := notNames[w]; stop {
			return false
		}
	}
	return true
}

func nameTokens(name string) []string {
	var tokens []string
	for _, w := range strings.Fields(name) {
		if len(w) >= 3 {
			if _, stop := notNames[w]; !stop {
				tokens = append(tokens, w)
			}
		}
	}
	return tokens
}
