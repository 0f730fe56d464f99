package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_Email(t *testing.T) {
	r := NewRedactorService(nil)

	out := r.Redact("Contact: budi.santoso+jobs@example-mail.co.id for details")
	assert.NotContains(t, out, "@")
	assert.Contains(t, out, RedactedEmail)
}

func TestRedact_Phone(t *testing.T) {
	r := NewRedactorService(nil)

	tests := []string{
		"Call +62 812-3456-7890 anytime",
		"Phone: (021) 555-0199",
		"Mobile 0812 3456 789",
	}
	for _, in := range tests {
		out := r.Redact(in)
		assert.Contains(t, out, RedactedPhone, "input: %s", in)
	}
}

func TestRedact_NamesLongestFirst(t *testing.T) {
	r := NewRedactorService(nil)

	in := "Jon Smith led the migration. Later Jon mentored two interns, and Smith reviewed code."
	out := r.Redact(in)

	assert.NotContains(t, out, "Jon")
	assert.NotContains(t, out, "Smith")
	assert.Contains(t, out, RedactedName)
}

func TestRedact_NameLabelLine(t *testing.T) {
	r := NewRedactorService(nil)

	in := "Name: Budi Santoso\nSummary\nBuilt data pipelines."
	out := r.Redact(in)

	assert.NotContains(t, out, "Budi")
	assert.NotContains(t, out, "Santoso")
}

func TestRedact_Pronouns(t *testing.T) {
	r := NewRedactorService(nil)

	out := r.Redact("He shipped the feature and she reviewed His work. Her feedback helped him.")
	for _, leaked := range []string{"He ", " she ", "His ", "Her ", " him"} {
		assert.NotContains(t, out, leaked)
	}
	assert.Equal(t, 5, strings.Count(out, RedactedPronoun))
}

func TestRedact_SectionHeadersSurvive(t *testing.T) {
	r := NewRedactorService(nil)

	in := "Professional Experience\nSenior Engineer at a logistics startup\nSkills\npython, sql"
	out := r.Redact(in)

	assert.Contains(t, out, "Professional Experience")
	assert.Contains(t, out, "Senior Engineer")
	assert.Contains(t, out, "python, sql")
}

func TestRedact_Idempotent(t *testing.T) {
	r := NewRedactorService(nil)

	in := "Name: Jon Smith\nEmail: jon@corp.io\nPhone: +1 555 123 4567\nHe built the billing service."
	once := r.Redact(in)
	twice := r.Redact(once)

	require.Equal(t, once, twice)
}

func TestDedupeLongestFirst(t *testing.T) {
	got := dedupeLongestFirst([]string{"Jon", "Jon Smith", "Smith", "Jon", "  ", "Ana"})
	assert.Equal(t, []string{"Jon Smith", "Smith", "Ana", "Jon"}, got)
}

func TestHeuristicNameDetector_Stopwords(t *testing.T) {
	d := NewHeuristicNameDetector()

	names := d.DetectNames("Work Experience\nComputer Science\nMaria Gonzalez\nSoftware Engineer")
	assert.Contains(t, names, "Maria Gonzalez")
	assert.NotContains(t, names, "Work Experience")
	assert.NotContains(t, names, "Computer Science")
	assert.NotContains(t, names, "Software Engineer")
}
