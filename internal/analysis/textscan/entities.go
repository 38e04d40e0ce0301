package textscan

import (
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/rghosh/clausewise/internal/core/domain"
)

var moneyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`₹\s?[\d,]+(\.\d+)?`),
	regexp.MustCompile(`(?i)\bINR\s?[\d,]+(\.\d+)?\b`),
	regexp.MustCompile(`(?i)\bRs\.?\s?[\d,]+(\.\d+)?\b`),
	regexp.MustCompile(`(?i)\bUSD\s?[\d,]+(\.\d+)?\b`),
	regexp.MustCompile(`\$\s?[\d,]+(\.\d+)?`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`),
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\s+\d{1,2},\s+\d{4}\b`),
}

var jurisdictionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgoverning law\b`),
	regexp.MustCompile(`(?i)\bgoverned by the laws of\s+[A-Za-z ]+`),
	regexp.MustCompile(`(?i)\bexclusive jurisdiction\b`),
	regexp.MustCompile(`(?i)\bcourts?\s+of\s+[A-Za-z ]+`),
	regexp.MustCompile(`(?i)\bjurisdiction\b`),
}

// Corporate-suffix heuristic: the statistical tagger has no ORG label, so
// organizations come from the suffix pass alone.
var orgPattern = regexp.MustCompile(`\b[A-Z][A-Za-z&.\- ]{1,60}\s(?:Pvt\.?\s?Ltd\.?|Private Limited|Ltd\.?|LLP|LLC|Inc\.?|Corp\.?|Company)\b`)

// Defined party roles: `ABC Pvt Ltd ("Client")`.
var partyRolePattern = regexp.MustCompile(`(?i)([A-Z][A-Za-z0-9&.,\- ]{2,120})\s*\(\s*"?(Client|Vendor|Employer|Employee|Lessor|Lessee|Landlord|Tenant)"?\s*\)`)

var roleMentionVocabulary = []string{
	"Client", "Vendor", "Employer", "Employee", "Lessor", "Lessee", "Landlord", "Tenant", "Partner",
}

// ExtractEntities runs the statistical recognizer for persons and
// locations, then regex passes for the notations it commonly misses
// (currency, dates, jurisdiction phrases, corporate names) plus the
// party-role extractor. A tagger failure degrades to regex-only output.
func ExtractEntities(text string) domain.EntityReport {
	var persons, locations []string
	if doc, err := prose.NewDocument(text, prose.WithSegmentation(false)); err == nil {
		for _, ent := range doc.Entities() {
			switch ent.Label {
			case "PERSON":
				persons = append(persons, ent.Text)
			case "GPE":
				locations = append(locations, ent.Text)
			}
		}
	}

	return domain.EntityReport{
		Parties:              extractParties(text),
		Organizations:        dedupeFold(findAll(text, orgPattern)),
		Persons:              dedupeFold(persons),
		Locations:            dedupeFold(locations),
		Dates:                dedupeFold(findAllMulti(text, datePatterns)),
		MoneyAmounts:         dedupeFold(findAllMulti(text, moneyPatterns)),
		JurisdictionMentions: dedupeFold(findAllMulti(text, jurisdictionPatterns)),
	}
}

func extractParties(text string) domain.PartyRoles {
	roles := make(map[string]string)
	for _, m := range partyRolePattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		role := strings.ToLower(strings.TrimSpace(m[2]))
		roles[role] = name
	}

	var mentions []string
	for _, term := range roleMentionVocabulary {
		re := regexp.MustCompile(`(?i)\b` + term + `\b`)
		if re.MatchString(text) {
			mentions = append(mentions, term)
		}
	}

	return domain.PartyRoles{Roles: roles, Mentions: dedupeFold(mentions)}
}

func findAll(text string, re *regexp.Regexp) []string {
	return re.FindAllString(text, -1)
}

func findAllMulti(text string, patterns []*regexp.Regexp) []string {
	var out []string
	for _, re := range patterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}
