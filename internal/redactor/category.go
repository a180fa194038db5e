package redactor

// Category tags a detected sensitive token. The set is closed: seven
// pattern-detected categories plus the NER-derived entity categories.
type Category string

const (
	CategoryEmail  Category = "EMAIL"
	CategoryIP     Category = "IP"
	CategoryURL    Category = "URL"
	CategoryAWSKey Category = "AWS_KEY"
	CategoryJWT    Category = "JWT"
	CategoryPhone  Category = "PHONE"
	CategorySecret Category = "SECRET"

	// NER-derived categories. Advisory only: reported as entities but not
	// substituted by the pattern pipeline.
	CategoryPerson       Category = "PERSON"
	CategoryOrganization Category = "ORGANIZATION"
	CategoryGPE          Category = "GPE"
	CategoryProduct      Category = "PRODUCT"
)

// patternCategories are the categories a recognizer may declare, in no
// particular order. Pipeline order comes from the recognizer file.
var patternCategories = map[Category]bool{
	CategoryEmail:  true,
	CategoryIP:     true,
	CategoryURL:    true,
	CategoryAWSKey: true,
	CategoryJWT:    true,
	CategoryPhone:  true,
	CategorySecret: true,
}

// Placeholder returns the fixed replacement token for the category,
// e.g. "[REDACTED_EMAIL]".
func (c Category) Placeholder() string {
	return "[REDACTED_" + string(c) + "]"
}
