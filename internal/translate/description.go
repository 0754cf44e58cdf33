package translate

import "regexp"

// phraseRule is one ordered substitution applied to free-text descriptions.
type phraseRule struct {
	re   *regexp.Regexp
	repl string
}

// germanPhrases are applied in order; earlier, longer phrases win before
// their shorter fragments match. Text no rule matches passes through as-is.
var germanPhrases = []phraseRule{
	{regexp.MustCompile(`(?i)\beasy to grow\b`), "einfach anzubauen"},
	{regexp.MustCompile(`(?i)\bdifficult to grow\b`), "schwierig anzubauen"},
	{regexp.MustCompile(`(?i)\bflowering time\b`), "Blütezeit"},
	{regexp.MustCompile(`(?i)\bhigh yield\b`), "hoher Ertrag"},
	{regexp.MustCompile(`(?i)\bindoor and outdoor\b`), "drinnen und draußen"},
	{regexp.MustCompile(`(?i)\bsweet aroma\b`), "süßes Aroma"},
	{regexp.MustCompile(`(?i)\bearthy flavor\b`), "erdiger Geschmack"},
	{regexp.MustCompile(`(?i)\brelaxing effects?\b`), "entspannende Wirkung"},
	{regexp.MustCompile(`(?i)\buplifting effects?\b`), "belebende Wirkung"},
	{regexp.MustCompile(`(?i)\bthis strain\b`), "diese Sorte"},
	{regexp.MustCompile(`(?i)\bweeks\b`), "Wochen"},
}

// TranslateDescription localizes a free-text description by ordered phrase
// substitution. Only German has a phrase table; any other target language
// returns the text unchanged.
func (t *Translator) TranslateDescription(text string) string {
	if t.Language() != "de" || text == "" {
		return text
	}
	for _, rule := range germanPhrases {
		text = rule.re.ReplaceAllString(text, rule.repl)
	}
	return text
}
