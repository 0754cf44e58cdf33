package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greenhouse-labs/strainsync/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate <field> <value>...",
	Short: "Translate strain attribute values (debug helper)",
	Long: `Translate one or more attribute values into the configured language.

Useful for checking dictionary coverage: values without a dictionary entry
come back as a capitalized echo of the input.

Fields: effect, flavor, type, difficulty, description

Examples:
  strainsync translate effect relaxed happy --language de
  strainsync translate description "This strain is easy to grow"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tr, err := a.translator()
	if err != nil {
		return err
	}

	results, err := translateValues(tr, args[0], args[1:])
	if err != nil {
		return err
	}
	for i, value := range args[1:] {
		fmt.Printf("%s -> %s\n", value, results[i])
	}
	return nil
}

// translateValues maps a field name from the command line onto the translator,
// preserving input order. "description" runs the phrase table instead of the
// dictionary.
func translateValues(tr *translate.Translator, field string, values []string) ([]string, error) {
	if strings.EqualFold(field, "description") {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = tr.TranslateDescription(v)
		}
		return out, nil
	}

	var fieldType translate.FieldType
	switch strings.ToLower(field) {
	case "effect", "effects":
		fieldType = translate.FieldEffect
	case "flavor", "flavors":
		fieldType = translate.FieldFlavor
	case "type":
		fieldType = translate.FieldStrainType
	case "difficulty":
		fieldType = translate.FieldDifficulty
	default:
		return nil, fmt.Errorf("unknown field %q (use effect, flavor, type, difficulty, or description)", field)
	}
	return tr.TranslateAll(fieldType, values), nil
}
