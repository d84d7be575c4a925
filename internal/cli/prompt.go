package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/prompts"
	"github.com/tbourn/go-recipe-backend/internal/quantity"
	"github.com/tbourn/go-recipe-backend/internal/schema"
)

// ValidSchemaModes lists the accepted --schema values.
var ValidSchemaModes = []string{"cue", "json", "none"}

type promptOptions struct {
	ingredients  []string
	intolerances []string
	servings     int
	title        string
	version      string
	minRecipes   int
	maxRecipes   int
	schemaMode   string
}

// PromptResult is the JSON output of the prompt command.
type PromptResult struct {
	ID          string  `json:"id"`
	Version     string  `json:"version"`
	Temperature float32 `json:"temperature"`
	Text        string  `json:"text"`
	Schema      any     `json:"schema,omitempty"`
}

// NewPromptCommand creates the prompt command.
func NewPromptCommand(root *RootOptions) *cobra.Command {
	opts := &promptOptions{}

	cmd := &cobra.Command{
		Use:   "prompt <recipes|nutrition>",
		Short: "Render a prompt and its response contract",
		Long: `Render one of the embedded prompt templates with the given inputs and
print it together with the contract the model answer is validated against.

Ingredients are passed with --ingredient, once per ingredient:
  recipes:   id=Name      (e.g. recA=Pomme; the id is generated when omitted)
  nutrition: Name=qty     (e.g. "Farine=250 g")`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{prompts.Recipes, prompts.Nutrition},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(root, opts, args[0], cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.ingredients, "ingredient", "i", nil, "ingredient (repeatable)")
	f.StringArrayVar(&opts.intolerances, "intolerance", nil, "intolerance label (repeatable, recipes only)")
	f.IntVar(&opts.servings, "servings", 1, "number of servings")
	f.StringVar(&opts.title, "title", "", "recipe title (nutrition only)")
	f.StringVar(&opts.version, "prompt-version", "v1", "prompt template version")
	f.IntVar(&opts.minRecipes, "min", 1, "minimum number of recipes (recipes only)")
	f.IntVar(&opts.maxRecipes, "max", 3, "maximum number of recipes (recipes only)")
	f.StringVar(&opts.schemaMode, "schema", "cue", "contract output (cue|json|none)")
	return cmd
}

func runPrompt(root *RootOptions, opts *promptOptions, subject string, w io.Writer) error {
	if !slices.Contains(ValidSchemaModes, opts.schemaMode) {
		return fmt.Errorf("invalid schema mode %q: must be one of %v", opts.schemaMode, ValidSchemaModes)
	}
	if opts.servings <= 0 {
		return fmt.Errorf("servings must be positive, got %d", opts.servings)
	}

	catalog, err := prompts.Default()
	if err != nil {
		return err
	}

	var (
		data     any
		contract *schema.Schema
	)
	switch subject {
	case prompts.Recipes:
		if opts.minRecipes < 1 || opts.maxRecipes < opts.minRecipes {
			return fmt.Errorf("invalid recipe range %d..%d", opts.minRecipes, opts.maxRecipes)
		}
		ings := recipeIngredients(opts.ingredients)
		ids := make([]string, len(ings))
		for i, ing := range ings {
			ids[i] = ing.ID
		}
		data = prompts.RecipesData{
			Ingredients:  ings,
			Intolerances: opts.intolerances,
			Servings:     opts.servings,
			MinRecipes:   opts.minRecipes,
			MaxRecipes:   opts.maxRecipes,
		}
		contract = schema.Recipes(ids, opts.servings)
	case prompts.Nutrition:
		data = prompts.NutritionData{
			Ingredients: nutritionLines(opts.ingredients),
			Servings:    float64(opts.servings),
			Title:       strings.TrimSpace(opts.title),
		}
		contract = schema.Nutrition()
	default:
		return fmt.Errorf("unknown prompt %q: must be one of %v", subject, []string{prompts.Recipes, prompts.Nutrition})
	}

	rendered, err := catalog.Render(subject, opts.version, data)
	if err != nil {
		if versions := catalog.Versions(subject); len(versions) > 0 {
			return fmt.Errorf("%w (available versions: %s)", err, strings.Join(versions, ", "))
		}
		return err
	}

	res := PromptResult{
		ID:          rendered.ID,
		Version:     rendered.Version,
		Temperature: rendered.Temperature,
		Text:        rendered.Text,
	}
	switch opts.schemaMode {
	case "cue":
		res.Schema = contract.CUE()
	case "json":
		res.Schema = contract.JSONSchema()
	}

	if root.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return writePromptText(w, res)
}

func writePromptText(w io.Writer, res PromptResult) error {
	fmt.Fprintf(w, "# %s@%s (temperature %s)\n\n", res.ID, res.Version, strconv.FormatFloat(float64(res.Temperature), 'g', -1, 32))
	fmt.Fprintln(w, strings.TrimRight(res.Text, "\n"))
	switch s := res.Schema.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintf(w, "\n# contract\n\n%s\n", strings.TrimRight(s, "\n"))
		return err
	default:
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "\n# contract\n\n%s\n", b)
		return err
	}
}

// recipeIngredients parses "id=Name" pairs. A bare name gets a positional id.
func recipeIngredients(raw []string) []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(raw))
	for i, s := range raw {
		id, name, ok := strings.Cut(s, "=")
		if !ok {
			id, name = "ing"+strconv.Itoa(i+1), s
		}
		out = append(out, domain.Ingredient{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)})
	}
	return out
}

// nutritionLines parses "Name=quantity unit" pairs. The quantity is optional.
func nutritionLines(raw []string) []prompts.NutritionLine {
	out := make([]prompts.NutritionLine, 0, len(raw))
	for _, s := range raw {
		name, qty, _ := strings.Cut(s, "=")
		q := quantity.Parse(strings.TrimSpace(qty))
		out = append(out, prompts.NutritionLine{Name: strings.TrimSpace(name), Quantity: q.Quantity, Unit: q.Unit})
	}
	return out
}
