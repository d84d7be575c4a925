package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-recipe-backend/internal/prompts"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPromptRecipesText(t *testing.T) {
	out, err := runCLI(t, "prompt", "recipes",
		"-i", "rec1=Pomme", "-i", "rec2=Banane",
		"--intolerance", "Lactose", "--servings", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "# recipes@v1")
	assert.Contains(t, out, `{"id":"rec1","name":"Pomme"}`)
	assert.Contains(t, out, "Lactose")
	assert.Contains(t, out, "# contract")
	assert.Contains(t, out, "out: ")
	assert.Contains(t, out, `"rec1"`)
}

func TestPromptRecipesJSON(t *testing.T) {
	out, err := runCLI(t, "--format", "json", "prompt", "recipes", "-i", "Pomme", "--schema", "json")
	require.NoError(t, err)

	var res struct {
		ID          string         `json:"id"`
		Version     string         `json:"version"`
		Temperature float32        `json:"temperature"`
		Text        string         `json:"text"`
		Schema      map[string]any `json:"schema"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, prompts.Recipes, res.ID)
	assert.Equal(t, "v1", res.Version)
	assert.Contains(t, res.Text, `{"id":"ing1","name":"Pomme"}`)
	assert.Equal(t, "object", res.Schema["type"])
}

func TestPromptNutrition(t *testing.T) {
	out, err := runCLI(t, "--format", "json", "prompt", "nutrition",
		"-i", "Farine=250 g", "-i", "Oeuf=2", "--title", "Crêpes", "--schema", "none")
	require.NoError(t, err)

	var res PromptResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, prompts.Nutrition, res.ID)
	assert.Nil(t, res.Schema)
	assert.Contains(t, res.Text, "Farine")
	assert.Contains(t, res.Text, "Crêpes")
}

func TestPromptErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown subject", []string{"prompt", "dessert"}, `unknown prompt "dessert"`},
		{"bad schema mode", []string{"prompt", "recipes", "--schema", "xml"}, `invalid schema mode "xml"`},
		{"bad servings", []string{"prompt", "recipes", "--servings", "0"}, "servings must be positive"},
		{"bad range", []string{"prompt", "recipes", "--min", "3", "--max", "2"}, "invalid recipe range 3..2"},
		{"unknown version", []string{"prompt", "recipes", "--prompt-version", "v99"}, "available versions: v1"},
		{"missing subject", []string{"prompt"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRecipeIngredients(t *testing.T) {
	got := recipeIngredients([]string{"recA = Pomme", "Banane"})
	require.Len(t, got, 2)
	assert.Equal(t, "recA", got[0].ID)
	assert.Equal(t, "Pomme", got[0].Name)
	assert.Equal(t, "ing2", got[1].ID)
	assert.Equal(t, "Banane", got[1].Name)
}

func TestNutritionLines(t *testing.T) {
	got := nutritionLines([]string{"Farine=250 g", "Lait=0,5 l", "Sel"})
	require.Len(t, got, 3)
	assert.Equal(t, prompts.NutritionLine{Name: "Farine", Quantity: 250, Unit: "g"}, got[0])
	assert.Equal(t, prompts.NutritionLine{Name: "Lait", Quantity: 0.5, Unit: "l"}, got[1])
	assert.Equal(t, prompts.NutritionLine{Name: "Sel"}, got[2])
}
