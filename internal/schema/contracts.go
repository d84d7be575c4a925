package schema

// Recipes is the contract for a recipe generation response. Ingredient ids
// are restricted to ingredientIDs, every recipe uses at least one of them
// and must serve exactly servings people. The contract cannot tie a name to
// its id; callers check the pairing after validation.
func Recipes(ingredientIDs []string, servings int) *Schema {
	ingredient := Object(
		Prop("id", String().OneOf(ingredientIDs...).Describe("ID de l'ingrédient (reprendre l'id fourni dans la liste d'entrée)")),
		Prop("name", String().Describe("Nom de l'ingrédient (reprendre le nom fourni dans la liste d'entrée)")),
		Prop("quantity", Number().AtLeast(0).Describe("Quantité de l'ingrédient, en nombre (ex : 100, 2, 0.5)")),
		Prop("unit", String().Describe("Unité pour la quantité, ex : 'g', 'kg', 'tasse', 'c.à.c.', 'ml'")),
	)
	missing := Object(
		Prop("name", String()),
		Prop("quantity", Number().AtLeast(0)),
		Prop("unit", String()),
	).Describe("Ingrédient suggéré mais non fourni, sans id")
	instruction := Object(
		Prop("text", String().Describe("Texte de l'instruction (étape)")),
		Prop("order", Integer().AtLeast(1).Describe("Ordre de l'instruction dans la recette, à partir de 1")),
	)
	recipe := Object(
		Prop("title", String().Describe("Nom de la recette")),
		Prop("description", String().Describe("Courte description de la recette")),
		Prop("ingredients", Array(ingredient).NonEmpty().Describe("N'utiliser que les ingrédients fournis")),
		Prop("instructions", Array(instruction)),
		Prop("servings", Integer().Equal(int64(servings)).Describe("Nombre de portions de la recette")),
		Prop("prep_time_minutes", Integer().AtLeast(0).Describe("Temps de préparation en minutes")),
		Prop("cook_time_minutes", Integer().AtLeast(0).Describe("Temps de cuisson en minutes")),
		Opt("missing_ingredients", Array(missing)),
	)
	return Object(Prop("recipes", Array(recipe).NonEmpty()))
}

type amount struct{ key, desc string }

var macros = []amount{
	{"calories", "Calories totales en kcal"},
	{"protein", "Protéines en grammes"},
	{"carbs", "Glucides en grammes"},
	{"fat", "Lipides en grammes"},
	{"fiber", "Fibres en grammes"},
	{"sugar", "Sucres en grammes"},
	{"sodium", "Sodium en mg"},
}

var vitamins = []amount{
	{"A", "Vitamine A en µg"},
	{"C", "Vitamine C en mg"},
	{"D", "Vitamine D en µg"},
	{"E", "Vitamine E en mg"},
	{"K", "Vitamine K en µg"},
	{"B1", "Vitamine B1 en mg"},
	{"B2", "Vitamine B2 en mg"},
	{"B3", "Vitamine B3 en mg"},
	{"B6", "Vitamine B6 en mg"},
	{"B12", "Vitamine B12 en µg"},
	{"folate", "Folate en µg"},
}

var minerals = []amount{
	{"calcium", "Calcium en mg"},
	{"iron", "Fer en mg"},
	{"magnesium", "Magnésium en mg"},
	{"phosphorus", "Phosphore en mg"},
	{"potassium", "Potassium en mg"},
	{"zinc", "Zinc en mg"},
	{"copper", "Cuivre en mg"},
	{"manganese", "Manganèse en mg"},
	{"selenium", "Sélénium en µg"},
}

// Nutrition is the contract for a per-serving nutrition estimate.
func Nutrition() *Schema {
	fields := amountFields(macros)
	fields = append(fields,
		Prop("vitamins", Object(amountFields(vitamins)...).Describe("Vitamines présentes")),
		Prop("minerals", Object(amountFields(minerals)...).Describe("Minéraux présents")),
		Prop("nutrition_notes", String().MinRunes(10).Describe("Notes nutritionnelles en français")),
	)
	return Object(fields...)
}

func amountFields(list []amount) []Field {
	fields := make([]Field, len(list))
	for i, a := range list {
		fields[i] = Prop(a.key, Number().AtLeast(0).Describe(a.desc))
	}
	return fields
}
