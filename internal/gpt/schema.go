package gpt

import "github.com/sashabaranov/go-openai/jsonschema"

func stringArray() jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}}
}

var exerciseSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"id":          {Type: jsonschema.String},
		"name":        {Type: jsonschema.String},
		"sets":        {Type: jsonschema.String},
		"reps":        {Type: jsonschema.String},
		"rest":        {Type: jsonschema.String},
		"description": {Type: jsonschema.String},
	},
	Required: []string{"id", "name", "sets", "reps", "rest", "description"},
}

var mealSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"id":          {Type: jsonschema.String},
		"name":        {Type: jsonschema.String},
		"time":        {Type: jsonschema.String},
		"calories":    {Type: jsonschema.Number},
		"protein":     {Type: jsonschema.Number},
		"recipe":      stringArray(),
		"ingredients": stringArray(),
	},
	Required: []string{"id", "name", "time", "calories", "protein", "recipe", "ingredients"},
}

var planSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"nutritionPlan": {
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"summary": {Type: jsonschema.String},
				"dailyPlans": {
					Type: jsonschema.Array,
					Items: &jsonschema.Definition{
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"day":           {Type: jsonschema.String},
							"totalCalories": {Type: jsonschema.Number},
							"totalProtein":  {Type: jsonschema.Number},
							"meals":         {Type: jsonschema.Array, Items: &mealSchema},
						},
						Required: []string{"day", "totalCalories", "totalProtein", "meals"},
					},
				},
			},
			Required: []string{"summary", "dailyPlans"},
		},
		"workoutPlan": {
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"summary": {Type: jsonschema.String},
				"schedule": {
					Type: jsonschema.Array,
					Items: &jsonschema.Definition{
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"id":        {Type: jsonschema.String},
							"day":       {Type: jsonschema.String},
							"focus":     {Type: jsonschema.String},
							"duration":  {Type: jsonschema.String},
							"exercises": {Type: jsonschema.Array, Items: &exerciseSchema},
						},
						Required: []string{"id", "day", "focus", "duration", "exercises"},
					},
				},
			},
			Required: []string{"summary", "schedule"},
		},
	},
	Required: []string{"nutritionPlan", "workoutPlan"},
}

// updateMealIngredientParams describes the arguments of the meal editing tool.
var updateMealIngredientParams = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"day": {
			Type:        jsonschema.String,
			Description: "The day of the week of the meal to update, e.g. 'Lunes', 'Tuesday'. Must match a day in the user's plan.",
		},
		"mealName": {
			Type:        jsonschema.String,
			Description: "The current name of the meal to update, e.g. 'Yogur con almendras', 'Chicken Salad'.",
		},
		"oldIngredient": {
			Type:        jsonschema.String,
			Description: "The exact name of the ingredient to replace, as it appears in the ingredients list.",
		},
		"newIngredient": {
			Type:        jsonschema.String,
			Description: "The ingredient to put in its place.",
		},
		"newMealName": {
			Type:        jsonschema.String,
			Description: "Optional. The new name of the meal after the change, e.g. 'Yogur con nueces'.",
		},
	},
	Required: []string{"day", "mealName", "oldIngredient", "newIngredient"},
}
