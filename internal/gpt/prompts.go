package gpt

import (
	"fmt"
	"strings"

	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
)

func formatCm(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g cm", v)
}

// PlanPrompt builds the generation instruction for a profile.
func PlanPrompt(p *models.UserProfile, lang i18n.Language) string {
	days := strings.Join(p.WorkoutDays, ", ")

	var equipment, measurements string
	if lang == i18n.Spanish {
		if p.WorkoutLocation == models.LocationHome {
			equipment = fmt.Sprintf("\n- Equipamiento disponible en casa: %s. El plan de entrenamiento DEBE usar este equipamiento si lo hay.",
				p.EquipmentList("Ninguno (solo peso corporal)"))
		}
		if m := p.Measurements; m.Any() {
			measurements = fmt.Sprintf("\n- Medidas: Pecho: %s, Cintura: %s, Cadera: %s. Úsalas para ajustar las recomendaciones.",
				formatCm(m.Chest), formatCm(m.Waist), formatCm(m.Hips))
		}
		return fmt.Sprintf(`Crea un plan completo y personalizado de nutrición y entrenamiento de 7 días para este usuario. La respuesta DEBE estar en español. Cada día de entrenamiento, comida y ejercicio lleva un 'id' único.
Perfil del usuario:
- Género: %s
- Edad: %d
- Peso: %g kg
- Altura: %g cm%s
- Nivel de actividad: %s
- Objetivo principal: %s
- Lugar de entrenamiento: %s%s
- Días de entrenamiento: %s. El plan DEBE usar exactamente estos días.

Reparto del entrenamiento: mira si los días son consecutivos o están separados y elige la división que mejor gestione la fatiga. Tres días seguidos (L-M-X) piden algo tipo Empuje/Tirón/Pierna; tres días separados (L-X-V) pueden ser de Cuerpo Completo.

1. Nutrición: un plan de comidas de 7 días. Calcula el gasto energético diario y fija calorías y macros según el objetivo. Cada día tiene desayuno, comida, cena y dos snacks. Cada comida lleva ingredientes, una receta sencilla, calorías y proteínas estimadas. Usa ingredientes de supermercado corriente. Los días se llaman "Lunes", "Martes", etc.
2. Entrenamiento: un programa para los días elegidos (%s), adaptado a %s y al equipamiento disponible. Indica el enfoque de cada día. Empieza cada día con 2-3 ejercicios de estiramiento dinámico cuyo nombre termine en "(%s)", con descanso "0s" y series en formato "2x10". Después, 5-6 ejercicios principales con series (ej. "3-4"), repeticiones, descanso y una descripción breve de la técnica.
3. Resúmenes: un resumen corto de la estrategia de nutrición y otro de la de entrenamiento.
4. La salida DEBE ser un único objeto JSON que cumpla estrictamente el esquema indicado.`,
			p.Gender, p.Age, p.Weight, p.Height, measurements, p.ActivityLevel, p.Goal,
			p.WorkoutLocation, equipment, days, days, p.WorkoutLocation, lang.WarmupMarker())
	}

	if p.WorkoutLocation == models.LocationHome {
		equipment = fmt.Sprintf("\n- Available home equipment: %s. The workout plan MUST use this equipment when there is any.",
			p.EquipmentList("None (bodyweight only)"))
	}
	if m := p.Measurements; m.Any() {
		measurements = fmt.Sprintf("\n- Measurements: Chest: %s, Waist: %s, Hips: %s. Use them to tailor the recommendations.",
			formatCm(m.Chest), formatCm(m.Waist), formatCm(m.Hips))
	}
	return fmt.Sprintf(`Create a complete, personalized 7-day nutrition and workout plan for this user. The response MUST be in English. Every workout day, meal and exercise carries a unique 'id'.
User profile:
- Gender: %s
- Age: %d
- Weight: %g kg
- Height: %g cm%s
- Activity level: %s
- Main goal: %s
- Workout location: %s%s
- Workout days: %s. The plan MUST use exactly these days.

Training split: check whether the days are consecutive or spread out and pick the split that best manages fatigue. Three days in a row (Mon-Tue-Wed) call for a Push/Pull/Legs style split; three spread-out days (Mon-Wed-Fri) can be Full Body sessions.

1. Nutrition: a 7-day meal plan. Estimate the user's TDEE and set calorie and macro targets for the goal. Each day has breakfast, lunch, dinner and two snacks. Each meal lists ingredients, a simple recipe, and estimated calories and protein. Use common supermarket ingredients. Days are named "Monday", "Tuesday", etc.
2. Workout: a schedule for the chosen days (%s), tailored to %s and the available equipment. Give each day a focus. Start each day with 2-3 dynamic stretches whose name ends in "(%s)", with rest "0s" and sets written as "2x10". Then 5-6 main exercises with sets (e.g. "3-4"), reps, rest and a short description of correct form.
3. Summaries: a short summary of the nutrition strategy and one of the training strategy.
4. The output MUST be a single JSON object that strictly follows the provided schema.`,
		p.Gender, p.Age, p.Weight, p.Height, measurements, p.ActivityLevel, p.Goal,
		p.WorkoutLocation, equipment, days, days, p.WorkoutLocation, lang.WarmupMarker())
}

// SubstitutionPrompt asks for one alternative exercise.
func SubstitutionPrompt(ex models.Exercise, focus, equipment string, lang i18n.Language) string {
	if lang == i18n.Spanish {
		return fmt.Sprintf(`Busca un ejercicio alternativo a '%s'. El enfoque del entrenamiento es '%s'. Equipamiento disponible: '%s'.
El nuevo ejercicio debe trabajar músculos parecidos y mantener las mismas series, repeticiones y descanso que el original. Responde en español.`,
			ex.Name, focus, equipment)
	}
	return fmt.Sprintf(`Find an alternative exercise to '%s'. The workout focus is '%s'. Available equipment: '%s'.
The new exercise should work similar muscles and keep the same sets, reps and rest as the original. Respond in English.`,
		ex.Name, focus, equipment)
}

// ChatSystemPrompt instructs the nutrition assistant. It must ask before editing the plan.
func ChatSystemPrompt(lang i18n.Language) string {
	if lang == i18n.Spanish {
		return `Eres FitLife AI, un asistente experto en nutrición que ayuda a los usuarios a ajustar su plan de comidas.
- Cada mensaje del usuario incluye su plan de nutrición actual como CONTEXTO. Usa SIEMPRE ese contexto para identificar comidas e ingredientes.
- Si el usuario quiere cambiar un ingrediente, búscalo primero en el CONTEXTO y propón 1-2 alternativas con calorías y proteínas parecidas, explicando brevemente por qué.
- PREGUNTA al usuario si quiere hacer el cambio. NO uses la herramienta sin una confirmación explícita.
- Cuando confirme, llama a la herramienta updateMealIngredient con los valores exactos del CONTEXTO y de la conversación.
- Responde de forma cercana, confirma al usuario cuando el cambio se haya hecho y contesta siempre en español.`
	}
	return `You are FitLife AI, an expert nutrition assistant who helps users adjust their meal plan.
- Every user message includes their current nutrition plan as CONTEXT. ALWAYS use that context to identify meals and ingredients.
- If the user wants to change an ingredient, find it in the CONTEXT first and suggest 1-2 alternatives with similar calories and protein, briefly saying why.
- ASK the user whether to go ahead with the change. DO NOT call the tool without explicit confirmation.
- Once they confirm, call the updateMealIngredient tool with the exact values from the CONTEXT and the conversation.
- Be friendly, tell the user once the change is done, and always answer in English.`
}
