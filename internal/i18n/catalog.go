package i18n

var catalog = map[Language]map[string]string{
	English: {
		"chat.welcome":        "Hi! I'm FitLife AI. Ask me anything about your meal plan, or tell me which ingredient you'd like to swap.",
		"chat.error":          "Sorry, something went wrong. Please try again.",
		"chat.contextHeader":  "CONTEXT: Here is the user's current nutrition plan. Use it to answer questions and fulfill modification requests.",
		"chat.questionHeader": "USER QUESTION",

		"gen.timeout": "Generating your plan took too long. Please try again in a few minutes.",
		"gen.error":   "We couldn't generate your plan. Please try again later.",

		"bot.welcome":          "👋 Welcome to FitLife! I'll build you a personalized 7-day nutrition and workout plan. First, what is your gender?",
		"bot.help":             "Commands:\n/start - create your profile and plan\n/plan - plan summary\n/today - today's workout\n/meals - today's meals\n/done <n> - mark meal n eaten\n/workout - start today's workout\n/log <exercise> <set> <weight> <reps> - log a set\n/swap <exercise> - swap an exercise\n/finish <easy|ideal|hard> - finish the workout\n/cancel - discard the workout\n/explain <exercise> - listen to an exercise description\n/progress <weight> [chest waist hips] - log progress\n/history - workout history\n/regenerate - build a new plan\n/lang <en|es> - change language\nAny other text goes to the nutrition assistant. Send a photo to store it as a progress photo, or with the caption /analyze to get a meal analysis.",
		"bot.unknownCommand":   "Unknown command. Use /help to see what I can do.",
		"bot.useStart":         "Please use /start to set up your profile first.",
		"bot.chooseButtons":    "Please choose one of the options below.",
		"bot.rateLimited":      "You're going a bit fast. Please wait a moment.",
		"bot.saveError":        "Sorry, we couldn't save your data. Please try again later.",
		"bot.genderMale":       "Male",
		"bot.genderFemale":     "Female",
		"bot.askAge":           "How old are you?",
		"bot.badAge":           "Please enter a valid age (12-100):",
		"bot.askWeight":        "What is your weight in kilograms (e.g. 70)?",
		"bot.badWeight":        "Please enter a valid weight in kilograms (30-300):",
		"bot.askHeight":        "What is your height in centimetres (e.g. 175)?",
		"bot.badHeight":        "Please enter a valid height in centimetres (100-250):",
		"bot.askMeasurements":  "Optional: send your chest, waist and hips in cm separated by spaces (e.g. 100 80 95), or tap Skip.",
		"bot.badMeasurements":  "Please send three numbers (chest waist hips) or tap Skip.",
		"bot.skip":             "Skip",
		"bot.askActivity":      "How active are you?",
		"activity.sedentary":   "Sedentary",
		"activity.light":       "Lightly active",
		"activity.moderate":    "Moderately active",
		"activity.active":      "Very active",
		"bot.askGoal":          "What is your main goal?",
		"goal.lose":            "Lose weight",
		"goal.maintain":        "Maintain weight",
		"goal.gain":            "Gain muscle",
		"bot.askLocation":      "Where do you train?",
		"location.home":        "Home",
		"location.gym":         "Gym",
		"bot.askEquipment":     "What equipment do you have at home? Send a comma-separated list, or tap Skip for bodyweight only.",
		"bot.equipmentNone":    "None (bodyweight only)",
		"bot.askDays":          "Which days do you want to train? Send them separated by commas (e.g. Monday, Wednesday, Friday).",
		"bot.badDays":          "I couldn't recognise those days. Please use full day names, e.g. Monday, Wednesday, Friday.",
		"bot.summary":          "Let's check your data:\n\nGender: %s\nAge: %d\nWeight: %.1f kg\nHeight: %.0f cm\nActivity: %s\nGoal: %s\nLocation: %s\nEquipment: %s\nWorkout days: %s\n\nIs everything correct?",
		"bot.yes":              "Yes, that's right",
		"bot.no":               "No, start over",
		"bot.restart":          "Let's start over. What is your gender?",
		"bot.invalidProfile":   "Some of your answers look invalid. Let's start over with /start.",
		"bot.paymentRequired":  "Thanks! Your profile is saved. A one-time payment is required to generate your plan.",
		"bot.payPrompt":        "Tap the button below to pay:",
		"bot.payButton":        "Pay",
		"bot.paymentError":     "Sorry, we couldn't create the payment session. Please try again later.",
		"bot.paymentThanks":    "Thanks for your payment! Your plan will be ready shortly.",
		"bot.paymentCancelled": "The payment was cancelled. You can try again with /start.",
		"bot.generating":       "⏳ Generating your personalized plan. This can take a couple of minutes...",
		"bot.planReady":        "🎉 Your plan is ready!",
		"bot.noPlan":           "You don't have a plan yet. Use /start to create one.",

		"plan.nutrition": "🥗 Nutrition\n%s",
		"plan.workout":   "🏋️ Training\n%s",
		"plan.day":       "%s: %s (%s)",

		"workout.today":            "Today's workout: %s (%s)",
		"workout.restDay":          "No workout scheduled for today. Enjoy your rest day!",
		"workout.started":          "Workout started: %s. Log sets with /log <exercise> <set> <weight> <reps>.",
		"workout.alreadyActive":    "You already have a workout in progress. Use /finish or /cancel first.",
		"workout.noActive":         "There is no workout in progress. Use /workout to start one.",
		"workout.logUsage":         "Usage: /log <exercise number> <set number> <weight> <reps>",
		"workout.logged":           "Logged set %d of %s: %.1f kg × %d.",
		"workout.badSetIndex":      "That set number is out of range.",
		"workout.exerciseNotFound": "I couldn't find that exercise.",
		"workout.complete":         "✅ All sets done! Use /finish <easy|ideal|hard> to save the workout.",
		"workout.swapUsage":        "Usage: /swap <exercise number>",
		"workout.swapping":         "Looking for an alternative...",
		"workout.swapped":          "Replaced with %s (%s sets × %s reps).",
		"workout.swapError":        "I couldn't find an alternative right now. Please try again later.",
		"workout.finishUsage":      "Usage: /finish <easy|ideal|hard>",
		"workout.finished":         "Workout saved. Great job! 💪",
		"workout.cancelled":        "Workout discarded.",
		"workout.exercise":         "%d. %s: %s × %s, rest %s [%d/%d]",
		"workout.historyEmpty":     "No finished workouts yet.",
		"workout.historyEntry":     "%s: %s (%s)",
		"workout.explainUsage":     "Usage: /explain <exercise number>",
		"workout.speechError":      "Sorry, I couldn't create the audio right now.",

		"meals.today":     "Today's meals (%s):",
		"meals.entry":     "%d. %s %s (%s) %.0f kcal, %.0f g protein",
		"meals.none":      "No meals planned for today.",
		"meals.doneUsage": "Usage: /done <meal number>",
		"meals.toggled":   "Updated %s.",

		"progress.usage":          "Usage: /progress <weight> [chest waist hips]",
		"progress.saved":          "Progress saved.",
		"progress.photoSaved":     "Progress photo saved.",
		"progress.photosDisabled": "Photo storage is not configured.",
		"progress.entry":          "%s: %s",
		"progress.empty":          "No progress entries yet.",

		"analyze.prompt": "Analyze this meal. Estimate the calories and protein, list the main ingredients, and say briefly how it fits a healthy diet. Answer in English.",
		"analyze.error":  "Sorry, I couldn't analyze that photo.",

		"lang.usage":   "Usage: /lang <en|es>",
		"lang.changed": "Language set to English.",
	},
	Spanish: {
		"chat.welcome":        "¡Hola! Soy FitLife AI. Pregúntame lo que quieras sobre tu plan de comidas o dime qué ingrediente quieres cambiar.",
		"chat.error":          "Lo siento, algo salió mal. Inténtalo de nuevo.",
		"chat.contextHeader":  "CONTEXTO: Este es el plan de nutrición actual del usuario. Úsalo para responder preguntas y realizar solicitudes de modificación.",
		"chat.questionHeader": "PREGUNTA DEL USUARIO",

		"gen.timeout": "La generación de tu plan tardó demasiado. Inténtalo de nuevo en unos minutos.",
		"gen.error":   "No pudimos generar tu plan. Inténtalo más tarde.",

		"bot.welcome":          "👋 ¡Bienvenido a FitLife! Crearé un plan de nutrición y entrenamiento personalizado de 7 días. Primero, ¿cuál es tu género?",
		"bot.help":             "Comandos:\n/start - crear tu perfil y plan\n/plan - resumen del plan\n/today - entrenamiento de hoy\n/meals - comidas de hoy\n/done <n> - marcar la comida n\n/workout - empezar el entrenamiento de hoy\n/log <ejercicio> <serie> <peso> <reps> - registrar una serie\n/swap <ejercicio> - cambiar un ejercicio\n/finish <easy|ideal|hard> - terminar el entrenamiento\n/cancel - descartar el entrenamiento\n/explain <ejercicio> - escuchar la descripción de un ejercicio\n/progress <peso> [pecho cintura cadera] - registrar progreso\n/history - historial de entrenamientos\n/regenerate - crear un plan nuevo\n/lang <en|es> - cambiar idioma\nCualquier otro texto va al asistente de nutrición. Envía una foto para guardarla como foto de progreso, o con el texto /analyze para analizar una comida.",
		"bot.unknownCommand":   "Comando desconocido. Usa /help para ver lo que puedo hacer.",
		"bot.useStart":         "Usa /start para configurar tu perfil primero.",
		"bot.chooseButtons":    "Elige una de las opciones de abajo.",
		"bot.rateLimited":      "Vas un poco rápido. Espera un momento.",
		"bot.saveError":        "Lo siento, no pudimos guardar tus datos. Inténtalo más tarde.",
		"bot.genderMale":       "Hombre",
		"bot.genderFemale":     "Mujer",
		"bot.askAge":           "¿Cuántos años tienes?",
		"bot.badAge":           "Introduce una edad válida (12-100):",
		"bot.askWeight":        "¿Cuál es tu peso en kilogramos (ej. 70)?",
		"bot.badWeight":        "Introduce un peso válido en kilogramos (30-300):",
		"bot.askHeight":        "¿Cuál es tu altura en centímetros (ej. 175)?",
		"bot.badHeight":        "Introduce una altura válida en centímetros (100-250):",
		"bot.askMeasurements":  "Opcional: envía pecho, cintura y cadera en cm separados por espacios (ej. 100 80 95), o pulsa Omitir.",
		"bot.badMeasurements":  "Envía tres números (pecho cintura cadera) o pulsa Omitir.",
		"bot.skip":             "Omitir",
		"bot.askActivity":      "¿Qué tan activo eres?",
		"activity.sedentary":   "Sedentario",
		"activity.light":       "Ligeramente activo",
		"activity.moderate":    "Moderadamente activo",
		"activity.active":      "Muy activo",
		"bot.askGoal":          "¿Cuál es tu objetivo principal?",
		"goal.lose":            "Perder peso",
		"goal.maintain":        "Mantener peso",
		"goal.gain":            "Ganar músculo",
		"bot.askLocation":      "¿Dónde entrenas?",
		"location.home":        "Casa",
		"location.gym":         "Gimnasio",
		"bot.askEquipment":     "¿Qué equipamiento tienes en casa? Envía una lista separada por comas, o pulsa Omitir si solo usas tu peso corporal.",
		"bot.equipmentNone":    "Ninguno (solo peso corporal)",
		"bot.askDays":          "¿Qué días quieres entrenar? Envíalos separados por comas (ej. Lunes, Miércoles, Viernes).",
		"bot.badDays":          "No reconocí esos días. Usa nombres completos, ej. Lunes, Miércoles, Viernes.",
		"bot.summary":          "Revisemos tus datos:\n\nGénero: %s\nEdad: %d\nPeso: %.1f kg\nAltura: %.0f cm\nActividad: %s\nObjetivo: %s\nLugar: %s\nEquipamiento: %s\nDías de entrenamiento: %s\n\n¿Todo correcto?",
		"bot.yes":              "Sí, todo correcto",
		"bot.no":               "No, empezar de nuevo",
		"bot.restart":          "Empecemos de nuevo. ¿Cuál es tu género?",
		"bot.invalidProfile":   "Algunas respuestas no son válidas. Empecemos de nuevo con /start.",
		"bot.paymentRequired":  "¡Gracias! Tu perfil está guardado. Se requiere un pago único para generar tu plan.",
		"bot.payPrompt":        "Pulsa el botón de abajo para pagar:",
		"bot.payButton":        "Pagar",
		"bot.paymentError":     "Lo siento, no pudimos crear la sesión de pago. Inténtalo más tarde.",
		"bot.paymentThanks":    "¡Gracias por tu pago! Tu plan estará listo en breve.",
		"bot.paymentCancelled": "El pago fue cancelado. Puedes intentarlo de nuevo con /start.",
		"bot.generating":       "⏳ Generando tu plan personalizado. Esto puede tardar un par de minutos...",
		"bot.planReady":        "🎉 ¡Tu plan está listo!",
		"bot.noPlan":           "Todavía no tienes un plan. Usa /start para crear uno.",

		"plan.nutrition": "🥗 Nutrición\n%s",
		"plan.workout":   "🏋️ Entrenamiento\n%s",

		"workout.today":            "Entrenamiento de hoy: %s (%s)",
		"workout.restDay":          "Hoy no hay entrenamiento. ¡Disfruta tu día de descanso!",
		"workout.started":          "Entrenamiento iniciado: %s. Registra series con /log <ejercicio> <serie> <peso> <reps>.",
		"workout.alreadyActive":    "Ya tienes un entrenamiento en curso. Usa /finish o /cancel primero.",
		"workout.noActive":         "No hay ningún entrenamiento en curso. Usa /workout para empezar uno.",
		"workout.logUsage":         "Uso: /log <número de ejercicio> <número de serie> <peso> <reps>",
		"workout.logged":           "Serie %d de %s registrada: %.1f kg × %d.",
		"workout.badSetIndex":      "Ese número de serie está fuera de rango.",
		"workout.exerciseNotFound": "No encontré ese ejercicio.",
		"workout.complete":         "✅ ¡Todas las series hechas! Usa /finish <easy|ideal|hard> para guardar el entrenamiento.",
		"workout.swapUsage":        "Uso: /swap <número de ejercicio>",
		"workout.swapping":         "Buscando una alternativa...",
		"workout.swapped":          "Reemplazado por %s (%s series × %s reps).",
		"workout.swapError":        "No pude encontrar una alternativa ahora. Inténtalo más tarde.",
		"workout.finishUsage":      "Uso: /finish <easy|ideal|hard>",
		"workout.finished":         "Entrenamiento guardado. ¡Buen trabajo! 💪",
		"workout.cancelled":        "Entrenamiento descartado.",
		"workout.exercise":         "%d. %s: %s × %s, descanso %s [%d/%d]",
		"workout.historyEmpty":     "Todavía no hay entrenamientos terminados.",
		"workout.explainUsage":     "Uso: /explain <número de ejercicio>",
		"workout.speechError":      "Lo siento, no pude crear el audio ahora.",

		"meals.today":     "Comidas de hoy (%s):",
		"meals.entry":     "%d. %s %s (%s) %.0f kcal, %.0f g proteína",
		"meals.none":      "No hay comidas planificadas para hoy.",
		"meals.doneUsage": "Uso: /done <número de comida>",
		"meals.toggled":   "%s actualizado.",

		"progress.usage":          "Uso: /progress <peso> [pecho cintura cadera]",
		"progress.saved":          "Progreso guardado.",
		"progress.photoSaved":     "Foto de progreso guardada.",
		"progress.photosDisabled": "El almacenamiento de fotos no está configurado.",
		"progress.empty":          "Todavía no hay registros de progreso.",

		"analyze.prompt": "Analiza esta comida. Estima las calorías y proteínas, enumera los ingredientes principales y di brevemente cómo encaja en una dieta saludable. Responde en español.",
		"analyze.error":  "Lo siento, no pude analizar esa foto.",

		"lang.usage":   "Uso: /lang <en|es>",
		"lang.changed": "Idioma cambiado a español.",
	},
}
