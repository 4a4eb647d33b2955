package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/models"
	"fitlife-bot/internal/service"
	"fitlife-bot/internal/workout"
)

// parseNumber accepts both "72.5" and "72,5".
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// parseMeasurements reads chest, waist and hips in that order.
func parseMeasurements(fields []string) (*models.Measurements, error) {
	if len(fields) != 3 {
		return nil, errors.New("expected chest, waist and hips")
	}
	values := make([]float64, 3)
	for i, f := range fields {
		v, err := parseNumber(f)
		if err != nil || v <= 0 || v >= 300 {
			return nil, fmt.Errorf("invalid measurement %q", f)
		}
		values[i] = v
	}
	return &models.Measurements{Chest: values[0], Waist: values[1], Hips: values[2]}, nil
}

func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseDays maps a comma separated list of day names to lang's labels,
// dropping duplicates. Any unknown name fails the whole list.
func parseDays(text string, lang i18n.Language) ([]string, bool) {
	parts := splitList(text)
	if len(parts) == 0 || len(parts) > 7 {
		return nil, false
	}
	seen := make(map[string]bool, len(parts))
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		day, ok := lang.ParseWeekday(p)
		if !ok {
			return nil, false
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, true
}

func formatSummary(p *models.UserProfile, lang i18n.Language) string {
	location := lang.T("location.gym")
	if p.WorkoutLocation == models.LocationHome {
		location = lang.T("location.home")
	}
	return lang.T("bot.summary",
		p.Gender, p.Age, p.Weight, p.Height,
		p.ActivityLevel, p.Goal, location,
		p.EquipmentList(lang.T("bot.equipmentNone")),
		strings.Join(p.WorkoutDays, ", "),
	)
}

func formatPlan(plan *models.Plan, lang i18n.Language) string {
	var b strings.Builder
	b.WriteString(lang.T("plan.nutrition", plan.NutritionPlan.Summary))
	b.WriteString("\n\n")
	b.WriteString(lang.T("plan.workout", plan.WorkoutPlan.Summary))
	for _, day := range plan.WorkoutPlan.Schedule {
		b.WriteString("\n")
		b.WriteString(lang.T("plan.day", day.Day, day.Focus, day.Duration))
	}
	return b.String()
}

// formatWorkout lists the exercises with logged/prescribed sets. session may be nil.
func formatWorkout(w *models.DailyWorkout, session *models.ActiveWorkoutSession, lang i18n.Language) string {
	var b strings.Builder
	b.WriteString(lang.T("workout.today", w.Focus, w.Day))
	marker := lang.WarmupMarker()
	for i, ex := range w.Exercises {
		b.WriteString("\n")
		b.WriteString(lang.T("workout.exercise",
			i+1, ex.Name, ex.Sets, ex.Reps, ex.Rest,
			workout.CompletedSets(session, ex.ID), workout.PrescribedSets(ex, marker),
		))
	}
	return b.String()
}

func formatMeals(meals service.TodaysMeals, lang i18n.Language) string {
	if len(meals.Day.Meals) == 0 {
		return lang.T("meals.none")
	}
	var b strings.Builder
	b.WriteString(lang.T("meals.today", meals.Day.Day))
	for i, m := range meals.Day.Meals {
		check := "⬜"
		if meals.Completed[m.ID] {
			check = "✅"
		}
		b.WriteString("\n")
		b.WriteString(lang.T("meals.entry", i+1, check, m.Name, m.Time, m.Calories, m.Protein))
	}
	return b.String()
}

func formatHistory(history []models.ActiveWorkoutSession, lang i18n.Language) string {
	if len(history) == 0 {
		return lang.T("workout.historyEmpty")
	}
	lines := make([]string, 0, len(history))
	for _, s := range history {
		date := time.UnixMilli(s.StartTime).UTC().Format(time.DateOnly)
		lines = append(lines, lang.T("workout.historyEntry", date, s.WorkoutName, s.Feedback))
	}
	return strings.Join(lines, "\n")
}

// formatProgress lists entries oldest first. photoURL turns a stored key into a link.
func formatProgress(entries []models.ProgressEntry, lang i18n.Language, photoURL func(string) string) string {
	if len(entries) == 0 {
		return lang.T("progress.empty")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		date := e.Date
		if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
			date = t.Format(time.DateOnly)
		}

		var parts []string
		if e.Weight != nil {
			parts = append(parts, fmt.Sprintf("%.1f kg", *e.Weight))
		}
		if m := e.Measurements; m.Any() {
			parts = append(parts, fmt.Sprintf("%g/%g/%g cm", m.Chest, m.Waist, m.Hips))
		}
		if e.Photo != "" {
			if url := photoURL(e.Photo); url != "" {
				parts = append(parts, url)
			} else {
				parts = append(parts, "📷")
			}
		}
		lines = append(lines, lang.T("progress.entry", date, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}
