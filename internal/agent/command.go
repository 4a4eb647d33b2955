package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitlife-bot/internal/gpt"
	"fitlife-bot/internal/mutator"
)

// Command is a parsed function call. The set of variants is closed.
type Command interface {
	command()
}

type UpdateMealIngredientCommand struct {
	Args mutator.UpdateMealIngredientArgs
}

type UnknownCommand struct {
	Name string
}

// InvalidArgumentsCommand is a known function whose arguments could not be used.
type InvalidArgumentsCommand struct {
	Name string
	Err  error
}

func (UpdateMealIngredientCommand) command() {}
func (UnknownCommand) command()              {}
func (InvalidArgumentsCommand) command()     {}

// ParseCommand turns a function call into a Command.
func ParseCommand(call gpt.FunctionCall) Command {
	switch call.Name {
	case gpt.UpdateMealIngredientTool:
		var args mutator.UpdateMealIngredientArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return InvalidArgumentsCommand{Name: call.Name, Err: fmt.Errorf("malformed arguments: %w", err)}
		}
		if err := validateUpdateArgs(args); err != nil {
			return InvalidArgumentsCommand{Name: call.Name, Err: err}
		}
		return UpdateMealIngredientCommand{Args: args}
	default:
		return UnknownCommand{Name: call.Name}
	}
}

func validateUpdateArgs(args mutator.UpdateMealIngredientArgs) error {
	var missing []string
	if strings.TrimSpace(args.Day) == "" {
		missing = append(missing, "day")
	}
	if strings.TrimSpace(args.MealName) == "" {
		missing = append(missing, "mealName")
	}
	if strings.TrimSpace(args.OldIngredient) == "" {
		missing = append(missing, "oldIngredient")
	}
	if strings.TrimSpace(args.NewIngredient) == "" {
		missing = append(missing, "newIngredient")
	}
	if len(missing) > 0 {
		return errors.New("missing required arguments: " + strings.Join(missing, ", "))
	}
	return nil
}
