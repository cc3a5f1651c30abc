package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/tasks"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeRemove   Type = "rm"
	TypeWrap     Type = "wrap"
	TypeFilter   Type = "filter"
	TypeRollover Type = "rollover"
)

// TargetSelected points at the row under the cursor.
const TargetSelected = "selected"

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries the title and bucket. A leading @today or @tomorrow token
// picks the bucket; today is the default.
type AddArgs struct {
	Title    string
	Category model.Category
}

// TargetArgs names a task by "selected", a 1-based row number in the
// visible list, or an id prefix.
type TargetArgs struct {
	Target string
}

type FilterArgs struct {
	Filter tasks.Filter
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Filter *FilterArgs
}

var aliases = map[string]Type{
	"new":    TypeAdd,
	"toggle": TypeDone,
	"delete": TypeRemove,
	"del":    TypeRemove,
	"show":   TypeFilter,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	if alias, ok := aliases[string(head)]; ok {
		head = alias
	}
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeRemove:
		return parseTarget(input, head, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeWrap, TypeRollover:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: head, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	category := model.CategoryToday
	if len(args) > 0 && strings.HasPrefix(args[0], "@") {
		c, err := model.ParseCategory(strings.TrimPrefix(args[0], "@"))
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown bucket %s", args[0])}
		}
		category = c
		args = args[1:]
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Category: category}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	target := TargetSelected
	switch len(args) {
	case 0:
	case 1:
		target = strings.ToLower(args[0])
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes one target", typ)}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: target}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires one of all, today, tomorrow, completed"}
	}
	f := tasks.Filter(strings.ToLower(args[0]))
	if !f.IsValid() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown filter %s", args[0])}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}
