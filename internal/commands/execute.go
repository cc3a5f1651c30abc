package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(TargetArgs) (Result, error)
	Remove   func(TargetArgs) (Result, error)
	Wrap     func() (Result, error)
	Filter   func(FilterArgs) (Result, error)
	Rollover func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Target)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remove(*cmd.Target)
	case TypeWrap:
		if handlers.Wrap == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Wrap()
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Filter(*cmd.Filter)
	case TypeRollover:
		if handlers.Rollover == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Rollover()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
