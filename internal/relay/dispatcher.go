package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"timersync/internal/core/model"
)

// ErrUnimplemented is returned for commands the core does not recognize.
var ErrUnimplemented = errors.New("unimplemented command")

// Command names accepted by the dispatcher. Each has a long alias used by the mobile channel.
const (
	CommandStart      = "start"
	CommandPause      = "pause"
	CommandResume     = "resume"
	CommandSkip       = "skip"
	CommandStop       = "stop"
	CommandPermission = "requestPermission"
)

var commandAliases = map[string]string{
	"startTimerNotification":        CommandStart,
	"pauseTimerNotification":        CommandPause,
	"resumeTimerNotification":       CommandResume,
	"skipTimerNotification":         CommandSkip,
	"stopTimerNotification":         CommandStop,
	"requestNotificationPermission": CommandPermission,
}

// Argument keys.
const (
	ArgEndTimeMillis   = "endTimeMillis"
	ArgRemainingMillis = "remainingMillis"
	ArgTitle           = "title"
	ArgMode            = "mode"
)

// Controller is the command surface of the timer core.
type Controller interface {
	Start(endTime time.Time, title string, mode model.Mode)
	Pause()
	PauseAt(remaining time.Duration)
	Resume()
	ResumeUntil(endTime time.Time)
	Skip()
	Stop()
	Snapshot() model.Snapshot
}

// Command is one inbound request from the application.
type Command struct {
	Method string         `json:"method"`
	Args   map[string]any `json:"args,omitempty"`
}

// Dispatcher decodes commands and applies them to the controller.
// Missing or malformed arguments are never rejected; documented defaults apply.
type Dispatcher struct {
	controller Controller
	permission func() error
	logger     *log.Logger
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithPermission sets the handler for permission requests.
func WithPermission(fn func() error) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		dispatcher.permission = fn
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *log.Logger) DispatcherOption {
	return func(dispatcher *Dispatcher) {
		dispatcher.logger = logger
	}
}

// NewDispatcher creates a dispatcher for controller.
func NewDispatcher(controller Controller, options ...DispatcherOption) *Dispatcher {
	dispatcher := &Dispatcher{controller: controller, logger: log.Default()}
	for _, option := range options {
		option(dispatcher)
	}
	return dispatcher
}

// Snapshot returns the controller snapshot.
func (dispatcher *Dispatcher) Snapshot() model.Snapshot {
	return dispatcher.controller.Snapshot()
}

// Canonical resolves a long channel method name to its short command name.
func Canonical(method string) string {
	if alias, ok := commandAliases[method]; ok {
		return alias
	}
	return method
}

// Dispatch applies cmd. Only unknown methods fail, with ErrUnimplemented.
func (dispatcher *Dispatcher) Dispatch(cmd Command) error {
	switch Canonical(cmd.Method) {
	case CommandStart:
		endMillis, _ := int64Arg(cmd.Args, ArgEndTimeMillis)
		title, _ := stringArg(cmd.Args, ArgTitle)
		mode, _ := stringArg(cmd.Args, ArgMode)
		dispatcher.controller.Start(time.UnixMilli(endMillis), title, model.ParseMode(mode))
	case CommandPause:
		remaining, _ := int64Arg(cmd.Args, ArgRemainingMillis)
		if remaining < 0 {
			dispatcher.controller.Pause()
		} else {
			dispatcher.controller.PauseAt(millisDuration(remaining))
		}
	case CommandResume:
		endMillis, _ := int64Arg(cmd.Args, ArgEndTimeMillis)
		if endMillis > 0 {
			dispatcher.controller.ResumeUntil(time.UnixMilli(endMillis))
		} else {
			dispatcher.controller.Resume()
		}
	case CommandSkip:
		dispatcher.controller.Skip()
	case CommandStop:
		dispatcher.controller.Stop()
	case CommandPermission:
		if dispatcher.permission != nil {
			if err := dispatcher.permission(); err != nil {
				dispatcher.logger.Printf("relay: permission request: %v", err)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnimplemented, cmd.Method)
	}
	return nil
}

func int64Arg(args map[string]any, key string) (int64, bool) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch value := raw.(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case float64:
		return floatToInt64(value)
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			asFloat, floatErr := value.Float64()
			if floatErr != nil {
				return 0, false
			}
			return floatToInt64(asFloat)
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// floatToInt64 truncates value, saturating at the int64 range.
func floatToInt64(value float64) (int64, bool) {
	switch {
	case math.IsNaN(value):
		return 0, false
	case value >= math.MaxInt64:
		return math.MaxInt64, true
	case value <= math.MinInt64:
		return math.MinInt64, true
	default:
		return int64(value), true
	}
}

// millisDuration converts milliseconds to a Duration, saturating instead of overflowing.
func millisDuration(millis int64) time.Duration {
	const limit = math.MaxInt64 / int64(time.Millisecond)
	if millis > limit {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(millis) * time.Millisecond
}

func stringArg(args map[string]any, key string) (string, bool) {
	value, ok := args[key].(string)
	return value, ok
}
