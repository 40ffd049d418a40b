package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"timersync/internal/core/model"
	"timersync/internal/core/timekeeper"
	"timersync/internal/platform"
	"timersync/internal/projector"
	"timersync/internal/relay"
	"timersync/internal/relay/httpapi"
)

var actionStyle = lipgloss.NewStyle().Bold(true)

type sendOptions struct {
	endIn     time.Duration
	remaining time.Duration
	title     string
	mode      string
}

func newSendCmd() *cobra.Command {
	var options sendOptions

	cmd := &cobra.Command{
		Use:   "send <start|pause|resume|skip|stop|requestPermission>",
		Short: "Send a command to the running timer core",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := args[0]
			client := httpapi.NewClient(relayAddress(), nil)

			snapshot, err := client.Send(cmd.Context(), method, buildArgs(method, options, time.Now(), cmd.Flags().Changed("remaining"), cmd.Flags().Changed("end-in")))
			if err != nil {
				return err
			}
			return printJSON(cmd, snapshot)
		},
	}
	cmd.Flags().DurationVar(&options.endIn, "end-in", 25*time.Minute, "start/resume: countdown length from now")
	cmd.Flags().DurationVar(&options.remaining, "remaining", 0, "pause: frozen remaining time (default: derive from end time)")
	cmd.Flags().StringVar(&options.title, "title", "", "start: display title")
	cmd.Flags().StringVar(&options.mode, "mode", string(model.ModeFocus), "start: focus, shortBreak or longBreak")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print relay events as they happen",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := httpapi.NewClient(relayAddress(), nil)
			return client.Watch(cmd.Context(), func(event timekeeper.Event) {
				fmt.Fprintln(cmd.OutOrStdout(), formatEvent(event))
			})
		},
	}
}

// buildArgs maps CLI flags to relay arguments. An unset --remaining asks the
// core to derive the value instead of pausing at zero.
func buildArgs(method string, options sendOptions, now time.Time, remainingSet, endInSet bool) map[string]any {
	switch relay.Canonical(method) {
	case relay.CommandStart:
		args := map[string]any{
			relay.ArgEndTimeMillis: now.Add(options.endIn).UnixMilli(),
			relay.ArgMode:          options.mode,
		}
		if options.title != "" {
			args[relay.ArgTitle] = options.title
		}
		return args
	case relay.CommandPause:
		if !remainingSet {
			return map[string]any{relay.ArgRemainingMillis: -1}
		}
		return map[string]any{relay.ArgRemainingMillis: options.remaining.Milliseconds()}
	case relay.CommandResume:
		if !endInSet {
			return nil
		}
		return map[string]any{relay.ArgEndTimeMillis: now.Add(options.endIn).UnixMilli()}
	default:
		return nil
	}
}

func formatEvent(event timekeeper.Event) string {
	remaining := projector.FormatRemaining(time.Duration(event.RemainingMillis) * time.Millisecond)
	line := fmt.Sprintf("%-15s %s", actionStyle.Render(string(event.Action)), remaining)
	if event.IsPaused {
		line += " (paused)"
	}
	return line
}

func relayAddress() string {
	return platform.RelayAddress(appName, loadSettings().ListenPort)
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
