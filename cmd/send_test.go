package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timersync/internal/core/timekeeper"
	"timersync/internal/relay"
)

func TestBuildArgsStart(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	args := buildArgs("startTimerNotification", sendOptions{endIn: 25 * time.Minute, title: "Deep work", mode: "focus"}, now, false, false)

	require.Equal(t, now.Add(25*time.Minute).UnixMilli(), args[relay.ArgEndTimeMillis])
	require.Equal(t, "Deep work", args[relay.ArgTitle])
	require.Equal(t, "focus", args[relay.ArgMode])
}

func TestBuildArgsPauseDerivesUnlessRemainingSet(t *testing.T) {
	now := time.Now()
	require.Equal(t, map[string]any{relay.ArgRemainingMillis: -1}, buildArgs("pause", sendOptions{}, now, false, false))

	args := buildArgs("pause", sendOptions{remaining: 20 * time.Minute}, now, true, false)
	require.Equal(t, int64(1_200_000), args[relay.ArgRemainingMillis])
}

func TestBuildArgsResume(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	require.Nil(t, buildArgs("resume", sendOptions{endIn: time.Minute}, now, false, false))

	args := buildArgs("resume", sendOptions{endIn: time.Minute}, now, false, true)
	require.Equal(t, now.Add(time.Minute).UnixMilli(), args[relay.ArgEndTimeMillis])
}

func TestBuildArgsWithoutArguments(t *testing.T) {
	require.Nil(t, buildArgs("skip", sendOptions{}, time.Now(), false, false))
	require.Nil(t, buildArgs("rewind", sendOptions{}, time.Now(), false, false))
}

func TestFormatEvent(t *testing.T) {
	line := formatEvent(timekeeper.Event{Action: timekeeper.ActionPaused, RemainingMillis: 1_200_000, IsPaused: true})
	require.Contains(t, line, "paused")
	require.Contains(t, line, "20:00")
	require.Contains(t, line, "(paused)")
}
