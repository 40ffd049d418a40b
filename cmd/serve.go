package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"timersync/internal/core/model"
	"timersync/internal/core/timekeeper"
	"timersync/internal/platform"
	"timersync/internal/preferences"
	"timersync/internal/projector"
	"timersync/internal/relay"
	"timersync/internal/relay/httpapi"
	"timersync/internal/storage"
	"timersync/internal/ui/activity"
	settingsui "timersync/internal/ui/settings"
	"timersync/internal/ui/tray"
	"timersync/resources"
)

const shutdownTimeout = 2 * time.Second

func newServeCmd() *cobra.Command {
	var surfaceFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the timer core until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := loadSettings()
			if surfaceFlag != "" {
				kind, ok := preferences.ParseSurfaceKind(surfaceFlag)
				if !ok {
					return fmt.Errorf("unknown surface %q", surfaceFlag)
				}
				settings.Surface = kind
			}
			return serve(cmd.Context(), settings)
		},
	}
	cmd.Flags().StringVar(&surfaceFlag, "surface", "", "auto, tray, activity, desktop, console or none")
	return cmd
}

func serve(parent context.Context, settings preferences.Settings) error {
	guard, err := platform.ClaimRelayListener(appName, settings.ListenPort)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub(log.Default())

	// Surface buttons call back into the keeper, which is created after the backend.
	var keeper *timekeeper.TimeKeeper
	onButton := func(button model.Button) {
		keeper.HandleButton(button)
	}

	backend, fyneApp := selectBackend(settings, onButton, stop)
	surface := projector.New(backend)
	keeper = timekeeper.New(settings.TimeKeeperConfig(), timekeeper.Options{
		Surface:   surface,
		Publisher: hub,
	})
	dispatcher := relay.NewDispatcher(keeper, relay.WithPermission(surface.EnsurePermission))

	serveCtx, cancelServe := context.WithCancel(context.Background())
	defer cancelServe()
	server := &http.Server{
		Handler:           httpapi.NewRouter(dispatcher, hub, httpapi.Config{EventBuffer: settings.EventBuffer, AccessLog: settings.AccessLog}),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return serveCtx },
	}
	go func() {
		if err := server.Serve(guard.Listener()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("relay: serve: %v", err)
			stop()
		}
	}()
	log.Printf("relay: listening on %s (surface %s)", guard.Address(), settings.Surface)

	if fyneApp != nil {
		go func() {
			<-ctx.Done()
			fyne.Do(fyneApp.Quit)
		}()
		fyneApp.Run()
	} else {
		<-ctx.Done()
	}

	keeper.Stop()
	// Event streams only end when their request context does.
	cancelServe()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown relay: %w", err)
	}
	return nil
}

// selectBackend is the single capability check: every later projector call
// goes to whatever it returns, the no-op backend included.
func selectBackend(settings preferences.Settings, onButton func(model.Button), quit func()) (projector.Backend, fyne.App) {
	kind := settings.Surface
	switch kind {
	case preferences.SurfaceNone:
		return projector.Noop{}, nil
	case preferences.SurfaceConsole:
		return projector.NewConsole(os.Stdout), nil
	case preferences.SurfaceAuto:
		if !platform.DesktopAvailable() {
			return projector.Noop{}, nil
		}
		kind = preferences.SurfaceTray
	}

	if kind.NeedsDesktop() && !platform.DesktopAvailable() {
		log.Printf("surface: no desktop session, %s surface disabled", kind)
		return projector.Noop{}, nil
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())

	var backends []projector.Backend
	if kind == preferences.SurfaceTray || kind == preferences.SurfaceDesktop {
		settingsWindow := settingsui.New(fyneApp, settings, saveSettings)
		banner, err := tray.New(fyneApp, tray.Callbacks{
			OnButton:      onButton,
			OnPreferences: settingsWindow.Show,
			OnQuit:        quit,
		})
		if err != nil {
			log.Printf("surface: %v", err)
		} else {
			installTrayWindow(fyneApp)
			backends = append(backends, banner)
		}
	}
	if kind == preferences.SurfaceActivity || kind == preferences.SurfaceDesktop {
		backends = append(backends, activity.New(fyneApp, onButton))
	}
	if len(backends) == 0 {
		return projector.Noop{}, fyneApp
	}
	return projector.NewMulti(backends...), fyneApp
}

func installTrayWindow(fyneApp fyne.App) {
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return
	}
	trayWindow := fyneApp.NewWindow("Timer")
	trayWindow.SetContent(widget.NewLabel("The timer is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)
}

func saveSettings(settings preferences.Settings) {
	path := configPath
	if path == "" {
		resolved, err := storage.ResolveConfigPath(appName)
		if err != nil {
			log.Printf("settings: %v", err)
			return
		}
		path = resolved
	}
	if err := storage.SaveSettingsFile(path, settings); err != nil {
		log.Printf("settings: %v", err)
		return
	}
	log.Printf("settings: saved to %s", path)
}
