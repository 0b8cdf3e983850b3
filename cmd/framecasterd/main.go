package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/framecaster/pkg/capture"
	"github.com/tauraamui/framecaster/pkg/caster"
	"github.com/tauraamui/framecaster/pkg/config"
	"github.com/tauraamui/framecaster/pkg/configdef"
	"golang.org/x/term"
)

const (
	name        = "framecasterd"
	description = "Framecaster service daemon which publishes camera frames to shared memory and streams JPEGs over TCP"
)

type Service struct {
	daemon.Daemon
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: framecasterd setup | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			if err := config.Create(); err != nil {
				if err == configdef.ErrConfigAlreadyExists {
					return "Config file already exists...", nil
				}
				return "Unable to create config file", err
			}
			return "Created default config file...", nil
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	logging.Info("Starting framecaster daemon...")

	values, err := config.Load()
	if err != nil {
		return "Unable to load config", err
	}

	if values.Debug {
		logging.SetLevel(logging.DebugLevel)
	}

	logging.Info("Capturing from camera unit %d...", values.CameraUnit)
	driver := capture.Resolve(values.CaptureBackend)
	server, err := caster.NewServer(values, driver)
	if err != nil {
		return "Unable to start framecaster server", err
	}

	if err := server.Run(context.Background()); err != nil {
		return "Unable to begin capture", err
	}

	keypress, restoreTerm := blockOnKeyPress()
	defer restoreTerm()

	select {
	case killSignal := <-interrupt:
		logging.Error("Received signal: %s", killSignal)
	case <-keypress:
		logging.Warn("Key pressed, stopping...")
	}

	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

// blockOnKeyPress arms single keypress shutdown. When stdin is not a
// terminal, such as under service supervision, the returned channel
// never fires and signals remain the only way out.
func blockOnKeyPress() (chan interface{}, func()) {
	keypress := make(chan interface{})
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return keypress, func() {}
	}

	go func() {
		buf := make([]byte, 1)
		if _, err := os.Stdin.Read(buf); err == nil {
			close(keypress)
		}
	}()

	return keypress, func() { term.Restore(fd, state) }
}

func init() {
	logging.ColorLogLevelLabelOnly = true
	logLevel := strings.ToLower(os.Getenv("FRAMECASTER_LOGGING_LEVEL"))
	switch logLevel {
	case "info":
		logging.SetLevel(logging.InfoLevel)
	case "warn":
		logging.SetLevel(logging.WarnLevel)
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	default:
		logging.SetLevel(logging.WarnLevel)
	}
	if logLevel == "debug" {
		logging.Debug("Set logging level to debug...")
	}
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error())
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(fmt.Sprint(status, err.Error()))
		os.Exit(1)
	}

	fmt.Println(status)
}
