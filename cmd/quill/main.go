package main

import (
	"fmt"
	stlog "log"
	"os"
	"path/filepath"

	"github.com/bethropolis/quill/internal/config"
	"github.com/bethropolis/quill/internal/editor"
	"github.com/bethropolis/quill/internal/logger"
)

const version = "0.1.0"

func main() {
	flags := &config.Flags{}
	args := flags.ParseFlags()

	if flags.Version != nil && *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	cfg, err := config.LoadConfig(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Fatalf("Failed to load configuration: %v", err)
	}

	logOut := os.Stderr
	logPath := cfg.Logger.LogFilePath
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), config.DefaultLogFileName)
	}
	if logPath != "-" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logPath, err)
		}
		defer f.Close()
		logOut = f
	}
	logger.InitWithConfig(cfg.Logger, logOut)

	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}
	logger.Infof("starting %s", config.AppName)

	ed, err := editor.New(filePath, cfg)
	if err != nil {
		logger.Errorf("error initializing editor: %v", err)
		os.Exit(1)
	}
	if err := ed.Run(); err != nil {
		logger.Errorf("editor exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("%s finished", config.AppName)
}
