package main

import (
	"strings"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func logLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return log.TraceLevel
	case "DEBUG":
		return log.DebugLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// initLogger sets the level and, when file is set, copies every entry to a
// rotated log file
func initLogger(level string, file string, maxAgeDays int) {
	log.SetLevel(logLevel(level))
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if len(file) == 0 {
		return
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    100,
		MaxBackups: 30,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
	hook := lfshook.NewHook(lfshook.WriterMap{
		log.PanicLevel: lumberjackLogger,
		log.FatalLevel: lumberjackLogger,
		log.ErrorLevel: lumberjackLogger,
		log.WarnLevel:  lumberjackLogger,
		log.InfoLevel:  lumberjackLogger,
		log.DebugLevel: lumberjackLogger,
		log.TraceLevel: lumberjackLogger,
	}, fileFmt)

	log.AddHook(hook)
}
