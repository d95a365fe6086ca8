package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// https://github.com/Sirupsen/logrus/issues/230#issuecomment-323387380

// LogrusFileHook writes every entry as one JSON line into a file
type LogrusFileHook struct {
	sync.Mutex
	file      *os.File
	formatter *logrus.JSONFormatter
}

func NewLogrusFileHook(file string, flag int, chmod os.FileMode) (*LogrusFileHook, error) {
	logFile, err := os.OpenFile(file, flag, chmod)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write file on filehook %v", err)
		return nil, err
	}

	return &LogrusFileHook{file: logFile, formatter: &logrus.JSONFormatter{}}, nil
}

// Fire event
func (hook *LogrusFileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	hook.Lock()
	defer hook.Unlock()

	_, err = hook.file.Write(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write file on filehook(entry.String)%v", err)
		return err
	}

	return nil
}

func (hook *LogrusFileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Close closes the underlying file
func (hook *LogrusFileHook) Close() error {
	return hook.file.Close()
}
