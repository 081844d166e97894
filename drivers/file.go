package drivers

import (
	"bufio"
	"fmt"
	"os"

	"arduplot/config"
	"arduplot/logging"
	"arduplot/utils"

	"go.uber.org/zap"
)

const (
	LOG_NAME             = "PLOTLOG"
	LOG_EXT              = ".txt"
	WRITE_EVERY_N_FRAMES = 100
)

// File records frames to the next free PLOTLOG file in the log directory, so a session can be inspected or piped
// into a listener later.
type File struct {
	*config.FileFlags
	file   *os.File
	writer *bufio.Writer
	writes int
	log    *zap.Logger
}

func NewFile(fileFlags *config.FileFlags) *File {
	return &File{
		FileFlags: fileFlags,
		log:       logging.Named("file"),
	}
}

func (f *File) Init() error {
	filePath, err := utils.NextAvailableFilename(f.Dir, LOG_NAME, LOG_EXT)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open plotlog: %w", err)
	}
	f.file = file
	f.writer = bufio.NewWriterSize(file, 1<<20)
	f.log.Info("recording", zap.String("path", filePath))
	return nil
}

// Path is the file being recorded to, empty before Init.
func (f *File) Path() string {
	if f.file == nil {
		return ""
	}
	return f.file.Name()
}

func (f *File) Write(p []byte) (int, error) {
	if f.writer == nil {
		return 0, ErrNotInitialised
	}
	n, err := f.writer.Write(p)
	if err != nil {
		return n, fmt.Errorf("plotlog write: %w", err)
	}
	f.writes++
	if (f.writes % WRITE_EVERY_N_FRAMES) == 0 {
		if err := f.writer.Flush(); err != nil {
			f.log.Warn("flush failed", zap.Error(err))
		}
	}
	return n, nil
}

func (f *File) Close() error {
	if f.file == nil {
		return nil
	}
	flushErr := f.writer.Flush()
	closeErr := f.file.Close()
	f.file, f.writer = nil, nil
	if flushErr != nil {
		return fmt.Errorf("flush plotlog: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close plotlog: %w", closeErr)
	}
	return nil
}
