package site

import (
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// staging writes a build into <output>_stage and swaps it into place once every
// file is written, so readers never see a half written site.
type staging struct {
	outputDir string
	stageDir  string
}

func beginStaging(outputDir string) (*staging, error) {
	stage := filepath.Clean(outputDir) + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return nil, fsError(err, "failed to clear staging directory", stage)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return nil, fsError(err, "failed to create staging directory", stage)
	}
	slog.Debug("Initialized staging directory", logfields.Path(stage))
	return &staging{outputDir: filepath.Clean(outputDir), stageDir: stage}, nil
}

// finalize moves the current output aside, promotes the staging directory and
// removes the previous output.
func (s *staging) finalize() error {
	prev := s.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fsError(err, "failed to remove previous backup", prev)
	}
	if _, err := os.Stat(s.outputDir); err == nil {
		if err := os.Rename(s.outputDir, prev); err != nil {
			return fsError(err, "failed to back up existing output", s.outputDir)
		}
	}
	if err := os.Rename(s.stageDir, s.outputDir); err != nil {
		return fsError(err, "failed to promote staging directory", s.outputDir)
	}
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Debug("Promoted staging directory", logfields.Path(s.outputDir))
	return nil
}

// abort removes the staging directory after a failed build.
func (s *staging) abort() {
	if err := os.RemoveAll(s.stageDir); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(s.stageDir), logfields.Error(err))
	}
}

func fsError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).
		WithContext("path", path).
		Build()
}
