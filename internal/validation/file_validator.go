// Package validation checks the file arguments of the pipeline tools before
// any data is read or written.
package validation

import (
	"log/slog"
	"os"
	"path/filepath"

	"forestcli/internal/errors"
)

// FileValidator provides path validation shared by the pipeline executables.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that the input path exists, is a regular file
// and is readable.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return errors.NewFileNotFoundError(path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to stat input file", err).
			WithContext("path", path)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return errors.New(errors.ErrTypeFileNotFound, "input path is a directory, not a file", nil).
			WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("input file is not readable", err).
			WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("dir", dir)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("output directory is not writable", err).
			WithContext("dir", dir)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Info("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile ensures the output file's directory is usable and that
// the output never overwrites the raw input.
func (v *FileValidator) ValidateOutputFile(outputPath, inputPath string) error {
	if err := v.EnsureDistinctPaths(inputPath, outputPath); err != nil {
		return err
	}
	return v.ValidateOutputDirectory(filepath.Dir(outputPath))
}

// EnsureDistinctPaths fails when the two paths resolve to the same file.
func (v *FileValidator) EnsureDistinctPaths(inputPath, outputPath string) error {
	inAbs, err := filepath.Abs(inputPath)
	if err != nil {
		return errors.NewStorageError("failed to resolve input path", err).
			WithContext("path", inputPath)
	}
	outAbs, err := filepath.Abs(outputPath)
	if err != nil {
		return errors.NewStorageError("failed to resolve output path", err).
			WithContext("path", outputPath)
	}

	same := inAbs == outAbs
	if !same {
		// Catch links and case-folding filesystems when both paths exist.
		inInfo, inErr := os.Stat(inputPath)
		outInfo, outErr := os.Stat(outputPath)
		same = inErr == nil && outErr == nil && os.SameFile(inInfo, outInfo)
	}

	if same {
		v.logger.Error("Output path must differ from the input path",
			slog.String("input", inputPath),
			slog.String("output", outputPath))
		return errors.NewConfigError("output path must differ from the input path", nil).
			WithContext("input", inputPath).
			WithContext("output", outputPath)
	}
	return nil
}
