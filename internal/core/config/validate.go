package config

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

func (w ValidationWarning) String() string {
	if w.Item == "" {
		return fmt.Sprintf("%s: %s", w.Category, w.Message)
	}
	return fmt.Sprintf("%s (%s): %s", w.Category, w.Item, w.Message)
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility and external executables. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateCommands(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Capture.Provider == ProviderScreen && runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Capture",
			Item:     "provider",
			Message:  "no X display found; screen capture will fail (try the command provider)",
		})
	}

	if c.Capture.Delay == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Capture",
			Item:     "delay",
			Message:  "capture.delay is 0; the dialog may appear in screenshots",
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory and capture file.
func (c *Config) validateFileAccess(configPath string) error {
	var captureFile error
	if c.Capture.Provider == ProviderFile {
		captureFile = criterio.Run("capture.file", c.resolve(c.Capture.File), isReadableFile)
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		captureFile,
	)
}

// validateCommands checks that configured external tools are on PATH.
func (c *Config) validateCommands() error {
	var errs criterio.FieldErrorsBuilder
	if c.Capture.Provider == ProviderCommand {
		if err := executableExists(c.Capture.Command[0]); err != nil {
			errs = errs.Append("capture.command", err)
		}
	}
	if c.Annotate.Mode == AnnotateExternal {
		if err := executableExists(c.Annotate.Command[0]); err != nil {
			errs = errs.Append("annotate.command", err)
		}
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func executableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

func isReadableFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
