package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	jsonExtensionConstant                     = ".json"
	scriptIgnoredMessageConstant              = "Script configuration files are not evaluated; using defaults"
	configurationLoadedMessageConstant        = "Loaded configuration file"
	logFieldPathConstant                      = "path"
	readConfigurationErrorTemplateConstant    = "failed to read configuration file %s: %w"
	parseConfigurationErrorTemplateConstant   = "failed to parse configuration file %s: %w"
	statConfigurationErrorTemplateConstant    = "failed to inspect configuration file %s: %w"
	writeConfigurationErrorTemplateConstant   = "failed to write configuration file %s: %w"
	encodeConfigurationErrorTemplateConstant  = "failed to encode configuration: %w"
	jsonIndentConstant                        = "  "
	configurationFilePermissionsConstant      = 0o644
	configurationDirectoryPermissionsConstant = 0o755
)

// CandidateFileNames lists configuration file names in lookup order.
var CandidateFileNames = []string{
	"w-git.config.json",
	".w-git.config.json",
	"w-git.config.ts",
	".w-git.config.ts",
	"w-git.config.js",
	".w-git.config.js",
}

// ErrConfigurationExists indicates WriteDefault refused to overwrite a file.
var ErrConfigurationExists = errors.New("configuration file already exists")

// Resolution is the outcome of configuration lookup.
type Resolution struct {
	Configuration Configuration
	Tree          map[string]any
	SourcePath    string
	ScriptIgnored bool
}

// Resolver locates and loads the tool configuration.
type Resolver struct {
	FileSystem       afero.Fs
	WorkingDirectory string
	HomeDirectory    string
	Logger           *zap.Logger
}

// NewResolver constructs a resolver over the operating system filesystem.
func NewResolver(logger *zap.Logger) Resolver {
	workingDirectory, _ := os.Getwd()
	homeDirectory, _ := os.UserHomeDir()
	return Resolver{
		FileSystem:       afero.NewOsFs(),
		WorkingDirectory: workingDirectory,
		HomeDirectory:    homeDirectory,
		Logger:           logger,
	}
}

// Resolve finds the first candidate file in the working directory, then the home directory,
// and merges its contents onto Defaults. Missing files yield the defaults.
func (resolver Resolver) Resolve() (Resolution, error) {
	logger := resolver.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fileSystem := resolver.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	resolution := Resolution{}
	override := map[string]any{}

	sourcePath, findError := resolver.findCandidate(fileSystem)
	if findError != nil {
		return Resolution{}, findError
	}

	if len(sourcePath) > 0 {
		resolution.SourcePath = sourcePath
		if strings.EqualFold(filepath.Ext(sourcePath), jsonExtensionConstant) {
			loadedOverride, loadError := loadJSON(fileSystem, sourcePath)
			if loadError != nil {
				return Resolution{}, loadError
			}
			override = loadedOverride
			logger.Debug(configurationLoadedMessageConstant, zap.String(logFieldPathConstant, sourcePath))
		} else {
			resolution.ScriptIgnored = true
			logger.Warn(scriptIgnoredMessageConstant, zap.String(logFieldPathConstant, sourcePath))
		}
	}

	resolution.Tree = DeepMerge(Defaults(), override)
	configuration, decodeError := Decode(resolution.Tree)
	if decodeError != nil {
		return Resolution{}, decodeError
	}
	resolution.Configuration = configuration
	return resolution, nil
}

func (resolver Resolver) findCandidate(fileSystem afero.Fs) (string, error) {
	for _, directory := range []string{resolver.WorkingDirectory, resolver.HomeDirectory} {
		if len(strings.TrimSpace(directory)) == 0 {
			continue
		}
		for _, candidateName := range CandidateFileNames {
			candidatePath := filepath.Join(directory, candidateName)
			fileInfo, statError := fileSystem.Stat(candidatePath)
			if statError != nil {
				if errors.Is(statError, fs.ErrNotExist) {
					continue
				}
				return "", fmt.Errorf(statConfigurationErrorTemplateConstant, candidatePath, statError)
			}
			if fileInfo.IsDir() {
				continue
			}
			return candidatePath, nil
		}
	}
	return "", nil
}

func loadJSON(fileSystem afero.Fs, path string) (map[string]any, error) {
	contents, readError := afero.ReadFile(fileSystem, path)
	if readError != nil {
		return nil, fmt.Errorf(readConfigurationErrorTemplateConstant, path, readError)
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return map[string]any{}, nil
	}
	override := map[string]any{}
	if unmarshalError := json.Unmarshal(contents, &override); unmarshalError != nil {
		return nil, fmt.Errorf(parseConfigurationErrorTemplateConstant, path, unmarshalError)
	}
	return override, nil
}

// WriteDefault writes the default configuration as JSON to path. Existing files are kept unless force is set.
func WriteDefault(fileSystem afero.Fs, path string, force bool) error {
	if !force {
		exists, existsError := afero.Exists(fileSystem, path)
		if existsError != nil {
			return fmt.Errorf(statConfigurationErrorTemplateConstant, path, existsError)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrConfigurationExists, path)
		}
	}

	encoded, encodeError := json.MarshalIndent(Defaults(), "", jsonIndentConstant)
	if encodeError != nil {
		return fmt.Errorf(encodeConfigurationErrorTemplateConstant, encodeError)
	}
	encoded = append(encoded, '\n')

	if directory := filepath.Dir(path); len(directory) > 0 {
		if mkdirError := fileSystem.MkdirAll(directory, configurationDirectoryPermissionsConstant); mkdirError != nil {
			return fmt.Errorf(writeConfigurationErrorTemplateConstant, path, mkdirError)
		}
	}
	if writeError := afero.WriteFile(fileSystem, path, encoded, configurationFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeConfigurationErrorTemplateConstant, path, writeError)
	}
	return nil
}

// RenderYAML renders the configuration tree as YAML for display.
func RenderYAML(configuration Configuration) (string, error) {
	encoded, encodeError := yaml.Marshal(configuration)
	if encodeError != nil {
		return "", fmt.Errorf(encodeConfigurationErrorTemplateConstant, encodeError)
	}
	return string(encoded), nil
}
