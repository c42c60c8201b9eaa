package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	appErrors "azsearch/internal/errors"

	"github.com/spf13/viper"
)

const (
	KeyDomain  = "devops.domain"
	KeyUser    = "devops.user"
	KeyToken   = "devops.token"
	KeyProject = "devops.project"

	KeyIconStyle = "icons.style"
	KeyCachePath = "cache.path"

	KeySearchTop      = "search.top"
	KeySearchDebounce = "search.debounce"
	KeyHTTPTimeout    = "http.timeout"

	KeyOutputFormat  = "output.format"
	KeyMarkdownStyle = "output.markdown-style"

	KeyTheme = "ui.theme"
)

// Icon style variants.
const (
	IconStyleOutline = "outline"
	IconStyleSolid   = "solid"
)

const (
	// DefaultSearchTop caps the number of work items a search returns.
	DefaultSearchTop = 20
	// DefaultSearchDebounce is the pause after the last keystroke before a
	// search is issued.
	DefaultSearchDebounce = 300 * time.Millisecond
	// DefaultHTTPTimeout bounds every request to the remote service.
	DefaultHTTPTimeout = 10 * time.Second

	envPrefix = "AZS"
	dirName   = ".azsearch"
)

type initSettings struct {
	workingDir        string
	projectConfigPath string
	userConfigPath    string
}

// Option configures Initialize behaviour. Useful for tests to override paths.
type Option func(*initSettings)

// WithWorkingDir overrides the directory used for project config discovery.
func WithWorkingDir(dir string) Option {
	return func(cfg *initSettings) {
		cfg.workingDir = dir
	}
}

// WithProjectConfig explicitly sets the project config path instead of discovery.
func WithProjectConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.projectConfigPath = path
	}
}

// WithUserConfig overrides the default user config path.
func WithUserConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.userConfigPath = path
	}
}

var (
	configOnce sync.Once
	configMu   sync.RWMutex
	configInst *viper.Viper
	initErr    error

	// userConfigPathOverride is used by tests to override the user config path.
	userConfigPathOverride string
)

// Initialize loads configuration using the precedence:
// defaults < user config < project config < environment variables < overrides.
func Initialize(opts ...Option) error {
	configOnce.Do(func() {
		settings := initSettings{}
		for _, opt := range opts {
			opt(&settings)
		}
		initErr = configure(&settings)
	})
	return initErr
}

// ApplyOverrides injects values typically coming from CLI flags.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return fmt.Errorf("configuration not initialized")
	}
	for k, v := range overrides {
		configInst.Set(k, v)
	}
	return nil
}

// GetString fetches a string configuration value, initializing on demand.
func GetString(key string) string {
	v, err := getViper()
	if err != nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool fetches a bool configuration value, initializing on demand.
func GetBool(key string) bool {
	v, err := getViper()
	if err != nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt fetches an integer configuration value, initializing on demand.
func GetInt(key string) int {
	v, err := getViper()
	if err != nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration fetches a duration configuration value, initializing on demand.
func GetDuration(key string) time.Duration {
	v, err := getViper()
	if err != nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set updates a configuration key at runtime, initializing on demand.
func Set(key string, value any) error {
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return fmt.Errorf("configuration not initialized")
	}
	configInst.Set(key, value)
	return nil
}

// Settings is the resolved connection and presentation configuration.
type Settings struct {
	Domain         string
	User           string
	Token          string
	Project        string
	IconStyle      string
	CachePath      string
	SearchTop      int
	SearchDebounce time.Duration
	HTTPTimeout    time.Duration
	OutputFormat   string
	MarkdownStyle  string
	Theme          string
}

// Load snapshots the current configuration into Settings, applying fallbacks
// for out-of-range values.
func Load() Settings {
	s := Settings{
		Domain:         strings.TrimSuffix(strings.TrimSpace(GetString(KeyDomain)), "/"),
		User:           strings.TrimSpace(GetString(KeyUser)),
		Token:          strings.TrimSpace(GetString(KeyToken)),
		Project:        strings.TrimSpace(GetString(KeyProject)),
		IconStyle:      strings.ToLower(strings.TrimSpace(GetString(KeyIconStyle))),
		CachePath:      strings.TrimSpace(GetString(KeyCachePath)),
		SearchTop:      GetInt(KeySearchTop),
		SearchDebounce: GetDuration(KeySearchDebounce),
		HTTPTimeout:    GetDuration(KeyHTTPTimeout),
		OutputFormat:   strings.ToLower(strings.TrimSpace(GetString(KeyOutputFormat))),
		MarkdownStyle:  strings.TrimSpace(GetString(KeyMarkdownStyle)),
		Theme:          strings.ToLower(strings.TrimSpace(GetString(KeyTheme))),
	}
	s.Domain = strings.TrimPrefix(strings.TrimPrefix(s.Domain, "https://"), "http://")
	if s.IconStyle != IconStyleSolid {
		s.IconStyle = IconStyleOutline
	}
	if s.SearchTop <= 0 {
		s.SearchTop = DefaultSearchTop
	}
	if s.SearchDebounce < 0 {
		s.SearchDebounce = 0
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = DefaultHTTPTimeout
	}
	if s.CachePath == "" {
		if path, err := defaultCachePath(); err == nil {
			s.CachePath = path
		}
	}
	return s
}

// Validate reports missing connection settings.
func (s Settings) Validate() error {
	var missing []string
	if s.Domain == "" {
		missing = append(missing, KeyDomain)
	}
	if s.Token == "" {
		missing = append(missing, KeyToken)
	}
	if len(missing) == 0 {
		return nil
	}
	msg := fmt.Sprintf("missing required settings: %s (set them in ~/%s/config.yaml or via %s_* environment variables)",
		strings.Join(missing, ", "), dirName, envPrefix)
	return appErrors.New(appErrors.CodeConfigurationError, msg, nil)
}

func configure(settings *initSettings) error {
	workingDir := strings.TrimSpace(settings.workingDir)
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		workingDir = wd
	}

	userConfigPath := strings.TrimSpace(settings.userConfigPath)
	if userConfigPath == "" {
		path, err := defaultUserConfigPath()
		if err != nil {
			return err
		}
		userConfigPath = path
	}

	projectConfigPath := strings.TrimSpace(settings.projectConfigPath)
	if projectConfigPath == "" {
		path, err := findProjectConfig(workingDir)
		if err != nil {
			return err
		}
		projectConfigPath = path
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, userConfigPath); err != nil {
		return fmt.Errorf("load user config: %w", err)
	}
	if err := mergeConfigFile(v, projectConfigPath); err != nil {
		return fmt.Errorf("load project config: %w", err)
	}

	configMu.Lock()
	defer configMu.Unlock()
	configInst = v
	return nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: Config loader intentionally reads user and project config files
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

func defaultCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, dirName, "cache.db"), nil
}

func findProjectConfig(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", nil
	}
	dir := startDir
	for {
		candidate := filepath.Join(dir, dirName, "config.yaml")
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config path %s is a directory", candidate)
			}
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDomain, "")
	v.SetDefault(KeyUser, "")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyProject, "")
	v.SetDefault(KeyIconStyle, IconStyleOutline)
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeySearchTop, DefaultSearchTop)
	v.SetDefault(KeySearchDebounce, DefaultSearchDebounce)
	v.SetDefault(KeyHTTPTimeout, DefaultHTTPTimeout)
	v.SetDefault(KeyOutputFormat, "table")
	v.SetDefault(KeyMarkdownStyle, "dark")
	v.SetDefault(KeyTheme, "azure")
}

func getViper() (*viper.Viper, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	configMu.RLock()
	defer configMu.RUnlock()
	if configInst == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return configInst, nil
}

// reset clears package state for tests.
func reset() {
	configMu.Lock()
	defer configMu.Unlock()
	configInst = nil
	initErr = nil
	configOnce = sync.Once{}
	userConfigPathOverride = ""
}

// ResetForTesting clears package state for tests in other packages.
// Returns a cleanup function that should be deferred.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "config.yaml")))
	return reset
}

// SaveProject persists the selected default project to the appropriate config
// file. If a project config (.azsearch/config.yaml) exists, it updates that
// file. Otherwise, it updates the user config (~/.azsearch/config.yaml).
// The user config directory is auto-created if needed, but project config
// directories are never auto-created.
func SaveProject(name string) error {
	targetPath, err := findWritableConfigPath()
	if err != nil {
		return fmt.Errorf("find config path: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(targetPath)
	_ = v.ReadInConfig() // ignore error if file doesn't exist

	v.Set(KeyProject, name)

	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := v.WriteConfigAs(targetPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return Set(KeyProject, name)
}

// findWritableConfigPath returns the project config path if it exists,
// otherwise the user config path.
func findWritableConfigPath() (string, error) {
	wd, err := os.Getwd()
	if err == nil {
		projectPath, err := findProjectConfig(wd)
		if err == nil && projectPath != "" {
			return projectPath, nil
		}
	}
	if userConfigPathOverride != "" {
		return userConfigPathOverride, nil
	}
	return defaultUserConfigPath()
}

// setUserConfigPathOverride sets the user config path for tests.
func setUserConfigPathOverride(path string) {
	userConfigPathOverride = path
}
