package hostconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/iancoleman/strcase"
)

// File layout constants.
const (
	// FileName is the host configuration file at the project root.
	FileName = ".yo-rc.json"

	// GeneratorKey is the section JHipster writes its settings under.
	GeneratorKey = "generator-jhipster"

	// PluginKey is the section this generator persists its own settings under.
	PluginKey = "generator-jhipster-multitenancy"
)

// Default values for optional settings absent from older projects.
const (
	DefaultClientPackageManager = "npm"
	DefaultClientFramework      = "angularX"
	DefaultNativeLanguage       = "en"
	DefaultJhiPrefix            = "jhi"
)

// Client framework identifiers.
const (
	ClientAngular1 = "angular1"
	ClientAngularX = "angularX"
)

// javaPackage matches the package names JHipster accepts at scaffold time.
var javaPackage = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)*$`)

// javaClass matches a class name usable as the application main class.
var javaClass = regexp.MustCompile(`^[A-Z][a-zA-Z0-9_]*$`)

// Config is the generator-jhipster section of .yo-rc.json.
// Only the settings the multitenancy generator reads are decoded.
type Config struct {
	JHipsterVersion      string   `json:"jhipsterVersion,omitempty"`
	BaseName             string   `json:"baseName" validate:"required"`
	PackageName          string   `json:"packageName" validate:"required"`
	PackageFolder        string   `json:"packageFolder" validate:"required"`
	ApplicationType      string   `json:"applicationType,omitempty" validate:"omitempty,oneof=monolith microservice gateway uaa"`
	AuthenticationType   string   `json:"authenticationType,omitempty"`
	DatabaseType         string   `json:"databaseType,omitempty" validate:"omitempty,oneof=sql mongodb cassandra couchbase no"`
	BuildTool            string   `json:"buildTool,omitempty" validate:"omitempty,oneof=maven gradle"`
	ClientFramework      string   `json:"clientFramework,omitempty" validate:"omitempty,oneof=angular1 angularX angular2 react"`
	ClientPackageManager string   `json:"clientPackageManager,omitempty" validate:"omitempty,oneof=npm yarn"`
	JhiPrefix            string   `json:"jhiPrefix,omitempty"`
	EnableTranslation    bool     `json:"enableTranslation"`
	NativeLanguage       string   `json:"nativeLanguage,omitempty"`
	Languages            []string `json:"languages,omitempty" validate:"dive,required"`
	SkipClient           bool     `json:"skipClient,omitempty"`
	SkipServer           bool     `json:"skipServer,omitempty"`
	SkipUserManagement   bool     `json:"skipUserManagement,omitempty"`

	// Plugin is the generator-jhipster-multitenancy section.
	Plugin PluginConfig `json:"-"`
}

// PluginConfig is what earlier runs of this generator saved in .yo-rc.json.
type PluginConfig struct {
	TenantName         string   `json:"tenantName,omitempty"`
	TenantisedEntities []string `json:"tenantisedEntities,omitempty"`
}

// Load reads .yo-rc.json from the root of fsys, applies defaults and
// validates the result.
func Load(fsys billy.Filesystem) (*Config, error) {
	data, err := util.ReadFile(fsys, FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, fsys.Join(fsys.Root(), FileName))
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, FileName, err)
	}
	return Parse(data)
}

// Parse decodes the generator-jhipster section of a .yo-rc.json document
// and the section of this generator, when present.
func Parse(data []byte) (*Config, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, FileName, err)
	}

	section, ok := doc[GeneratorKey]
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingGeneratorKey)
	}

	cfg := &Config{}
	if err := json.Unmarshal(section, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, GeneratorKey, err)
	}
	if plugin, ok := doc[PluginKey]; ok {
		if err := json.Unmarshal(plugin, &cfg.Plugin); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, PluginKey, err)
		}
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills optional settings older projects do not record.
func applyDefaults(cfg *Config) {
	if cfg.ClientPackageManager == "" {
		cfg.ClientPackageManager = DefaultClientPackageManager
	}
	if cfg.ClientFramework == "" {
		cfg.ClientFramework = DefaultClientFramework
	}
	if cfg.NativeLanguage == "" {
		cfg.NativeLanguage = DefaultNativeLanguage
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{cfg.NativeLanguage}
	}
	if cfg.JhiPrefix == "" {
		cfg.JhiPrefix = DefaultJhiPrefix
	}
	if cfg.PackageFolder == "" && cfg.PackageName != "" {
		cfg.PackageFolder = strings.ReplaceAll(cfg.PackageName, ".", "/")
	}
}

// PKType returns the Java type of entity primary keys.
func (c *Config) PKType() string {
	switch c.DatabaseType {
	case "cassandra", "mongodb":
		return "String"
	default:
		return "Long"
	}
}

// AngularAppName returns the name of the generated Angular module, the
// lower camel base name suffixed with "App".
func (c *Config) AngularAppName() string {
	name := strcase.ToLowerCamel(c.BaseName)
	if strings.HasSuffix(c.BaseName, "App") {
		return name
	}
	return name + "App"
}

// MainClassName returns the Spring Boot main class of the application.
func (c *Config) MainClassName() string {
	name := strcase.ToCamel(c.AngularAppName())
	if !javaClass.MatchString(name) {
		return "Application"
	}
	return name
}

// IsAngular1 reports whether the client uses the AngularJS 1.x toolchain.
func (c *Config) IsAngular1() bool {
	return c.ClientFramework == ClientAngular1
}

// TranslationLanguages returns the languages whose global.json receives new
// keys, or nil when translation is disabled.
func (c *Config) TranslationLanguages() []string {
	if !c.EnableTranslation {
		return nil
	}
	langs := slices.Clone(c.Languages)
	if !slices.Contains(langs, c.NativeLanguage) {
		langs = append([]string{c.NativeLanguage}, langs...)
	}
	return langs
}

// PackageManager returns the client package manager executable.
func (c *Config) PackageManager() string {
	return c.ClientPackageManager
}

// InstallCommand returns the command a user runs to install client
// dependencies by hand.
func (c *Config) InstallCommand() string {
	cmd := c.ClientPackageManager + " install"
	if c.IsAngular1() {
		cmd += " & bower install"
	}
	return cmd
}
