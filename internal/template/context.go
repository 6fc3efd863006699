package template

import (
	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
)

// TemplateContext provides the data every template renders with.
// All fields are exported for use with Go's text/template package.
type TemplateContext struct {
	// Host application, from .yo-rc.json
	BaseName          string // "jhipster"
	PackageName       string // "com.mycompany.myapp"
	PackageFolder     string // "com/mycompany/myapp"
	AngularAppName    string // "jhipsterApp"
	MainClass         string // "JhipsterApp"
	PKType            string // "Long" or "String"
	JhiPrefix         string // "jhi"
	ClientFramework   string // "angularX"
	EnableTranslation bool

	// Tenant naming variants
	Tenant tenant.Variants

	// Entities whose REST resource is filtered by tenant, Pascal case
	TenantisedEntities []string

	// Meta
	ChangelogDate string // Liquibase timestamp, yyyyMMddHHmmss
	Version       string // generator version
}

// ContextOption configures a TemplateContext.
type ContextOption func(*TemplateContext)

// NewTemplateContext creates a TemplateContext with defaults matching a
// freshly generated JHipster application, then applies opts.
func NewTemplateContext(opts ...ContextOption) *TemplateContext {
	ctx := &TemplateContext{
		PKType:          "Long",
		JhiPrefix:       hostconfig.DefaultJhiPrefix,
		ClientFramework: hostconfig.DefaultClientFramework,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// WithHost copies the host application settings.
func WithHost(cfg *hostconfig.Config) ContextOption {
	return func(c *TemplateContext) {
		if cfg == nil {
			return
		}
		c.BaseName = cfg.BaseName
		c.PackageName = cfg.PackageName
		c.PackageFolder = cfg.PackageFolder
		c.AngularAppName = cfg.AngularAppName()
		c.MainClass = cfg.MainClassName()
		c.PKType = cfg.PKType()
		c.JhiPrefix = cfg.JhiPrefix
		c.ClientFramework = cfg.ClientFramework
		c.EnableTranslation = cfg.EnableTranslation
	}
}

// WithTenant sets the tenant naming variants.
func WithTenant(v tenant.Variants) ContextOption {
	return func(c *TemplateContext) {
		c.Tenant = v
	}
}

// WithTenantisedEntities sets the entities added by the entity hook.
func WithTenantisedEntities(entities []string) ContextOption {
	return func(c *TemplateContext) {
		c.TenantisedEntities = entities
	}
}

// WithChangelogDate sets the Liquibase changelog timestamp.
func WithChangelogDate(date string) ContextOption {
	return func(c *TemplateContext) {
		c.ChangelogDate = date
	}
}

// WithVersion sets the generator version.
func WithVersion(version string) ContextOption {
	return func(c *TemplateContext) {
		c.Version = version
	}
}
