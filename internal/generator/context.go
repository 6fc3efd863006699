package generator

import (
	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/template"
	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
	"github.com/sonalake/jhipster-multitenancy/pkg/version"
)

// Context is everything the write and install phases need. It is built
// once after the prompt phase and never modified.
type Context struct {
	Host          *hostconfig.Config
	Tenant        tenant.Variants
	ChangelogDate string
	Options       Options
}

// newContext builds the run context.
func newContext(cfg *hostconfig.Config, v tenant.Variants, changelogDate string, opts Options) *Context {
	return &Context{Host: cfg, Tenant: v, ChangelogDate: changelogDate, Options: opts}
}

// TemplateData returns the data every template renders with.
func (c *Context) TemplateData() *template.TemplateContext {
	return template.NewTemplateContext(
		template.WithHost(c.Host),
		template.WithTenant(c.Tenant),
		template.WithTenantisedEntities(c.Host.Plugin.TenantisedEntities),
		template.WithChangelogDate(c.ChangelogDate),
		template.WithVersion(version.GetVersion()),
	)
}
