package generator

import (
	"context"
	"fmt"
	"path"

	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/patch"
	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
	"github.com/sonalake/jhipster-multitenancy/internal/workspace"
	"github.com/sonalake/jhipster-multitenancy/pkg/version"
)

// aspectPointcutEnd matches the closing quote of the @Before pointcut of
// the tenant aspect.
const aspectPointcutEnd = `"\)\s*\n\s*public void beforeExecution\(`

// RunEntity tenantises one entity right after the host generated it, which
// is what the module hook registered by Run asks for. The entity's REST
// resource joins the tenant filter of the aspect and its update form learns
// the logged in account. The tenant comes from the earlier Run.
func (g *Generator) RunEntity(ctx context.Context, opts EntityOptions) (*Result, error) {
	res := &Result{}

	cfg, err := g.initialize(ctx, res)
	if err != nil {
		return res, err
	}
	if cfg.Plugin.TenantName == "" {
		return res, ErrNoTenant
	}
	v, err := tenant.Derive(cfg.Plugin.TenantName)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrInvalidAlias, err)
	}
	entity, err := tenant.Derive(opts.Name)
	if err != nil {
		return res, fmt.Errorf("%w: %q: %w", ErrInvalidEntity, opts.Name, err)
	}
	res.Tenant = v.Camel
	res.Entity = entity.Pascal

	switch entity.Pascal {
	case v.Pascal:
		res.SkipReason = entity.Pascal + " is the tenant entity"
	case "User":
		res.SkipReason = "users are filtered already"
	}
	if res.SkipReason != "" {
		g.logger.Info("entity not tenantised", "entity", entity.Pascal, "reason", res.SkipReason)
		g.end(res)
		return res, nil
	}

	c := newContext(cfg, v, "", Options{Strict: opts.Strict, DryRun: opts.DryRun})
	ws := workspace.New(g.fsys, workspace.WithLogger(g.logger))
	g.manifest.Resume(version.GetVersion())
	if err := g.apply(ctx, c, ws, EntityPlan(c, entity), res); err != nil {
		return res, err
	}

	if opts.DryRun {
		g.collectDiffs(ws, res)
	}
	g.end(res)
	return res, nil
}

// EntityPlan enumerates the operations of an entity run. The result depends
// only on its arguments.
func EntityPlan(c *Context, entity tenant.Variants) Plan {
	p := newPlanPaths(c.Host.PackageFolder)
	t := c.Tenant
	resource := fmt.Sprintf("execution(* %s.web.rest.%sResource.*(..))", c.Host.PackageName, entity.Pascal)
	update := path.Join(p.web, "app/entities", entity.Kebab, entity.Kebab+"-update.component.ts")

	return Plan{
		Patches: []patch.Patch{
			{
				Name:    "entity-aspect-" + entity.Kebab,
				File:    path.Join(p.java, "aop", t.Camel, t.Pascal+"Aspect.java"),
				Pattern: aspectPointcutEnd,
				Mode:    patch.InsertBefore,
				Payload: " || " + resource,
				Guard:   resource,
			},
			{
				Name:      "entity-update-imports-" + entity.Kebab,
				File:      update,
				Anchor:    "@Component({",
				Mode:      patch.InsertBefore,
				LineAware: true,
				Payload: lines(
					`import { Principal } from 'app/core';`,
					`import { %[1]sService } from 'app/entities/%[2]s';`,
				).with(t.Pascal, t.Kebab),
			},
			{
				Name:      "entity-update-account-" + entity.Kebab,
				File:      update,
				Anchor:    "isSaving: boolean;",
				Mode:      patch.InsertAfter,
				LineAware: true,
				Payload:   "currentAccount: any;",
			},
			{
				Name:    "entity-update-constructor-" + entity.Kebab,
				File:    update,
				Pattern: `private activatedRoute: ActivatedRoute\s*\)\s*\{\s*\}`,
				Mode:    patch.Replace,
				Payload: lines(
					`private activatedRoute: ActivatedRoute, private %[1]sService: %[2]sService, private principal: Principal) {`,
					`        this.principal.identity().then(account => {`,
					`            this.currentAccount = account;`,
					`        });`,
					`    }`,
				).with(t.Camel, t.Pascal),
				Guard: "private principal: Principal",
			},
		},
		Edits: []patch.JSONEdit{
			{
				Name:   "yo-rc-tenantised-" + entity.Kebab,
				File:   hostconfig.FileName,
				Path:   fmt.Sprintf("$[%q].tenantisedEntities", hostconfig.PluginKey),
				Value:  entity.Pascal,
				Append: true,
				Indent: patch.IndentConfig,
			},
		},
	}
}
