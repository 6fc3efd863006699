package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/patch"
	"github.com/sonalake/jhipster-multitenancy/internal/template"
)

// Source roots of a JHipster project.
const (
	serverMainDir = "src/main/java"
	serverTestDir = "src/test/java"
	resourceDir   = "src/main/resources"
	webappDir     = "src/main/webapp"
)

// hooksFile is the module hook registry of the host framework.
const hooksFile = ".jhipster/modules/jhi-hooks.json"

// Operation names the manifest and tests refer to.
const (
	opEntitySchema = "entity-schema"
	opChangelog    = "liquibase-changelog"
	opModuleHook   = "module-hook"
	opTenantName   = "yo-rc-tenant-name"
)

// Plan is the fixed list of file operations of the write phase.
type Plan struct {
	Renders []template.RenderOp
	Patches []patch.Patch
	Edits   []patch.JSONEdit
}

// Len returns the number of operations in p.
func (p Plan) Len() int {
	return len(p.Renders) + len(p.Patches) + len(p.Edits)
}

// planPaths holds the project directories the plan writes into.
type planPaths struct {
	java, test, res, web string
}

func newPlanPaths(packageFolder string) planPaths {
	return planPaths{
		java: path.Join(serverMainDir, packageFolder),
		test: path.Join(serverTestDir, packageFolder),
		res:  resourceDir,
		web:  webappDir,
	}
}

// EntityFile returns the host entity schema path of the tenant.
func (c *Context) EntityFile() string {
	return path.Join(".jhipster", c.Tenant.Pascal+".json")
}

// ChangelogName returns the Liquibase changelog file name without extension.
func (c *Context) ChangelogName() string {
	return fmt.Sprintf("%s__user_%s_constraints", c.ChangelogDate, c.Tenant.Pascal)
}

// BuildPlan enumerates the write phase operations for c. The result
// depends only on c.
func BuildPlan(c *Context) Plan {
	return Plan{
		Renders: renderOps(c),
		Patches: patches(c),
		Edits:   jsonEdits(c),
	}
}

func renderOps(c *Context) []template.RenderOp {
	p := newPlanPaths(c.Host.PackageFolder)
	t := c.Tenant
	aopDir := path.Join(p.java, "aop", t.Camel)
	mgmtDir := path.Join(p.web, "app/admin", t.Kebab+"-management")
	userMgmtDir := path.Join(p.web, "app/admin/user-management")

	return []template.RenderOp{
		{Name: opEntitySchema, Template: "entity/Tenant.json", Dest: c.EntityFile(), Raw: true},
		{Name: "user-domain", Template: "server/domain/User.java.tmpl", Dest: path.Join(p.java, "domain/User.java")},
		{Name: "user-repository", Template: "server/repository/UserRepository.java.tmpl", Dest: path.Join(p.java, "repository/UserRepository.java")},
		{Name: "user-dto", Template: "server/service/dto/UserDTO.java.tmpl", Dest: path.Join(p.java, "service/dto/UserDTO.java")},
		{Name: "user-service", Template: "server/service/UserService.java.tmpl", Dest: path.Join(p.java, "service/UserService.java")},
		{Name: "managed-user-vm", Template: "server/web/rest/vm/ManagedUserVM.java.tmpl", Dest: path.Join(p.java, "web/rest/vm/ManagedUserVM.java")},
		{Name: "user-resource", Template: "server/web/rest/UserResource.java.tmpl", Dest: path.Join(p.java, "web/rest/UserResource.java")},
		{Name: "user-resource-test", Template: "server/test/UserResourceIntTest.java.tmpl", Dest: path.Join(p.test, "web/rest/UserResourceIntTest.java")},
		{Name: "account-resource-test", Template: "server/test/AccountResourceIntTest.java.tmpl", Dest: path.Join(p.test, "web/rest/AccountResourceIntTest.java")},
		{Name: opChangelog, Template: "server/liquibase/user_tenant_constraints.xml.tmpl", Dest: path.Join(p.res, "config/liquibase/changelog", c.ChangelogName()+".xml")},
		{Name: "tenant-aspect", Template: "server/aop/TenantAspect.java.tmpl", Dest: path.Join(aopDir, t.Pascal+"Aspect.java")},
		{Name: "request-param", Template: "server/aop/RequestParam.java.tmpl", Dest: path.Join(aopDir, "RequestParam.java")},
		{Name: "user-management-dialog", Template: "client/user-management/user-management-dialog.component.ts.tmpl", Dest: path.Join(userMgmtDir, "user-management-dialog.component.ts")},
		{Name: "user-management-list", Template: "client/user-management/user-management.component.html.tmpl", Dest: path.Join(userMgmtDir, "user-management.component.html")},
		{Name: "user-model", Template: "client/user-management/user.model.ts.tmpl", Dest: path.Join(p.web, "app/shared/user/user.model.ts")},
		{Name: "tenant-management-component", Template: "client/tenant-management/tenant-management.component.ts.tmpl", Dest: path.Join(mgmtDir, t.Kebab+"-management.component.ts")},
		{Name: "tenant-management-view", Template: "client/tenant-management/tenant-management.component.html.tmpl", Dest: path.Join(mgmtDir, t.Kebab+"-management.component.html")},
		{Name: "tenant-management-route", Template: "client/tenant-management/tenant-management.route.ts.tmpl", Dest: path.Join(mgmtDir, t.Kebab+"-management.route.ts")},
	}
}

func patches(c *Context) []patch.Patch {
	p := newPlanPaths(c.Host.PackageFolder)
	t := c.Tenant
	admin := path.Join(p.web, "app/admin")
	mgmt := "./" + t.Kebab + "-management/" + t.Kebab + "-management"

	return []patch.Patch{
		{
			Name:      "user-detail-field",
			File:      path.Join(admin, "user-management/user-management-detail.component.html"),
			Anchor:    `<dt><span jhiTranslate="userManagement.createdBy">Created By</span></dt>`,
			Mode:      patch.InsertBefore,
			LineAware: true,
			Payload: lines(
				`<dt><span jhiTranslate="userManagement%[1]s">%[2]s</span></dt>`,
				`<dd>{{user.%[3]s?.name}}</dd>`,
			).with(t.Pascal, t.Title, t.Camel),
		},
		{
			Name:      "user-dialog-select",
			File:      path.Join(admin, "user-management/user-management-dialog.component.html"),
			Anchor:    `<div class="form-group" *ngIf="languages && languages.length > 0">`,
			Mode:      patch.InsertBefore,
			LineAware: true,
			Payload: lines(
				`<div class="form-group" *ngIf="%[4]s && %[4]s.length > 0">`,
				`    <label jhiTranslate="userManagement%[1]s">%[2]s</label>`,
				`    <select class="form-control" id="%[3]s" name="%[3]s" [(ngModel)]="user.%[3]s" (change)="on%[1]sChange()">`,
				`        <option [ngValue]="null"></option>`,
				`        <option [ngValue]="%[3]s.id === user.%[3]s?.id ? user.%[3]s : %[3]s" *ngFor="let %[3]s of %[4]s">{{%[3]s.name}}</option>`,
				`    </select>`,
				`</div>`,
			).with(t.Pascal, t.Title, t.Camel, t.Plural),
		},
		{
			Name:      "navbar-admin-entry",
			File:      path.Join(p.web, "app/layouts/navbar/navbar.component.html"),
			Anchor:    "jhipster-needle-add-element-to-admin-menu",
			Mode:      patch.InsertBefore,
			LineAware: true,
			Payload: lines(
				`<li>`,
				`    <a class="dropdown-item" routerLink="%[1]s-management" routerLinkActive="active" (click)="collapseNavbar()">`,
				`        <i class="fa fa-fw fa-users" aria-hidden="true"></i>`,
				`        <span jhiTranslate="global.menu.admin.%[2]sManagement">%[3]s Management</span>`,
				`    </a>`,
				`</li>`,
			).with(t.Kebab, t.Camel, t.Title),
		},
		{
			Name:      "admin-route-import",
			File:      path.Join(admin, "admin.route.ts"),
			Anchor:    "} from './';",
			Mode:      patch.InsertAfter,
			LineAware: true,
			Payload:   fmt.Sprintf("import { %sMgmtRoute } from '%s.route';", t.Camel, mgmt),
		},
		{
			Name:      "admin-route-register",
			File:      path.Join(admin, "admin.route.ts"),
			Anchor:    "...userMgmtRoute,",
			Mode:      patch.InsertAfter,
			LineAware: true,
			Payload:   fmt.Sprintf("...%sMgmtRoute,", t.Camel),
		},
		{
			Name:      "admin-index-export",
			File:      path.Join(admin, "index.ts"),
			Anchor:    "export * from './user-management/user-management.route';",
			Mode:      patch.InsertAfter,
			LineAware: true,
			Payload: lines(
				`export * from '%[1]s.component';`,
				`export * from '%[1]s.route';`,
			).with(mgmt),
		},
		{
			Name:      "admin-module-import",
			File:      path.Join(admin, "admin.module.ts"),
			Anchor:    "} from './';",
			Mode:      patch.InsertAfter,
			LineAware: true,
			Payload:   fmt.Sprintf("import { %sMgmtComponent } from '%s.component';", t.Pascal, mgmt),
		},
		{
			Name:      "admin-module-declaration",
			File:      path.Join(admin, "admin.module.ts"),
			Pattern:   `declarations:\s*\[`,
			Mode:      patch.InsertAfter,
			LineAware: true,
			Payload:   fmt.Sprintf("    %sMgmtComponent,", t.Pascal),
		},
		{
			Name:      "liquibase-master-include",
			File:      path.Join(p.res, "config/liquibase/master.xml"),
			Anchor:    "jhipster-needle-liquibase-add-constraints-changelog",
			Mode:      patch.InsertBefore,
			LineAware: true,
			Payload: fmt.Sprintf(`<include file="config/liquibase/changelog/%s.xml" relativeToChangelogFile="false"/>`,
				c.ChangelogName()),
		},
	}
}

func jsonEdits(c *Context) []patch.JSONEdit {
	t := c.Tenant
	entity := c.EntityFile()

	edits := []patch.JSONEdit{
		{Name: opEntitySchema + "-relationship", File: entity, Path: "$.relationships[0].otherEntityRelationshipName", Value: t.Camel, Indent: patch.IndentEntity},
		{Name: opEntitySchema + "-contact", File: entity, Path: "$.relationships[1].relationshipName", Value: t.Camel + "Contact", Indent: patch.IndentEntity},
		{Name: opEntitySchema + "-table", File: entity, Path: "$.entityTableName", Value: t.Snake, Indent: patch.IndentEntity},
	}

	for _, lang := range c.Host.TranslationLanguages() {
		file := path.Join(webappDir, "i18n", lang, "global.json")
		edits = append(edits,
			patch.JSONEdit{
				Name:   "i18n-" + lang + "-user-field",
				File:   file,
				Path:   fmt.Sprintf("$.userManagement%s", t.Pascal),
				Value:  t.Pascal,
				Indent: patch.IndentConfig,
			},
			patch.JSONEdit{
				Name:   "i18n-" + lang + "-menu",
				File:   file,
				Path:   fmt.Sprintf("$.global.menu.admin.%sManagement", t.Camel),
				Value:  t.Title + " Management",
				Indent: patch.IndentConfig,
			},
		)
	}

	return append(edits, moduleHookEdit())
}

// moduleHookEdit registers the generator as a post-entity hook of the host.
func moduleHookEdit() patch.JSONEdit {
	return patch.JSONEdit{
		Name: opModuleHook,
		File: hooksFile,
		Path: "$",
		Value: map[string]any{
			"name":              "Multitenancy generator",
			"npmPackageName":    hostconfig.PluginKey,
			"description":       "A JHipster module to generate Multitenancy",
			"hookFor":           "entity",
			"hookType":          "post",
			"generatorCallback": "jhipster-multitenancy:entity",
		},
		Append:     true,
		CreateFile: true,
		Indent:     patch.IndentEntity,
	}
}

// tenantNameEdit persists the chosen alias in the host configuration.
func tenantNameEdit(c *Context) patch.JSONEdit {
	return patch.JSONEdit{
		Name:   opTenantName,
		File:   hostconfig.FileName,
		Path:   fmt.Sprintf("$[%q].tenantName", hostconfig.PluginKey),
		Value:  c.Tenant.Camel,
		Indent: patch.IndentConfig,
	}
}

// payload is a multi-line patch body with fmt verbs.
type payload string

func lines(l ...string) payload {
	return payload(strings.Join(l, "\n"))
}

func (p payload) with(args ...any) string {
	return fmt.Sprintf(string(p), args...)
}
