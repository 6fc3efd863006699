package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
)

const testYoRc = `{
  "generator-jhipster": {
    "jhipsterVersion": "4.10.2",
    "baseName": "jhipster",
    "packageName": "com.mycompany.myapp",
    "packageFolder": "com/mycompany/myapp",
    "applicationType": "monolith",
    "databaseType": "sql",
    "buildTool": "maven",
    "clientFramework": "angularX",
    "clientPackageManager": "npm",
    "jhiPrefix": "jhi",
    "enableTranslation": true,
    "nativeLanguage": "en",
    "languages": ["en"]
  }
}
`

const (
	webApp  = "src/main/webapp/app/"
	javaDir = "src/main/java/com/mycompany/myapp/"
)

// hostFiles are the files a freshly generated JHipster 4 project holds
// at the places the generator patches.
var hostFiles = map[string]string{
	".yo-rc.json": testYoRc,
	webApp + "admin/user-management/user-management-detail.component.html": `<div *ngIf="user">
    <dl class="row-md jh-entity-details">
        <dt><span jhiTranslate="userManagement.login">Login</span></dt>
        <dd>{{user.login}}</dd>
        <dt><span jhiTranslate="userManagement.createdBy">Created By</span></dt>
        <dd>{{user.createdBy}}</dd>
    </dl>
</div>
`,
	webApp + "admin/user-management/user-management-dialog.component.html": `<form name="editForm">
    <div class="modal-body">
        <div class="form-group" *ngIf="languages && languages.length > 0">
            <label jhiTranslate="userManagement.langKey">Lang Key</label>
        </div>
    </div>
</form>
`,
	webApp + "layouts/navbar/navbar.component.html": `<ul class="dropdown-menu">
    <li>
        <a class="dropdown-item" routerLink="user-management">User management</a>
    </li>
    <!-- jhipster-needle-add-element-to-admin-menu - JHipster will add entities to the admin menu here -->
</ul>
`,
	webApp + "admin/admin.route.ts": `import { Routes } from '@angular/router';

import {
    auditsRoute,
    userMgmtRoute,
    userDialogRoute
} from './';

const ADMIN_ROUTES = [
    auditsRoute,
    ...userMgmtRoute,
    metricsRoute
];
`,
	webApp + "admin/index.ts": `export * from './audits/audits.component';
export * from './user-management/user-management.route';
`,
	webApp + "admin/admin.module.ts": `import { NgModule } from '@angular/core';

import {
    AuditsComponent,
    UserMgmtComponent,
} from './';

@NgModule({
    declarations: [
        AuditsComponent,
        UserMgmtComponent,
    ],
})
export class JhipsterAdminModule {}
`,
	"src/main/resources/config/liquibase/master.xml": `<databaseChangeLog>
    <include file="config/liquibase/changelog/00000000000000_initial_schema.xml" relativeToChangelogFile="false"/>
    <!-- jhipster-needle-liquibase-add-changelog - JHipster will add liquibase changelogs here -->
    <!-- jhipster-needle-liquibase-add-constraints-changelog - JHipster will add liquibase constraints changelogs here -->
</databaseChangeLog>
`,
	"src/main/webapp/i18n/en/global.json": `{
  "global": {
    "menu": {
      "admin": {
        "main": "Administration"
      }
    }
  }
}
`,
}

func newProject(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range hostFiles {
		if err := writeString(fs, name, content); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return fs
}

func readFile(t *testing.T, fs billy.Filesystem, name string) string {
	t.Helper()
	data, err := util.ReadFile(fs, name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func readJSON(t *testing.T, fs billy.Filesystem, name string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(readFile(t, fs, name)), v); err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
}

func exists(fs billy.Filesystem, name string) bool {
	_, err := fs.Stat(name)
	return err == nil
}

// fakeRunner records host commands and fails those named in failOn.
type fakeRunner struct {
	calls  []string
	failOn map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if f.failOn[name] {
		return errCommand
	}
	return nil
}

var errCommand = errors.New("exit status 1")

type fakePrompter struct {
	answer string
	asked  int
}

func (f *fakePrompter) TenantAlias(_ context.Context, defaultAlias string) (string, error) {
	f.asked++
	if f.answer == "" {
		return defaultAlias, nil
	}
	return f.answer, nil
}

var fixedTime = time.Date(2017, 10, 2, 12, 0, 0, 0, time.UTC)

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// newTestGenerator builds a generator over fs with a fake runner.
func newTestGenerator(t *testing.T, fs billy.Filesystem, r *fakeRunner, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithRunner(r), WithClock(fixedClock(fixedTime))}, opts...)
	g, err := New(fs, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func nonInteractive(tenant string) Options {
	opts := DefaultOptions("/project")
	opts.NonInteractive = true
	opts.Tenant = tenant
	return opts
}

func writeString(fs billy.Filesystem, name, content string) error {
	return util.WriteFile(fs, name, []byte(content), 0o644)
}

func mustConfig(t *testing.T, fs billy.Filesystem) *hostconfig.Config {
	t.Helper()
	cfg, err := hostconfig.Load(fs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func mustDerive(t *testing.T, alias string) tenant.Variants {
	t.Helper()
	v, err := tenant.Derive(alias)
	if err != nil {
		t.Fatalf("Derive(%q) error = %v", alias, err)
	}
	return v
}
