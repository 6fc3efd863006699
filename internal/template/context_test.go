package template

import (
	"testing"

	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
)

// newTestContext builds a context for a SQL-backed angularX project.
func newTestContext(t *testing.T, alias string) *TemplateContext {
	t.Helper()
	v, err := tenant.Derive(alias)
	if err != nil {
		t.Fatalf("Derive(%q) error = %v", alias, err)
	}
	return NewTemplateContext(
		WithHost(&hostconfig.Config{
			BaseName:        "jhipster",
			PackageName:     "com.mycompany.myapp",
			PackageFolder:   "com/mycompany/myapp",
			DatabaseType:    "sql",
			ClientFramework: hostconfig.ClientAngularX,
			JhiPrefix:       "jhi",
		}),
		WithTenant(v),
		WithChangelogDate("20171002120000"),
		WithVersion("v0.0.0-test"),
	)
}

func TestNewTemplateContext_Defaults(t *testing.T) {
	t.Parallel()

	ctx := NewTemplateContext()
	if ctx.PKType != "Long" {
		t.Errorf("PKType = %q, want %q", ctx.PKType, "Long")
	}
	if ctx.JhiPrefix != "jhi" {
		t.Errorf("JhiPrefix = %q, want %q", ctx.JhiPrefix, "jhi")
	}
	if ctx.ClientFramework != hostconfig.ClientAngularX {
		t.Errorf("ClientFramework = %q, want %q", ctx.ClientFramework, hostconfig.ClientAngularX)
	}
}

func TestWithHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *hostconfig.Config
		wantPK   string
		wantApp  string
		wantMain string
	}{
		{
			name:     "sql_long_keys",
			cfg:      &hostconfig.Config{BaseName: "jhipster", DatabaseType: "sql", JhiPrefix: "jhi"},
			wantPK:   "Long",
			wantApp:  "jhipsterApp",
			wantMain: "JhipsterApp",
		},
		{
			name:     "mongodb_string_keys",
			cfg:      &hostconfig.Config{BaseName: "store", DatabaseType: "mongodb", JhiPrefix: "jhi"},
			wantPK:   "String",
			wantApp:  "storeApp",
			wantMain: "StoreApp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := NewTemplateContext(WithHost(tt.cfg))
			if ctx.PKType != tt.wantPK {
				t.Errorf("PKType = %q, want %q", ctx.PKType, tt.wantPK)
			}
			if ctx.AngularAppName != tt.wantApp {
				t.Errorf("AngularAppName = %q, want %q", ctx.AngularAppName, tt.wantApp)
			}
			if ctx.MainClass != tt.wantMain {
				t.Errorf("MainClass = %q, want %q", ctx.MainClass, tt.wantMain)
			}
		})
	}
}

func TestWithHost_Nil(t *testing.T) {
	t.Parallel()

	ctx := NewTemplateContext(WithHost(nil))
	if ctx.PKType != "Long" {
		t.Errorf("PKType = %q, want %q", ctx.PKType, "Long")
	}
}
