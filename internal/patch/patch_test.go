package patch

import (
	"errors"
	"strings"
	"testing"
)

const detailHTML = `<dl class="row-md jh-entity-details">
    <dt><span jhiTranslate="userManagement.login">Login</span></dt>
    <dd><span>{{user.login}}</span></dd>
    <dt><span jhiTranslate="userManagement.createdBy">Created By</span></dt>
    <dd>{{user.createdBy}}</dd>
</dl>
`

func TestApplyInsertBefore(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "detail", Anchor: "<b>", Payload: "<a/>", Mode: InsertBefore}
	got, status, err := Apply("x<b>y<b>", p)
	if err != nil {
		t.Fatal(err)
	}
	if got != "x<a/><b>y<b>" || status != Applied {
		t.Errorf("Apply() = %q, %v; want %q, applied", got, status, "x<a/><b>y<b>")
	}
}

func TestApplyInsertAfter(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "after", Anchor: "} from './';", Payload: "\nimport { X } from './x';", Mode: InsertAfter}
	got, status, err := Apply("import {\n    A\n} from './';\n\nconst R = [];\n", p)
	if err != nil {
		t.Fatal(err)
	}
	want := "import {\n    A\n} from './';\nimport { X } from './x';\n\nconst R = [];\n"
	if got != want || status != Applied {
		t.Errorf("Apply() = %q, %v; want %q, applied", got, status, want)
	}
}

func TestApplyAnchorMissing(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{InsertBefore, InsertAfter, Replace} {
		p := Patch{Name: "missing", Anchor: "not-there", Payload: "payload", Mode: mode, LineAware: true}
		got, status, err := Apply(detailHTML, p)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if got != detailHTML {
			t.Errorf("%s: content changed on missing anchor", mode)
		}
		if status != AnchorMissing {
			t.Errorf("%s: status = %v, want anchor-missing", mode, status)
		}
	}
}

func TestApplyLineAwareBefore(t *testing.T) {
	t.Parallel()

	p := Patch{
		Name:      "detail",
		Anchor:    `<dt><span jhiTranslate="userManagement.createdBy">Created By</span></dt>`,
		Payload:   "<dt><span jhiTranslate=\"userManagementCompany\">Company</span></dt>\n<dd>{{user.company?.name}}</dd>",
		Mode:      InsertBefore,
		LineAware: true,
	}

	got, status, err := Apply(detailHTML, p)
	if err != nil {
		t.Fatal(err)
	}
	if status != Applied {
		t.Fatalf("status = %v, want applied", status)
	}

	want := "    <dt><span jhiTranslate=\"userManagementCompany\">Company</span></dt>\n" +
		"    <dd>{{user.company?.name}}</dd>\n" +
		"    <dt><span jhiTranslate=\"userManagement.createdBy\">Created By</span></dt>\n"
	if !strings.Contains(got, want) {
		t.Errorf("Apply() =\n%s\nwant it to contain\n%s", got, want)
	}

	again, status, err := Apply(got, p)
	if err != nil {
		t.Fatal(err)
	}
	if status != AlreadyApplied || again != got {
		t.Errorf("second Apply() status = %v, changed = %v; want already-applied, unchanged", status, again != got)
	}
}

func TestApplyLineAwareAfterPattern(t *testing.T) {
	t.Parallel()

	content := "@NgModule({\n    imports: [],\n    declarations: [\n        AuditsComponent,\n    ]\n})\n"
	p := Patch{
		Name:      "declarations",
		Pattern:   `declarations:\s*\[`,
		Payload:   "    CompanyMgmtComponent,",
		Mode:      InsertAfter,
		LineAware: true,
	}

	got, status, err := Apply(content, p)
	if err != nil {
		t.Fatal(err)
	}
	want := "    declarations: [\n        CompanyMgmtComponent,\n        AuditsComponent,\n"
	if status != Applied || !strings.Contains(got, want) {
		t.Errorf("Apply() = %q, %v; want it to contain %q", got, status, want)
	}

	if _, status, _ := Apply(got, p); status != AlreadyApplied {
		t.Errorf("second Apply() status = %v, want already-applied", status)
	}
}

func TestApplyLineAwareAfterLastLine(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "eof", Anchor: "last", Payload: "added", Mode: InsertAfter, LineAware: true}
	got, status, err := Apply("first\n  last", p)
	if err != nil {
		t.Fatal(err)
	}
	if got != "first\n  last\n  added" || status != Applied {
		t.Errorf("Apply() = %q, %v; want %q", got, status, "first\n  last\n  added")
	}
	if _, status, _ := Apply(got, p); status != AlreadyApplied {
		t.Errorf("second Apply() status = %v, want already-applied", status)
	}
}

func TestApplyReplacePattern(t *testing.T) {
	t.Parallel()

	p := Patch{
		Name:    "pointcut",
		Pattern: `execution\(\* ([a-z.]+)\.web\.rest\.UserResource\.\*\(\.\.\)\)`,
		Payload: "execution(* $1.service.UserService.*(..))",
		Mode:    Replace,
	}

	got, status, err := Apply(`@Before("execution(* com.acme.web.rest.UserResource.*(..))")`, p)
	if err != nil {
		t.Fatal(err)
	}
	want := `@Before("execution(* com.acme.service.UserService.*(..))")`
	if got != want || status != Applied {
		t.Errorf("Apply() = %q, %v; want %q", got, status, want)
	}
}

func TestApplyReplaceLiteralAlreadyApplied(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "literal", Anchor: "old", Payload: "new", Mode: Replace}
	got, status, _ := Apply("a old b old", p)
	if got != "a new b old" || status != Applied {
		t.Errorf("Apply() = %q, %v; want first occurrence replaced", got, status)
	}

	_, status, _ = Apply("a new b", p)
	if status != AlreadyApplied {
		t.Errorf("status = %v, want already-applied", status)
	}
}

func TestApplyGuard(t *testing.T) {
	t.Parallel()

	const aspect = `@Before("execution(* a.UserResource.*(..)) || execution(* a.BookResource.*(..)) || execution(* a.PageResource.*(..))")` + "\n    public void beforeExecution() {\n"
	tests := []struct {
		name  string
		guard string
		want  Status
	}{
		{name: "present_elsewhere", guard: "execution(* a.BookResource.*(..))", want: AlreadyApplied},
		{name: "absent", guard: "execution(* a.ShelfResource.*(..))", want: Applied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Patch{
				Name:    "pointcut",
				Pattern: `"\)\s*\n\s*public void beforeExecution\(`,
				Payload: " || " + tt.guard,
				Mode:    InsertBefore,
				Guard:   tt.guard,
			}
			got, status, err := Apply(aspect, p)
			if err != nil {
				t.Fatal(err)
			}
			if status != tt.want {
				t.Errorf("status = %v, want %v", status, tt.want)
			}
			if n := strings.Count(got, tt.guard); n != 1 {
				t.Errorf("guard text occurs %d times, want 1:\n%s", n, got)
			}
		})
	}

	replaced := Patch{Name: "ctor", Anchor: "private a: A) {}", Payload: "private a: A, private p: P) {}", Mode: Replace, Guard: "private p: P"}
	got, status, err := Apply("constructor(private a: A, private p: P) {}", replaced)
	if err != nil || status != AlreadyApplied || got != "constructor(private a: A, private p: P) {}" {
		t.Errorf("Apply() after replace = %q, %v, %v; want unchanged, already-applied", got, status, err)
	}
}

func TestApplyErrors(t *testing.T) {
	t.Parallel()

	if _, _, err := Apply("x", Patch{Name: "none", Payload: "y"}); !errors.Is(err, ErrNoAnchor) {
		t.Errorf("Apply() without anchor error = %v, want ErrNoAnchor", err)
	}
	if _, _, err := Apply("x", Patch{Name: "bad", Pattern: "(", Payload: "y"}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Apply() with bad pattern error = %v, want ErrInvalidPattern", err)
	}
}

func TestApplyDeterministic(t *testing.T) {
	t.Parallel()

	p := Patch{Name: "detail", Anchor: "<dd>", Payload: "<dt>X</dt>", Mode: InsertBefore, LineAware: true}
	first, _, _ := Apply(detailHTML, p)
	for range 5 {
		if got, _, _ := Apply(detailHTML, p); got != first {
			t.Fatal("Apply() is not deterministic")
		}
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	tests := map[Status]string{
		Applied:        "applied",
		AlreadyApplied: "already-applied",
		AnchorMissing:  "anchor-missing",
		Status(0):      "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
