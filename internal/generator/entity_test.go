package generator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"

	"github.com/sonalake/jhipster-multitenancy/internal/patch"
)

const bookUpdate = webApp + "entities/book/book-update.component.ts"

const bookUpdateComponent = `import { Component, OnInit } from '@angular/core';
import { ActivatedRoute } from '@angular/router';

import { IBook } from 'app/shared/model/book.model';
import { BookService } from './book.service';

@Component({
    selector: 'jhi-book-update',
    templateUrl: './book-update.component.html'
})
export class BookUpdateComponent implements OnInit {
    private _book: IBook;
    isSaving: boolean;

    constructor(private bookService: BookService, private activatedRoute: ActivatedRoute) {}
}
`

// tenantProject returns a project the generator already ran in for Company,
// holding the update component of a Book entity.
func tenantProject(t *testing.T) billy.Filesystem {
	t.Helper()
	fs := newProject(t)
	if _, err := newTestGenerator(t, fs, &fakeRunner{}).Run(context.Background(), nonInteractive("Company")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := writeString(fs, bookUpdate, bookUpdateComponent); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestRunEntity_Book(t *testing.T) {
	t.Parallel()

	fs := tenantProject(t)
	res, err := newTestGenerator(t, fs, &fakeRunner{}).RunEntity(context.Background(), EntityOptions{Name: "book"})
	if err != nil {
		t.Fatalf("RunEntity() error = %v", err)
	}
	if res.Entity != "Book" || res.Tenant != "company" {
		t.Errorf("Entity, Tenant = %q, %q; want %q, %q", res.Entity, res.Tenant, "Book", "company")
	}
	if missing := res.Missing(); len(missing) != 0 {
		t.Errorf("missing patches: %+v", missing)
	}

	aspect := readFile(t, fs, javaDir+"aop/company/CompanyAspect.java")
	want := `execution(* com.mycompany.myapp.web.rest.UserResource.*(..)) || execution(* com.mycompany.myapp.web.rest.BookResource.*(..))")`
	if !strings.Contains(aspect, want) {
		t.Errorf("aspect pointcut missing %q", want)
	}

	update := readFile(t, fs, bookUpdate)
	for _, w := range []string{
		"import { Principal } from 'app/core';\nimport { CompanyService } from 'app/entities/company';\n@Component({",
		"    isSaving: boolean;\n    currentAccount: any;\n",
		"private activatedRoute: ActivatedRoute, private companyService: CompanyService, private principal: Principal) {",
		"this.currentAccount = account;",
	} {
		if !strings.Contains(update, w) {
			t.Errorf("update component missing %q:\n%s", w, update)
		}
	}

	if got := mustConfig(t, fs).Plugin.TenantisedEntities; !slices.Equal(got, []string{"Book"}) {
		t.Errorf("TenantisedEntities = %v, want [Book]", got)
	}
	manifest := readFile(t, fs, ".jhipster/multitenancy-manifest.yaml")
	for _, name := range []string{"liquibase-changelog", "entity-aspect-book"} {
		if !strings.Contains(manifest, "name: "+name) {
			t.Errorf("manifest missing entry %q", name)
		}
	}
}

func TestRunEntity_Rerun(t *testing.T) {
	t.Parallel()

	fs := tenantProject(t)
	ctx := context.Background()
	g := newTestGenerator(t, fs, &fakeRunner{})
	for _, name := range []string{"Book", "Shelf", "Book"} {
		if _, err := g.RunEntity(ctx, EntityOptions{Name: name}); err != nil {
			t.Fatalf("RunEntity(%q) error = %v", name, err)
		}
	}

	res, err := g.RunEntity(ctx, EntityOptions{Name: "Book"})
	if err != nil {
		t.Fatalf("RunEntity() error = %v", err)
	}
	for _, p := range res.Patches {
		if p.Status != patch.AlreadyApplied {
			t.Errorf("%s status = %s, want %s", p.Name, p.Status, patch.AlreadyApplied)
		}
	}

	aspect := readFile(t, fs, javaDir+"aop/company/CompanyAspect.java")
	if n := strings.Count(aspect, "web.rest.BookResource"); n != 1 {
		t.Errorf("BookResource in pointcut %d times, want 1", n)
	}
	if got := mustConfig(t, fs).Plugin.TenantisedEntities; !slices.Equal(got, []string{"Book", "Shelf"}) {
		t.Errorf("TenantisedEntities = %v, want [Book Shelf]", got)
	}

	// a later full run renders the aspect with the saved entities
	if _, err := newTestGenerator(t, fs, &fakeRunner{}).Run(ctx, nonInteractive("Company")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	aspect = readFile(t, fs, javaDir+"aop/company/CompanyAspect.java")
	want := `UserResource.*(..)) || execution(* com.mycompany.myapp.web.rest.BookResource.*(..)) || execution(* com.mycompany.myapp.web.rest.ShelfResource.*(..))")`
	if !strings.Contains(aspect, want) {
		t.Errorf("re-rendered aspect missing %q", want)
	}
}

func TestRunEntity_Skipped(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Company", "user"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fs := tenantProject(t)
			before := readFile(t, fs, javaDir+"aop/company/CompanyAspect.java")

			res, err := newTestGenerator(t, fs, &fakeRunner{}).RunEntity(context.Background(), EntityOptions{Name: name})
			if err != nil {
				t.Fatalf("RunEntity() error = %v", err)
			}
			if res.SkipReason == "" {
				t.Error("SkipReason is empty")
			}
			if len(res.Patches) != 0 {
				t.Errorf("patches = %d, want 0", len(res.Patches))
			}
			if got := readFile(t, fs, javaDir+"aop/company/CompanyAspect.java"); got != before {
				t.Error("aspect changed on a skipped run")
			}
		})
	}
}

func TestRunEntity_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := newTestGenerator(t, newProject(t), &fakeRunner{}).RunEntity(ctx, EntityOptions{Name: "Book"})
	if !errors.Is(err, ErrNoTenant) {
		t.Errorf("RunEntity() before Run error = %v, want ErrNoTenant", err)
	}

	_, err = newTestGenerator(t, tenantProject(t), &fakeRunner{}).RunEntity(ctx, EntityOptions{Name: "!!!"})
	if !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("RunEntity(%q) error = %v, want ErrInvalidEntity", "!!!", err)
	}

	// without an update component the client patches are reported missing
	fs := newProject(t)
	if _, err := newTestGenerator(t, fs, &fakeRunner{}).Run(ctx, nonInteractive("Company")); err != nil {
		t.Fatal(err)
	}
	res, err := newTestGenerator(t, fs, &fakeRunner{}).RunEntity(ctx, EntityOptions{Name: "Book"})
	if err != nil {
		t.Fatalf("RunEntity() error = %v", err)
	}
	if n := len(res.Missing()); n != 3 {
		t.Errorf("missing = %d, want 3 update component patches", n)
	}

	_, err = newTestGenerator(t, fs, &fakeRunner{}).RunEntity(ctx, EntityOptions{Name: "Book", Strict: true})
	if !errors.Is(err, patch.ErrTargetMissing) {
		t.Errorf("strict RunEntity() error = %v, want ErrTargetMissing", err)
	}
}

func TestRunEntity_DryRun(t *testing.T) {
	t.Parallel()

	fs := tenantProject(t)
	before := readFile(t, fs, bookUpdate)

	res, err := newTestGenerator(t, fs, &fakeRunner{}).RunEntity(context.Background(), EntityOptions{Name: "Book", DryRun: true})
	if err != nil {
		t.Fatalf("RunEntity() error = %v", err)
	}
	if got := readFile(t, fs, bookUpdate); got != before {
		t.Error("dry run wrote the update component")
	}
	paths := make([]string, 0, len(res.Diffs))
	for _, d := range res.Diffs {
		paths = append(paths, d.Path)
	}
	if !slices.Contains(paths, bookUpdate) {
		t.Errorf("diffs = %v, want %s", paths, bookUpdate)
	}
}
