package database

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-backend/database/dbtest"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

func newProject(title string, date time.Time) *models.Project {
	return &models.Project{
		Title:       title,
		Description: "descrição de " + title,
		LinkRepo:    "https://github.com/example/" + title,
		LinkDemo:    "https://example.dev/" + title,
		ProjectDate: date,
		Status:      models.StatusConcluido,
	}
}

func mustCreate(t *testing.T, repo *ProjectRepo, p *models.Project, rel Relations) *models.Project {
	t.Helper()
	created, err := repo.Create(context.Background(), p, rel)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", p.Title, err)
	}
	return created
}

func titles(projects []models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Title
	}
	return out
}

func technologyIDs(p *models.Project) map[uint]bool {
	ids := make(map[uint]bool, len(p.Technologies))
	for _, link := range p.Technologies {
		ids[link.TechnologyID] = true
	}
	return ids
}

func TestProjectRepoYearFilterBoundary(t *testing.T) {
	t.Parallel()

	repo := NewProjectRepo(dbtest.Open(t))
	mustCreate(t, repo, newProject("last-day", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)), Relations{})
	mustCreate(t, repo, newProject("first-day", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)), Relations{})
	mustCreate(t, repo, newProject("next-year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), Relations{})
	mustCreate(t, repo, newProject("prev-year", time.Date(2022, 12, 31, 23, 59, 59, 0, time.UTC)), Relations{})

	year := 2023
	got, err := repo.FindAll(context.Background(), ProjectFilter{Year: &year})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}

	names := titles(got)
	if len(names) != 2 {
		t.Fatalf("FindAll(year=2023) = %v, want [first-day last-day]", names)
	}
	for _, name := range names {
		if name == "next-year" || name == "prev-year" {
			t.Errorf("FindAll(year=2023) included %q", name)
		}
	}
}

func TestProjectRepoFilters(t *testing.T) {
	t.Parallel()

	repo := NewProjectRepo(dbtest.Open(t))
	ctx := context.Background()

	proposito := "Aprender sobre concorrência"
	api := newProject("API de Pagamentos", time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	api.Proposito = &proposito
	mustCreate(t, repo, api, Relations{Technologies: &TechnologySelection{NewNames: []string{"Go", "PostgreSQL"}}})
	mustCreate(t, repo, newProject("Landing Page", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		Relations{Technologies: &TechnologySelection{NewNames: []string{"React"}}})
	mustCreate(t, repo, newProject("CLI Tool", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		Relations{Technologies: &TechnologySelection{NewNames: []string{"go"}}})

	year2024 := 2024
	tests := []struct {
		name   string
		filter ProjectFilter
		want   []string
	}{
		{"no filters", ProjectFilter{}, []string{"CLI Tool", "Landing Page", "API de Pagamentos"}},
		{"tech case insensitive", ProjectFilter{Technologies: []string{"GO"}}, []string{"CLI Tool", "API de Pagamentos"}},
		{"tech any of", ProjectFilter{Technologies: []string{"react", "postgresql"}}, []string{"Landing Page", "API de Pagamentos"}},
		{"search title", ProjectFilter{Search: "landing"}, []string{"Landing Page"}},
		{"search description", ProjectFilter{Search: "DESCRIÇÃO DE CLI"}, []string{"CLI Tool"}},
		{"search proposito", ProjectFilter{Search: "concorr"}, []string{"API de Pagamentos"}},
		{"combined", ProjectFilter{Technologies: []string{"go"}, Year: &year2024}, []string{"CLI Tool"}},
		{"combined no match", ProjectFilter{Technologies: []string{"react"}, Search: "cli"}, []string{}},
		{"underscore is literal", ProjectFilter{Search: "g_p"}, []string{}},
		{"lone underscore", ProjectFilter{Search: "_"}, []string{}},
		{"percent is literal", ProjectFilter{Search: "landing%page"}, []string{}},
		{"lone percent", ProjectFilter{Search: "%"}, []string{}},
		{"backslash is literal", ProjectFilter{Search: `\`}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, tt.filter)
			if err != nil {
				t.Fatalf("FindAll() error = %v", err)
			}
			names := titles(got)
			if len(names) != len(tt.want) {
				t.Fatalf("FindAll() = %v, want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("FindAll()[%d] = %q, want %q", i, names[i], tt.want[i])
				}
			}
		})
	}
}

func TestProjectRepoSearchMatchesWildcardCharacters(t *testing.T) {
	t.Parallel()

	repo := NewProjectRepo(dbtest.Open(t))
	mustCreate(t, repo, newProject("100% snake_case", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), Relations{})
	mustCreate(t, repo, newProject("1000 snakeXcase", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), Relations{})

	for _, search := range []string{"0%", "e_c", "%", "_"} {
		got, err := repo.FindAll(context.Background(), ProjectFilter{Search: search})
		if err != nil {
			t.Fatalf("FindAll(%q) error = %v", search, err)
		}
		if names := titles(got); len(names) != 1 || names[0] != "100% snake_case" {
			t.Errorf("FindAll(%q) = %v, want only the literal match", search, names)
		}
	}
}

func TestProjectRepoOrderByCreatedAt(t *testing.T) {
	t.Parallel()

	repo := NewProjectRepo(dbtest.Open(t))
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	older := newProject("older", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	older.CreatedAt = base
	newer := newProject("newer", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	newer.CreatedAt = base.Add(time.Hour)
	mustCreate(t, repo, newer, Relations{})
	mustCreate(t, repo, older, Relations{})

	got, err := repo.FindAll(context.Background(), ProjectFilter{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if names := titles(got); len(names) != 2 || names[0] != "newer" {
		t.Errorf("FindAll() = %v, want newest created first", names)
	}
}

func TestProjectRepoReconcileReusesExistingTechnology(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	zig := models.Technology{Name: "Zig", Category: "Linguagem", ShowInPortfolio: true}
	if err := db.Create(&zig).Error; err != nil {
		t.Fatalf("seed Zig: %v", err)
	}

	created := mustCreate(t, repo, newProject("compiler", time.Now().UTC()),
		Relations{Technologies: &TechnologySelection{NewNames: []string{"Zig"}}})

	var count int64
	if err := db.Model(&models.Technology{}).Where("name = ?", "Zig").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("technologies named Zig = %d, want 1", count)
	}
	if len(created.Technologies) != 1 || created.Technologies[0].TechnologyID != zig.ID {
		t.Fatalf("links = %+v, want one link to %d", created.Technologies, zig.ID)
	}
	if created.Technologies[0].Technology.Category != "Linguagem" {
		t.Errorf("existing technology was modified: %+v", created.Technologies[0].Technology)
	}

	// repeated ids and names are absorbed
	again, err := repo.Update(ctx, created.ID, nil, Relations{Technologies: &TechnologySelection{
		ExistingIDs: []uint{zig.ID, zig.ID},
		NewNames:    []string{"Zig", " Rust ", ""},
	}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(again.Technologies) != 2 {
		t.Errorf("links = %d, want 2 (Zig, Rust)", len(again.Technologies))
	}
	rust, err := NewTechnologyRepo(db).FindByName(ctx, "Rust")
	if err != nil {
		t.Fatalf("FindByName(Rust) error = %v", err)
	}
	if rust.Category != models.DefaultTechnologyCategory || rust.ShowInPortfolio {
		t.Errorf("new technology defaults = %+v", rust)
	}
}

func TestProjectRepoUpdateReplacesRelations(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	created := mustCreate(t, repo, newProject("site", time.Now().UTC()), Relations{
		Technologies: &TechnologySelection{NewNames: []string{"Go", "HTMX"}},
		Images:       &ImageSelection{URLs: []string{"https://cdn.dev/a.png", "https://cdn.dev/b.png"}},
	})
	if len(created.Images) != 2 || *created.Images[0].AltText != "site" {
		t.Fatalf("images = %+v", created.Images)
	}

	// fields only: relations untouched
	updated, err := repo.Update(ctx, created.ID, map[string]any{"title": "site v2"}, Relations{})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "site v2" || len(updated.Technologies) != 2 || len(updated.Images) != 2 {
		t.Fatalf("partial update changed relations: %+v", updated)
	}

	// replace, not merge
	updated, err = repo.Update(ctx, created.ID, nil, Relations{
		Technologies: &TechnologySelection{NewNames: []string{"Svelte"}},
		Images:       &ImageSelection{URLs: []string{"https://cdn.dev/c.png"}},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.Technologies) != 1 || updated.Technologies[0].Technology.Name != "Svelte" {
		t.Errorf("technologies = %+v, want only Svelte", updated.Technologies)
	}
	if len(updated.Images) != 1 || updated.Images[0].URL != "https://cdn.dev/c.png" {
		t.Errorf("images = %+v, want only c.png", updated.Images)
	}
	if *updated.Images[0].AltText != "site v2" {
		t.Errorf("alt text = %q, want current title", *updated.Images[0].AltText)
	}

	// empty sets clear
	updated, err = repo.Update(ctx, created.ID, nil, Relations{
		Technologies: &TechnologySelection{},
		Images:       &ImageSelection{},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.Technologies) != 0 || len(updated.Images) != 0 {
		t.Errorf("relations not cleared: %+v", updated)
	}

	var imageRows int64
	db.Model(&models.Image{}).Count(&imageRows)
	if imageRows != 0 {
		t.Errorf("orphan image rows = %d", imageRows)
	}
}

func TestProjectRepoUpdateRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	created := mustCreate(t, repo, newProject("stable", time.Now().UTC()), Relations{
		Technologies: &TechnologySelection{NewNames: []string{"Go"}},
		Images:       &ImageSelection{URLs: []string{"https://cdn.dev/keep.png"}},
	})

	boom := errors.New("disk full")
	if err := db.Callback().Create().Before("gorm:create").Register("test:fail_images", func(tx *gorm.DB) {
		if tx.Statement.Table == "images" {
			_ = tx.AddError(boom)
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err := repo.Update(ctx, created.ID, map[string]any{"title": "broken"}, Relations{
		Technologies: &TechnologySelection{NewNames: []string{"Elixir"}},
		Images:       &ImageSelection{URLs: []string{"https://cdn.dev/new.png"}},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want %v", err, boom)
	}

	after, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if after.Title != "stable" {
		t.Errorf("title = %q, want rollback to %q", after.Title, "stable")
	}
	if len(after.Technologies) != 1 || after.Technologies[0].Technology.Name != "Go" {
		t.Errorf("technologies = %+v, want rollback to Go", after.Technologies)
	}
	if len(after.Images) != 1 || after.Images[0].URL != "https://cdn.dev/keep.png" {
		t.Errorf("images = %+v, want rollback to keep.png", after.Images)
	}
	if _, err := NewTechnologyRepo(db).FindByName(ctx, "Elixir"); !errs.IsNotFound(err) {
		t.Errorf("Elixir insert survived the rollback: %v", err)
	}
}

func TestProjectRepoNotFound(t *testing.T) {
	t.Parallel()

	repo := NewProjectRepo(dbtest.Open(t))
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 42); !errs.IsNotFound(err) {
		t.Errorf("FindByID() error = %v, want not found", err)
	}
	if _, err := repo.Update(ctx, 42, map[string]any{"title": "x"}, Relations{}); !errs.IsNotFound(err) {
		t.Errorf("Update() error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, 42); !errs.IsNotFound(err) {
		t.Errorf("Delete() error = %v, want not found", err)
	}
}

func TestProjectRepoDelete(t *testing.T) {
	t.Parallel()

	db := dbtest.Open(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	created := mustCreate(t, repo, newProject("temp", time.Now().UTC()), Relations{
		Technologies: &TechnologySelection{NewNames: []string{"Go"}},
		Images:       &ImageSelection{URLs: []string{"https://cdn.dev/x.png"}},
	})

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); !errs.IsNotFound(err) {
		t.Errorf("FindByID() after delete error = %v", err)
	}

	var links, images, technologies int64
	db.Model(&models.TechnologyOnProject{}).Count(&links)
	db.Model(&models.Image{}).Count(&images)
	db.Model(&models.Technology{}).Count(&technologies)
	if links != 0 || images != 0 {
		t.Errorf("owned rows left behind: links=%d images=%d", links, images)
	}
	if technologies != 1 {
		t.Errorf("technologies = %d, technologies outlive projects", technologies)
	}
}

func TestParseProjectFilter(t *testing.T) {
	t.Parallel()

	filter, err := ParseProjectFilter(url.Values{
		"tech":   {" Go, ,React "},
		"year":   {"2023"},
		"search": {"  api "},
	})
	if err != nil {
		t.Fatalf("ParseProjectFilter() error = %v", err)
	}
	if len(filter.Technologies) != 2 || filter.Technologies[0] != "Go" || filter.Technologies[1] != "React" {
		t.Errorf("Technologies = %q", filter.Technologies)
	}
	if filter.Year == nil || *filter.Year != 2023 {
		t.Errorf("Year = %v, want 2023", filter.Year)
	}
	if filter.Search != "api" {
		t.Errorf("Search = %q, want %q", filter.Search, "api")
	}

	empty, err := ParseProjectFilter(url.Values{})
	if err != nil || empty.Technologies != nil || empty.Year != nil || empty.Search != "" {
		t.Errorf("ParseProjectFilter(empty) = %+v, %v", empty, err)
	}

	if _, err := ParseProjectFilter(url.Values{"year": {"twenty"}}); !errs.IsInvalidFieldError(err) {
		t.Errorf("ParseProjectFilter(year=twenty) error = %v, want invalid field", err)
	}
}

func TestYearBounds(t *testing.T) {
	t.Parallel()

	start, end := YearBounds(2023)
	if !start.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) || !end.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("YearBounds(2023) = [%v, %v)", start, end)
	}
}
