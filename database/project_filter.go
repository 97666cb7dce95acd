package database

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"gorm.io/gorm"
)

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ProjectFilter holds the optional listing filters. Zero values impose no constraint.
type ProjectFilter struct {
	Technologies []string
	Year         *int
	Search       string
}

// ParseProjectFilter reads the tech, year and search query parameters.
func ParseProjectFilter(query url.Values) (ProjectFilter, error) {
	var filter ProjectFilter

	for _, name := range strings.Split(query.Get("tech"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			filter.Technologies = append(filter.Technologies, name)
		}
	}

	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 || year > 9998 {
			return ProjectFilter{}, errs.NewInvalidFieldError("year", "must be a calendar year")
		}
		filter.Year = &year
	}

	filter.Search = strings.TrimSpace(query.Get("search"))
	return filter, nil
}

// YearBounds returns the half-open UTC interval [year-01-01, (year+1)-01-01).
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// Scope translates the filter into a predicate on the projects table. All present filters are
// AND-ed together.
func (f ProjectFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(f.Technologies) > 0 {
			names := make([]string, len(f.Technologies))
			for i, name := range f.Technologies {
				names[i] = strings.ToLower(name)
			}
			db = db.Where(`EXISTS (
				SELECT 1 FROM technology_on_projects tp
				JOIN technologies t ON t.id = tp.technology_id
				WHERE tp.project_id = projects.id AND LOWER(t.name) IN ?)`, names)
		}

		if f.Year != nil {
			start, end := YearBounds(*f.Year)
			db = db.Where("projects.project_date >= ? AND projects.project_date < ?", start, end)
		}

		if f.Search != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
			db = db.Where(`(LOWER(projects.title) LIKE ? ESCAPE '\'
				OR LOWER(projects.description) LIKE ? ESCAPE '\'
				OR LOWER(COALESCE(projects.proposito, '')) LIKE ? ESCAPE '\')`, pattern, pattern, pattern)
		}

		return db
	}
}
