// Package repository contains data access logic for the tv_shows table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/tv-show-library/internal/model"
)

const showColumns = `id, title, cover_image_url, genre, is_ended, created_at`

// dbTimeFormat is fixed width so that text-stored timestamps sort
// chronologically; MySQL DATETIME(6) accepts it as well.
const dbTimeFormat = "2006-01-02 15:04:05.000000"

// ShowFilter narrows List results.  Empty fields do not filter.
type ShowFilter struct {
	Title  string // case-insensitive substring of the title
	Status string // model.StatusEnded or model.StatusInProgress
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// List returns the shows matching f, newest first.  It never returns a
// nil slice so that handlers encode an empty JSON array.
func (r *ShowRepo) List(ctx context.Context, f ShowFilter) ([]model.Show, error) {
	where := []string{"1=1"}
	args := []any{}

	if title := strings.TrimSpace(f.Title); title != "" {
		where = append(where, "title_key LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(model.TitleKey(title))+"%")
	}
	switch f.Status {
	case model.StatusEnded:
		where = append(where, "is_ended = 1")
	case model.StatusInProgress:
		where = append(where, "is_ended = 0")
	}

	q := `SELECT ` + showColumns + ` FROM tv_shows WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Show, 0)
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id int64) (*model.Show, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM tv_shows WHERE id = ?`, id)
	s, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// TitleExists reports whether a show other than excludeID already uses
// title under Unicode case folding.  Pass 0 to check against every show.
func (r *ShowRepo) TitleExists(ctx context.Context, title string, excludeID int64) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM tv_shows WHERE title_key = ? AND id <> ? LIMIT 1`,
		model.TitleKey(title), excludeID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new show and assigns the generated ID and creation
// time back to s.  A concurrent insert of the same title surfaces as
// ErrTitleExists through the unique index.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tv_shows (title, title_key, cover_image_url, genre, is_ended, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.Title, model.TitleKey(s.Title), s.CoverImageURL, s.Genre, s.IsEnded, now.Format(dbTimeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	s.CreatedAt = now
	return nil
}

// Update replaces title, cover, genre and status of the show with s.ID.
// created_at is never touched.  It returns ErrShowNotFound when the row
// does not exist.
func (r *ShowRepo) Update(ctx context.Context, s *model.Show) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tv_shows SET title = ?, title_key = ?, cover_image_url = ?, genre = ?, is_ended = ? WHERE id = ?`,
		s.Title, model.TitleKey(s.Title), s.CoverImageURL, s.Genre, s.IsEnded, s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return err
	}
	// MySQL reports 0 affected rows when values are unchanged, so an
	// existence probe decides between "not found" and "no-op".
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, s.ID); err != nil {
		return err
	}
	return nil
}

// Delete removes the show with the given ID or returns ErrShowNotFound.
func (r *ShowRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tv_shows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (model.Show, error) {
	var (
		s       model.Show
		created dbTime
	)
	if err := row.Scan(&s.ID, &s.Title, &s.CoverImageURL, &s.Genre, &s.IsEnded, &created); err != nil {
		return model.Show{}, err
	}
	s.CreatedAt = created.Time
	return s, nil
}

// dbTime scans created_at from either driver.  MySQL with parseTime
// hands back time.Time; SQLite may return the stored text as is.
type dbTime struct {
	time.Time
}

var dbTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("created_at: unsupported type %T", src)
}

func (t *dbTime) parse(s string) error {
	for _, layout := range dbTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("created_at: unrecognised time %q", s)
}

// escapeLike escapes LIKE metacharacters using '!' as the escape
// character, which both SQLite and MySQL accept without quoting games.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
