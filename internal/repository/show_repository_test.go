package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tv-show-library/internal/config"
	"github.com/iliyamo/tv-show-library/internal/database"
	"github.com/iliyamo/tv-show-library/internal/model"
	"github.com/iliyamo/tv-show-library/internal/repository"
)

func newRepo(t *testing.T) *repository.ShowRepo {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, config.DriverSQLite))
	return repository.NewShowRepo(db)
}

func seed(t *testing.T, r *repository.ShowRepo, title string, ended bool) *model.Show {
	t.Helper()
	s := &model.Show{Title: title, CoverImageURL: "https://img.example/" + title + ".jpg", Genre: "Drama", IsEnded: ended}
	require.NoError(t, r.Create(context.Background(), s))
	return s
}

func TestShowRepo_CreateAndGet(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	s := seed(t, r, "Breaking Bad", true)
	assert.NotZero(t, s.ID)
	assert.WithinDuration(t, time.Now(), s.CreatedAt, time.Minute)

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Title, got.Title)
	assert.Equal(t, s.CoverImageURL, got.CoverImageURL)
	assert.Equal(t, "Drama", got.Genre)
	assert.True(t, got.IsEnded)
	assert.WithinDuration(t, s.CreatedAt, got.CreatedAt, time.Second)
}

func TestShowRepo_GetMissing(t *testing.T) {
	r := newRepo(t)
	_, err := r.GetByID(context.Background(), 99999)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestShowRepo_DuplicateTitleIgnoresCase(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	orig := seed(t, r, "Breaking Bad", true)

	exists, err := r.TitleExists(ctx, "bReAkInG bAd", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.TitleExists(ctx, "breaking bad", orig.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a show never conflicts with itself")

	err = r.Create(ctx, &model.Show{Title: "BREAKING BAD", CoverImageURL: "https://x/y.jpg", Genre: "Drama"})
	assert.ErrorIs(t, err, repository.ErrTitleExists)
}

func TestShowRepo_ListFilters(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seed(t, r, "Breaking Bad", true)
	seed(t, r, "Better Call Saul", true)
	seed(t, r, "Stranger Things", false)
	seed(t, r, "100%_Real", false)

	all, err := r.List(ctx, repository.ShowFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "100%_Real", all[0].Title, "newest first")

	byTitle, err := r.List(ctx, repository.ShowFilter{Title: "BREAK"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Breaking Bad", byTitle[0].Title)

	ended, err := r.List(ctx, repository.ShowFilter{Status: model.StatusEnded})
	require.NoError(t, err)
	assert.Len(t, ended, 2)
	for _, s := range ended {
		assert.True(t, s.IsEnded)
	}

	running, err := r.List(ctx, repository.ShowFilter{Status: model.StatusInProgress, Title: "things"})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "Stranger Things", running[0].Title)

	literal, err := r.List(ctx, repository.ShowFilter{Title: "%_"})
	require.NoError(t, err)
	require.Len(t, literal, 1, "LIKE wildcards in the filter match literally")
	assert.Equal(t, "100%_Real", literal[0].Title)

	unknown, err := r.List(ctx, repository.ShowFilter{Status: "paused"})
	require.NoError(t, err)
	assert.Len(t, unknown, 4)
}

func TestShowRepo_ListEmptyIsNotNil(t *testing.T) {
	r := newRepo(t)
	shows, err := r.List(context.Background(), repository.ShowFilter{Title: "nothing"})
	require.NoError(t, err)
	assert.NotNil(t, shows)
	assert.Empty(t, shows)
}

func TestShowRepo_ListFiltersNonASCII(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	seed(t, r, "Élite", false)
	seed(t, r, "Ñoños", true)
	seed(t, r, "Dark", true)

	for _, tc := range []struct {
		filter string
		want   string
	}{
		{"Élite", "Élite"},
		{"É", "Élite"},
		{"élite", "Élite"},
		{"ÉLITE", "Élite"},
		{"Ñoños", "Ñoños"},
		{"ñoñ", "Ñoños"},
	} {
		got, err := r.List(ctx, repository.ShowFilter{Title: tc.filter})
		require.NoError(t, err)
		require.Len(t, got, 1, "filter %q", tc.filter)
		assert.Equal(t, tc.want, got[0].Title, "filter %q", tc.filter)
	}
}

func TestShowRepo_DuplicateTitleFoldsUnicode(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	orig := seed(t, r, "Élite", false)

	exists, err := r.TitleExists(ctx, "élite", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	err = r.Create(ctx, &model.Show{Title: "ÉLITE", CoverImageURL: "https://x/e.jpg", Genre: "Drama"})
	assert.ErrorIs(t, err, repository.ErrTitleExists)

	other := seed(t, r, "Dark", true)
	err = r.Update(ctx, &model.Show{ID: other.ID, Title: "élite", CoverImageURL: "https://x/d.jpg", Genre: "Drama"})
	assert.ErrorIs(t, err, repository.ErrTitleExists)

	// renaming keeps the key in step with the title
	require.NoError(t, r.Update(ctx, &model.Show{ID: orig.ID, Title: "Élite Short Stories", CoverImageURL: "https://x/e.jpg", Genre: "Drama"}))
	exists, err = r.TitleExists(ctx, "élite", 0)
	require.NoError(t, err)
	assert.False(t, exists)
	got, err := r.List(ctx, repository.ShowFilter{Title: "élite short"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, orig.ID, got[0].ID)
}

func TestShowRepo_Update(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	s := seed(t, r, "Stranger Things", false)

	upd := &model.Show{ID: s.ID, Title: "Stranger Things", CoverImageURL: "https://x/new.jpg", Genre: "Sci-Fi", IsEnded: true}
	require.NoError(t, r.Update(ctx, upd))

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://x/new.jpg", got.CoverImageURL)
	assert.Equal(t, "Sci-Fi", got.Genre)
	assert.True(t, got.IsEnded)
	assert.WithinDuration(t, s.CreatedAt, got.CreatedAt, time.Second)

	// unchanged values are still a success
	require.NoError(t, r.Update(ctx, upd))

	err = r.Update(ctx, &model.Show{ID: 99999, Title: "The Wire", CoverImageURL: "https://x/w.jpg", Genre: "Crime"})
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}

func TestShowRepo_Delete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	s := seed(t, r, "The Crown", false)

	require.NoError(t, r.Delete(ctx, s.ID))
	_, err := r.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)

	assert.ErrorIs(t, r.Delete(ctx, s.ID), repository.ErrShowNotFound)
}
