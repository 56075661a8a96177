package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"portfolio/internal/domain/models"
	"portfolio/internal/repository"
	"portfolio/internal/storage"
	"portfolio/internal/storage/migrations"
	"portfolio/internal/storage/postgresql"
	"portfolio/internal/storage/postgresql/pgtest"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCtx = context.Background()
)

func setupTestDB(t *testing.T) (*repository.Repository, *pgxpool.Pool) {
	t.Helper()

	dsn := pgtest.DSN(t)

	// Применяем миграции
	require.NoError(t, migrations.MigrateUp(dsn))

	st, err := postgresql.New(testCtx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Stop)

	return repository.NewRepository(st), st.Pool()
}

func mustCreateSection(t *testing.T, repo *repository.Repository, slug string) models.Section {
	t.Helper()

	section, err := repo.Sections.CreateSection(testCtx, models.Section{
		Slug:      slug,
		Name:      gofakeit.Word(),
		IsVisible: true,
	})
	require.NoError(t, err)
	return section
}

func mustCreateItem(t *testing.T, repo *repository.Repository, sectionID int64, slug string) models.Item {
	t.Helper()

	item, err := repo.Items.CreateItem(testCtx, models.Item{
		SectionID:   sectionID,
		Slug:        slug,
		Title:       gofakeit.Sentence(3),
		IsPublished: true,
	})
	require.NoError(t, err)
	return item
}

func mustCreateMedia(t *testing.T, repo *repository.Repository, itemID int64, name string) models.Media {
	t.Helper()

	media, err := repo.Media.CreateMedia(testCtx, models.Media{
		ItemID:      itemID,
		MediaType:   models.MediaTypeImage,
		URL:         "/uploads/" + name,
		StoragePath: name,
	})
	require.NoError(t, err)
	return media
}

// positions возвращает id -> position для строк таблицы
func positions(t *testing.T, db *pgxpool.Pool, table string, ids ...int64) map[int64]int {
	t.Helper()

	rows, err := db.Query(testCtx, fmt.Sprintf("SELECT id, position FROM %s WHERE id = ANY($1)", table), ids)
	require.NoError(t, err)
	defer rows.Close()

	res := make(map[int64]int, len(ids))
	for rows.Next() {
		var id int64
		var pos int
		require.NoError(t, rows.Scan(&id, &pos))
		res[id] = pos
	}
	require.NoError(t, rows.Err())
	return res
}

func itemIDs(items []models.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestPositionedStore_Reorder(t *testing.T) {
	repo, db := setupTestDB(t)

	paintings := mustCreateSection(t, repo, "paintings")
	graphics := mustCreateSection(t, repo, "graphics")

	a := mustCreateItem(t, repo, paintings.ID, "a")
	b := mustCreateItem(t, repo, paintings.ID, "b")
	c := mustCreateItem(t, repo, paintings.ID, "c")
	other := mustCreateItem(t, repo, graphics.ID, "other")

	require.Equal(t, 0, a.Position)
	require.Equal(t, 1, b.Position)
	require.Equal(t, 2, c.Position)
	require.Equal(t, 0, other.Position)

	t.Run("rewrites positions to list order", func(t *testing.T) {
		updated, err := repo.Items.ReorderItems(testCtx, []int64{c.ID, a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated)

		assert.Equal(t, map[int64]int{c.ID: 0, a.ID: 1, b.ID: 2}, positions(t, db, "items", a.ID, b.ID, c.ID))

		items, err := repo.Items.ListItems(testCtx, paintings.ID, false)
		require.NoError(t, err)
		assert.Equal(t, []int64{c.ID, a.ID, b.ID}, itemIDs(items))
	})

	t.Run("idempotent", func(t *testing.T) {
		updated, err := repo.Items.ReorderItems(testCtx, []int64{c.ID, a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated)
		assert.Equal(t, map[int64]int{c.ID: 0, a.ID: 1, b.ID: 2}, positions(t, db, "items", a.ID, b.ID, c.ID))
	})

	t.Run("mixed parents rejected", func(t *testing.T) {
		_, err := repo.Items.ReorderItems(testCtx, []int64{other.ID, a.ID})
		assert.ErrorIs(t, err, storage.ErrScopeMismatch)

		assert.Equal(t, map[int64]int{c.ID: 0, a.ID: 1, b.ID: 2}, positions(t, db, "items", a.ID, b.ID, c.ID))
		assert.Equal(t, map[int64]int{other.ID: 0}, positions(t, db, "items", other.ID))
	})

	t.Run("missing id rejected", func(t *testing.T) {
		_, err := repo.Items.ReorderItems(testCtx, []int64{b.ID, 999999, a.ID})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, map[int64]int{c.ID: 0, a.ID: 1, b.ID: 2}, positions(t, db, "items", a.ID, b.ID, c.ID))
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := repo.Items.ReorderItems(testCtx, []int64{a.ID, a.ID})
		assert.ErrorIs(t, err, storage.ErrDuplicateID)
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		updated, err := repo.Items.ReorderItems(testCtx, []int64{})
		require.NoError(t, err)
		assert.Zero(t, updated)
	})

	t.Run("unlisted siblings follow listed ones", func(t *testing.T) {
		updated, err := repo.Items.ReorderItems(testCtx, []int64{b.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		assert.Equal(t, map[int64]int{b.ID: 0, c.ID: 1, a.ID: 2}, positions(t, db, "items", a.ID, b.ID, c.ID))
	})

	t.Run("sections", func(t *testing.T) {
		updated, err := repo.Sections.ReorderSections(testCtx, []int64{graphics.ID, paintings.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		sections, err := repo.Sections.ListSections(testCtx, true)
		require.NoError(t, err)
		require.Len(t, sections, 2)
		assert.Equal(t, graphics.ID, sections[0].ID)
		assert.Equal(t, paintings.ID, sections[1].ID)
	})

	t.Run("media", func(t *testing.T) {
		m1 := mustCreateMedia(t, repo, a.ID, "1.jpg")
		m2 := mustCreateMedia(t, repo, a.ID, "2.jpg")
		m3 := mustCreateMedia(t, repo, a.ID, "3.jpg")
		foreign := mustCreateMedia(t, repo, b.ID, "4.jpg")

		updated, err := repo.Media.ReorderMedia(testCtx, []int64{m3.ID, m1.ID, m2.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated)

		media, err := repo.Media.ListMedia(testCtx, a.ID)
		require.NoError(t, err)
		require.Len(t, media, 3)
		assert.Equal(t, []int64{m3.ID, m1.ID, m2.ID}, []int64{media[0].ID, media[1].ID, media[2].ID})

		_, err = repo.Media.ReorderMedia(testCtx, []int64{m1.ID, foreign.ID})
		assert.ErrorIs(t, err, storage.ErrScopeMismatch)
	})
}

func TestPositionedStore_ConcurrentReorders(t *testing.T) {
	repo, db := setupTestDB(t)

	section := mustCreateSection(t, repo, "concurrent")
	ids := make([]int64, 0, 8)
	for i := 0; i < 8; i++ {
		ids = append(ids, mustCreateItem(t, repo, section.ID, fmt.Sprintf("item-%d", i)).ID)
	}

	var wg sync.WaitGroup
	for w := 0; w < 10; w++ {
		perm := make([]int64, len(ids))
		copy(perm, ids)
		rand.New(rand.NewSource(int64(w))).Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		wg.Add(1)
		go func(perm []int64) {
			defer wg.Done()
			_, err := repo.Items.ReorderItems(testCtx, perm)
			assert.NoError(t, err)
		}(perm)
	}
	wg.Wait()

	// после гонки позиции все равно образуют перестановку 0..n-1
	seen := make(map[int]bool)
	for _, pos := range positions(t, db, "items", ids...) {
		assert.False(t, seen[pos], "position %d assigned twice", pos)
		seen[pos] = true
		assert.GreaterOrEqual(t, pos, 0)
		assert.Less(t, pos, len(ids))
	}
	assert.Len(t, seen, len(ids))
}

func TestSectionRepo(t *testing.T) {
	repo, _ := setupTestDB(t)

	first := mustCreateSection(t, repo, "first")
	second := mustCreateSection(t, repo, "second")

	t.Run("appends at end", func(t *testing.T) {
		assert.Equal(t, 0, first.Position)
		assert.Equal(t, 1, second.Position)
	})

	t.Run("slug taken", func(t *testing.T) {
		_, err := repo.Sections.CreateSection(testCtx, models.Section{Slug: "first", Name: "dup"})
		assert.ErrorIs(t, err, storage.ErrSlugTaken)
	})

	t.Run("update and lookups", func(t *testing.T) {
		title := "SEO"
		second.Name = "Renamed"
		second.IsVisible = false
		second.SEOTitle = &title

		updated, err := repo.Sections.UpdateSection(testCtx, second)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, 1, updated.Position)
		require.NotNil(t, updated.SEOTitle)

		bySlug, err := repo.Sections.SectionBySlug(testCtx, "second")
		require.NoError(t, err)
		assert.Equal(t, second.ID, bySlug.ID)

		visible, err := repo.Sections.ListSections(testCtx, true)
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, first.ID, visible[0].ID)

		all, err := repo.Sections.ListSections(testCtx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := repo.Sections.UpdateSection(testCtx, models.Section{ID: 424242, Slug: "x", Name: "x"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Sections.SectionByID(testCtx, 424242)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCascadeDelete(t *testing.T) {
	repo, db := setupTestDB(t)

	keep := mustCreateSection(t, repo, "keep")
	doomed := mustCreateSection(t, repo, "doomed")
	tail := mustCreateSection(t, repo, "tail")

	item1 := mustCreateItem(t, repo, doomed.ID, "doomed-1")
	item2 := mustCreateItem(t, repo, doomed.ID, "doomed-2")
	m1 := mustCreateMedia(t, repo, item1.ID, "d1.jpg")
	m2 := mustCreateMedia(t, repo, item2.ID, "d2.jpg")

	t.Run("delete item", func(t *testing.T) {
		standalone := mustCreateItem(t, repo, keep.ID, "keep-1")
		survivor := mustCreateItem(t, repo, keep.ID, "keep-2")
		media := mustCreateMedia(t, repo, standalone.ID, "k1.jpg")

		var released []models.Media
		err := repo.Items.DeleteItem(testCtx, standalone.ID, func(ctx context.Context, m []models.Media) {
			released = append(released, m...)
		})
		require.NoError(t, err)

		require.Len(t, released, 1)
		assert.Equal(t, media.ID, released[0].ID)

		_, err = repo.Items.ItemByID(testCtx, standalone.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = repo.Media.MediaByID(testCtx, media.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		// оставшаяся работа сдвинулась на освободившееся место
		assert.Equal(t, map[int64]int{survivor.ID: 0}, positions(t, db, "items", survivor.ID))
	})

	t.Run("delete section", func(t *testing.T) {
		var released []string
		err := repo.Sections.DeleteSection(testCtx, doomed.ID, func(ctx context.Context, m []models.Media) {
			for _, media := range m {
				released = append(released, media.StoragePath)
			}
		})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"d1.jpg", "d2.jpg"}, released)

		_, err = repo.Sections.SectionByID(testCtx, doomed.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		for _, id := range []int64{item1.ID, item2.ID} {
			_, err = repo.Items.ItemByID(testCtx, id)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		}
		for _, id := range []int64{m1.ID, m2.ID} {
			_, err = repo.Media.MediaByID(testCtx, id)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		}

		assert.Equal(t, map[int64]int{keep.ID: 0, tail.ID: 1}, positions(t, db, "sections", keep.ID, tail.ID))
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, repo.Sections.DeleteSection(testCtx, doomed.ID, nil), storage.ErrNotFound)
		assert.ErrorIs(t, repo.Items.DeleteItem(testCtx, item1.ID, nil), storage.ErrNotFound)
	})
}

func TestItemRepo_MoveBetweenSections(t *testing.T) {
	repo, db := setupTestDB(t)

	from := mustCreateSection(t, repo, "from")
	to := mustCreateSection(t, repo, "to")

	a := mustCreateItem(t, repo, from.ID, "a")
	b := mustCreateItem(t, repo, from.ID, "b")
	c := mustCreateItem(t, repo, from.ID, "c")
	x := mustCreateItem(t, repo, to.ID, "x")

	a.SectionID = to.ID
	a.Title = "moved"
	moved, err := repo.Items.UpdateItem(testCtx, a)
	require.NoError(t, err)

	assert.Equal(t, to.ID, moved.SectionID)
	assert.Equal(t, 1, moved.Position)
	assert.Equal(t, "moved", moved.Title)

	assert.Equal(t, map[int64]int{b.ID: 0, c.ID: 1}, positions(t, db, "items", b.ID, c.ID))
	assert.Equal(t, map[int64]int{x.ID: 0, a.ID: 1}, positions(t, db, "items", x.ID, a.ID))

	t.Run("missing target section", func(t *testing.T) {
		b.SectionID = 987654
		_, err := repo.Items.UpdateItem(testCtx, b)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("slug taken", func(t *testing.T) {
		c.Slug = "x"
		_, err := repo.Items.UpdateItem(testCtx, c)
		assert.ErrorIs(t, err, storage.ErrSlugTaken)
	})

	t.Run("lookup by slug and published filter", func(t *testing.T) {
		found, err := repo.Items.ItemBySlug(testCtx, "b")
		require.NoError(t, err)
		assert.Equal(t, b.ID, found.ID)

		_, err = repo.Items.CreateItem(testCtx, models.Item{SectionID: from.ID, Slug: "draft", Title: "draft"})
		require.NoError(t, err)

		published, err := repo.Items.ListItems(testCtx, from.ID, true)
		require.NoError(t, err)
		assert.Equal(t, []int64{b.ID, c.ID}, itemIDs(published))
	})

	t.Run("create in missing section", func(t *testing.T) {
		_, err := repo.Items.CreateItem(testCtx, models.Item{SectionID: 987654, Slug: "orphan", Title: "orphan"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestMediaRepo(t *testing.T) {
	repo, db := setupTestDB(t)

	section := mustCreateSection(t, repo, "media")
	item := mustCreateItem(t, repo, section.ID, "with-media")

	m1 := mustCreateMedia(t, repo, item.ID, "1.jpg")
	m2 := mustCreateMedia(t, repo, item.ID, "2.jpg")
	m3 := mustCreateMedia(t, repo, item.ID, "3.jpg")

	t.Run("validation", func(t *testing.T) {
		_, err := repo.Media.CreateMedia(testCtx, models.Media{ItemID: item.ID, MediaType: "audio", URL: "u", StoragePath: "p"})
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := repo.Media.CreateMedia(testCtx, models.Media{ItemID: 5555, MediaType: models.MediaTypeVideo, URL: "u", StoragePath: "p"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update captions", func(t *testing.T) {
		caption := "Oil on canvas"
		m2.Caption = &caption

		updated, err := repo.Media.UpdateMedia(testCtx, m2)
		require.NoError(t, err)
		require.NotNil(t, updated.Caption)
		assert.Equal(t, caption, *updated.Caption)
		assert.Equal(t, 1, updated.Position)
	})

	t.Run("delete compacts", func(t *testing.T) {
		deleted, err := repo.Media.DeleteMedia(testCtx, m1.ID)
		require.NoError(t, err)
		assert.Equal(t, "1.jpg", deleted.StoragePath)

		assert.Equal(t, map[int64]int{m2.ID: 0, m3.ID: 1}, positions(t, db, "media", m2.ID, m3.ID))

		_, err = repo.Media.DeleteMedia(testCtx, m1.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestNewsRepo(t *testing.T) {
	repo, _ := setupTestDB(t)

	for i := 0; i < 5; i++ {
		tags := []string{"exhibition"}
		if i%2 == 0 {
			tags = append(tags, "press")
		}
		_, err := repo.News.CreateNews(testCtx, models.News{
			Title:       gofakeit.Sentence(4),
			Slug:        fmt.Sprintf("news-%d", i),
			Body:        gofakeit.Paragraph(1, 2, 10, " "),
			Tags:        tags,
			IsPublished: i != 4,
		})
		require.NoError(t, err)
	}

	t.Run("public pagination", func(t *testing.T) {
		page, total, err := repo.News.ListNews(testCtx, repository.NewsFilter{Page: 1, PerPage: 3, OnlyPublished: true})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, page, 3)

		page, _, err = repo.News.ListNews(testCtx, repository.NewsFilter{Page: 2, PerPage: 3, OnlyPublished: true})
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})

	t.Run("tag filter", func(t *testing.T) {
		page, total, err := repo.News.ListNews(testCtx, repository.NewsFilter{Tag: "press", OnlyPublished: true})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, n := range page {
			assert.Contains(t, n.Tags, "press")
		}
	})

	t.Run("publish sets date once", func(t *testing.T) {
		draft, err := repo.News.NewsBySlug(testCtx, "news-4")
		require.NoError(t, err)
		assert.Nil(t, draft.PublishedAt)

		draft.IsPublished = true
		published, err := repo.News.UpdateNews(testCtx, draft)
		require.NoError(t, err)
		require.NotNil(t, published.PublishedAt)

		published.Title = "edited"
		again, err := repo.News.UpdateNews(testCtx, published)
		require.NoError(t, err)
		assert.True(t, published.PublishedAt.Equal(*again.PublishedAt))
	})

	t.Run("delete", func(t *testing.T) {
		n, err := repo.News.NewsBySlug(testCtx, "news-0")
		require.NoError(t, err)

		require.NoError(t, repo.News.DeleteNews(testCtx, n.ID))
		assert.ErrorIs(t, repo.News.DeleteNews(testCtx, n.ID), storage.ErrNotFound)
	})
}

func TestInfoRepo(t *testing.T) {
	repo, _ := setupTestDB(t)

	create := func(kind models.InfoKind, title string) models.InfoEntry {
		entry, err := repo.Info.CreateInfoEntry(testCtx, models.InfoEntry{Kind: kind, Title: title})
		require.NoError(t, err)
		return entry
	}

	a1 := create(models.InfoKindAward, "first prize")
	a2 := create(models.InfoKindAward, "second prize")
	f1 := create(models.InfoKindFair, "art fair")

	assert.Equal(t, 0, a1.Position)
	assert.Equal(t, 1, a2.Position)
	assert.Equal(t, 0, f1.Position)

	t.Run("reorder within kind", func(t *testing.T) {
		updated, err := repo.Info.ReorderInfoEntries(testCtx, []int64{a2.ID, a1.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		awards, err := repo.Info.ListInfoEntries(testCtx, models.InfoKindAward)
		require.NoError(t, err)
		require.Len(t, awards, 2)
		assert.Equal(t, a2.ID, awards[0].ID)
	})

	t.Run("mixed kinds rejected", func(t *testing.T) {
		_, err := repo.Info.ReorderInfoEntries(testCtx, []int64{a1.ID, f1.ID})
		assert.ErrorIs(t, err, storage.ErrScopeMismatch)
	})

	t.Run("delete compacts kind", func(t *testing.T) {
		require.NoError(t, repo.Info.DeleteInfoEntry(testCtx, a2.ID))

		awards, err := repo.Info.ListInfoEntries(testCtx, models.InfoKindAward)
		require.NoError(t, err)
		require.Len(t, awards, 1)
		assert.Equal(t, 0, awards[0].Position)
	})

	t.Run("about upsert", func(t *testing.T) {
		empty, err := repo.Info.About(testCtx)
		require.NoError(t, err)
		assert.Empty(t, empty.Body)

		_, err = repo.Info.SaveAbout(testCtx, models.About{Body: "v1"})
		require.NoError(t, err)
		saved, err := repo.Info.SaveAbout(testCtx, models.About{Body: "v2"})
		require.NoError(t, err)
		assert.Equal(t, "v2", saved.Body)

		got, err := repo.Info.About(testCtx)
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Body)
	})
}

func TestAdminRepo(t *testing.T) {
	repo, _ := setupTestDB(t)

	id, err := repo.Admins.SaveAdmin(testCtx, "admin", []byte("hash-1"))
	require.NoError(t, err)

	again, err := repo.Admins.SaveAdmin(testCtx, "admin", []byte("hash-2"))
	require.NoError(t, err)
	assert.Equal(t, id, again)

	admin, err := repo.Admins.AdminByLogin(testCtx, "admin")
	require.NoError(t, err)
	assert.Equal(t, []byte("hash-2"), admin.PasswordHash)
	assert.Nil(t, admin.LastLogin)

	require.NoError(t, repo.Admins.TouchLastLogin(testCtx, id))
	admin, err = repo.Admins.AdminByLogin(testCtx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, admin.LastLogin)

	_, err = repo.Admins.AdminByLogin(testCtx, "nobody")
	assert.ErrorIs(t, err, storage.ErrAdminNotFound)
}
