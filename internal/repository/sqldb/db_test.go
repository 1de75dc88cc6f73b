package sqldb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elsanchez/social-dashboard/internal/domain"
	"github.com/elsanchez/social-dashboard/internal/repository"
)

// newTestDB crea una base SQLite temporal con migrations aplicadas
func newTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(Options{Driver: DriverSQLite, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func createAccount(t *testing.T, db *Database, platform, externalID string) int64 {
	t.Helper()

	id, err := db.AccountRepo.Create(context.Background(), &domain.Account{
		Platform:    platform,
		AccountName: "acme " + platform,
		ExternalID:  externalID,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	return id
}

func createPublishedPost(t *testing.T, db *Database, accountID int64, content string, at time.Time, likes, comments, shares, views int64) int64 {
	t.Helper()
	ctx := context.Background()

	post := &domain.Post{
		AccountID: accountID,
		Content:   content,
		Status:    domain.StatusPublished,
		PostType:  domain.PostTypeText,
	}
	post.PublishedTime = &at

	id, err := db.PostRepo.Create(ctx, post)
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	eng := &domain.Engagement{PostID: id, UpdatedAt: at}
	eng.Apply(domain.Metrics{Likes: likes, Comments: comments, Shares: shares, Views: views}, at)
	if err := db.EngagementRepo.Update(ctx, eng); err != nil {
		t.Fatalf("failed to update engagement: %v", err)
	}

	return id
}

func TestDatabase_MigrationsApplied(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(Options{Driver: DriverSQLite, DataDir: tmpDir})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	// Verificar que existe el archivo de base de datos
	dbPath := filepath.Join(tmpDir, "dashboard.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	ctx := context.Background()

	for _, table := range []string{"social_accounts", "posts", "engagement", "analytics", "comments"} {
		var count int
		err = db.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}

		if count != 1 {
			t.Errorf("%s table was not created", table)
		}
	}

	// Abrir de nuevo no debe fallar (ErrNoChange)
	db2, err := NewDatabase(Options{Driver: DriverSQLite, DataDir: tmpDir})
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	db2.Close()

	t.Log("✅ Migrations applied successfully")
}

func TestMigrationFiles_BothDrivers(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverPostgres} {
		files, err := MigrationFiles(driver)
		if err != nil {
			t.Fatalf("failed to list migrations for %s: %v", driver, err)
		}

		if len(files) != 2 {
			t.Errorf("expected up and down migration for %s, got %v", driver, files)
		}
	}
}

func TestResolveDSN(t *testing.T) {
	if _, err := resolveDSN(Options{Driver: DriverPostgres}); err == nil {
		t.Error("expected error for postgres without DSN")
	}

	if _, err := resolveDSN(Options{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}

	dsn, err := resolveDSN(Options{Driver: DriverPostgres, DSN: "postgres://localhost/db"})
	if err != nil || dsn != "postgres://localhost/db" {
		t.Errorf("expected DSN passthrough, got %q (%v)", dsn, err)
	}
}

func TestDatabase_AccountLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id := createAccount(t, db, domain.PlatformTwitter, "acme_tw")

	acc, err := db.AccountRepo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to get account: %v", err)
	}

	if acc.ExternalID != "acme_tw" || !acc.IsActive {
		t.Errorf("unexpected account: %+v", acc)
	}

	// Búsqueda por id externo
	found, err := db.AccountRepo.GetByExternalID(ctx, "acme_tw")
	if err != nil || found == nil || found.ID != id {
		t.Fatalf("expected account by external id, got %+v (%v)", found, err)
	}

	missing, err := db.AccountRepo.GetByExternalID(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown external id, got %+v (%v)", missing, err)
	}

	// Id externo duplicado
	if _, err := db.AccountRepo.Create(ctx, &domain.Account{Platform: domain.PlatformTwitter, AccountName: "dup", ExternalID: "acme_tw"}); err == nil {
		t.Error("expected unique violation on duplicate external id")
	}

	// Soft delete
	if err := db.AccountRepo.SetActive(ctx, id, false); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	active, err := db.AccountRepo.ListActive(ctx, 0, 100)
	if err != nil {
		t.Fatalf("failed to list accounts: %v", err)
	}

	if len(active) != 0 {
		t.Errorf("expected no active accounts, got %d", len(active))
	}

	count, err := db.AccountRepo.Count(ctx)
	if err != nil || count != 1 {
		t.Errorf("expected count 1, got %d (%v)", count, err)
	}

	if err := db.AccountRepo.SetActive(ctx, 999, false); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := db.AccountRepo.GetByID(ctx, 999); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	t.Log("✅ Account lifecycle works correctly")
}

func TestDatabase_PostCreatesEngagement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accountID := createAccount(t, db, domain.PlatformInstagram, "acme_ig")

	media := "https://cdn.example.com/a.png"
	id, err := db.PostRepo.Create(ctx, &domain.Post{
		AccountID: accountID,
		Content:   "hello",
		MediaURL:  &media,
		Status:    domain.StatusDraft,
		PostType:  domain.PostTypeImage,
	})
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	post, err := db.PostRepo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to get post: %v", err)
	}

	if post.Engagement == nil {
		t.Fatal("expected engagement to be created with the post")
	}

	if post.Engagement.Likes != 0 || post.Engagement.Views != 0 || post.Engagement.EngagementRate != 0 {
		t.Errorf("expected zero engagement, got %+v", post.Engagement)
	}

	if post.MediaURL == nil || *post.MediaURL != media {
		t.Errorf("expected media url %s, got %v", media, post.MediaURL)
	}

	if post.PublishedTime != nil || post.ScheduledTime != nil {
		t.Error("expected nil scheduled and published times")
	}

	t.Logf("✅ Post %d created with engagement", id)
}

func TestDatabase_PostDeleteRemovesDependents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accountID := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	postID := createPublishedPost(t, db, accountID, "bye", time.Now(), 1, 2, 3, 10)

	if _, err := db.CommentRepo.Create(ctx, &domain.Comment{PostID: postID, AuthorName: "ana", AuthorID: "a1", Content: "nice"}); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	if err := db.PostRepo.Delete(ctx, postID); err != nil {
		t.Fatalf("failed to delete post: %v", err)
	}

	if _, err := db.EngagementRepo.GetByPostID(ctx, postID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected engagement to be deleted, got %v", err)
	}

	comments, err := db.CommentRepo.ListByPost(ctx, postID)
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}

	if len(comments) != 0 {
		t.Errorf("expected comments to cascade, got %d", len(comments))
	}

	if err := db.PostRepo.Delete(ctx, postID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	t.Log("✅ Post delete removes engagement and comments")
}

func TestDatabase_PostListAndScheduled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acc1 := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	acc2 := createAccount(t, db, domain.PlatformFacebook, "acme_fb")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, accountID := range []int64{acc1, acc1, acc2} {
		when := base.Add(time.Duration(3-i) * time.Hour)
		if _, err := db.PostRepo.Create(ctx, &domain.Post{
			AccountID:     accountID,
			Content:       "scheduled",
			ScheduledTime: &when,
			Status:        domain.StatusScheduled,
			PostType:      domain.PostTypeText,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("failed to create post: %v", err)
		}
	}

	createPublishedPost(t, db, acc2, "done", base, 0, 0, 0, 0)

	posts, err := db.PostRepo.List(ctx, repository.PostFilter{AccountID: &acc1})
	if err != nil {
		t.Fatalf("failed to list posts: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts for account %d, got %d", acc1, len(posts))
	}

	// created_at DESC
	if !posts[0].CreatedAt.After(posts[1].CreatedAt) {
		t.Error("expected posts ordered by created_at desc")
	}

	published, err := db.PostRepo.List(ctx, repository.PostFilter{Status: domain.StatusPublished, Limit: 10})
	if err != nil {
		t.Fatalf("failed to list published: %v", err)
	}

	if len(published) != 1 || published[0].Content != "done" {
		t.Errorf("expected the published post only, got %d", len(published))
	}

	scheduled, err := db.PostRepo.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("failed to list scheduled: %v", err)
	}

	if len(scheduled) != 3 {
		t.Fatalf("expected 3 scheduled posts, got %d", len(scheduled))
	}

	for i := 1; i < len(scheduled); i++ {
		if scheduled[i].ScheduledTime.Before(*scheduled[i-1].ScheduledTime) {
			t.Error("expected scheduled posts ordered by scheduled_time asc")
		}
	}

	count, err := db.PostRepo.Count(ctx)
	if err != nil || count != 4 {
		t.Errorf("expected 4 posts, got %d (%v)", count, err)
	}
}

func TestStats_SumFollowersAcrossAllSnapshots(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accountID := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Dos snapshots el mismo día y uno al siguiente: se suman todos
	for i, followers := range []int64{100, 100, 120} {
		snap := &domain.Snapshot{AccountID: accountID, Date: day.AddDate(0, 0, i/2), Followers: followers}
		if _, err := db.AnalyticsRepo.Create(ctx, snap); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
	}

	total, err := db.StatsRepo.SumFollowers(ctx)
	if err != nil {
		t.Fatalf("failed to sum followers: %v", err)
	}

	if total != 320 {
		t.Errorf("expected 320 followers, got %d", total)
	}

	snaps, err := db.AnalyticsRepo.ListByAccount(ctx, accountID, day)
	if err != nil {
		t.Fatalf("failed to list snapshots: %v", err)
	}

	if len(snaps) != 3 || snaps[0].Followers != 120 {
		t.Errorf("expected 3 snapshots newest first, got %+v", snaps)
	}
}

func TestStats_AverageFollowersWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accountID := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	for _, s := range []struct {
		daysAgo   int
		followers int64
	}{{2, 1100}, {3, 1100}, {10, 1000}} {
		snap := &domain.Snapshot{AccountID: accountID, Date: now.AddDate(0, 0, -s.daysAgo), Followers: s.followers}
		if _, err := db.AnalyticsRepo.Create(ctx, snap); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
	}

	recent, ok, err := db.StatsRepo.AverageFollowers(ctx, now.AddDate(0, 0, -7), time.Time{})
	if err != nil || !ok || recent != 1100 {
		t.Errorf("expected recent avg 1100, got %v ok=%v (%v)", recent, ok, err)
	}

	previous, ok, err := db.StatsRepo.AverageFollowers(ctx, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))
	if err != nil || !ok || previous != 1000 {
		t.Errorf("expected previous avg 1000, got %v ok=%v (%v)", previous, ok, err)
	}

	_, ok, err = db.StatsRepo.AverageFollowers(ctx, now.AddDate(0, 0, -60), now.AddDate(0, 0, -30))
	if err != nil || ok {
		t.Errorf("expected empty window, got ok=%v (%v)", ok, err)
	}
}

func TestStats_EngagementByDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accountID := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	d1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 3, 23, 59, 0, 0, time.UTC)

	createPublishedPost(t, db, accountID, "a", d3, 5, 1, 1, 50)
	createPublishedPost(t, db, accountID, "b", d1, 2, 0, 0, 10)
	createPublishedPost(t, db, accountID, "c", d1.Add(3*time.Hour), 3, 1, 0, 20)
	createPublishedPost(t, db, accountID, "old", d1.AddDate(0, -2, 0), 100, 0, 0, 0)

	// Borrador: no cuenta
	if _, err := db.PostRepo.Create(ctx, &domain.Post{AccountID: accountID, Content: "draft", Status: domain.StatusDraft, PostType: domain.PostTypeText}); err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}

	trends, err := db.StatsRepo.EngagementByDay(ctx, d1.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("failed to get trends: %v", err)
	}

	if len(trends) != 2 {
		t.Fatalf("expected 2 days (no gap filling), got %d: %+v", len(trends), trends)
	}

	if trends[0].Date != "2024-03-01" || trends[1].Date != "2024-03-03" {
		t.Errorf("unexpected dates: %s, %s", trends[0].Date, trends[1].Date)
	}

	if trends[0].Likes != 5 || trends[0].Comments != 1 || trends[0].Views != 30 {
		t.Errorf("unexpected day 1 sums: %+v", trends[0])
	}
}

func TestStats_PlatformBreakdown(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acc1 := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	acc2 := createAccount(t, db, domain.PlatformLinkedIn, "acme_li")
	inactive := createAccount(t, db, domain.PlatformFacebook, "acme_fb")

	if err := db.AccountRepo.SetActive(ctx, inactive, false); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, snap := range []*domain.Snapshot{
		{AccountID: acc1, Date: day, Followers: 100},
		{AccountID: acc1, Date: day.AddDate(0, 0, 1), Followers: 150},
		{AccountID: acc1, Date: day.AddDate(0, 0, 1), Followers: 160}, // mismo día, id mayor
	} {
		if _, err := db.AnalyticsRepo.Create(ctx, snap); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
	}

	createPublishedPost(t, db, acc1, "p", day, 10, 2, 1, 100)

	// El engagement de un borrador cuenta para la plataforma, no para posts
	draftID, err := db.PostRepo.Create(ctx, &domain.Post{AccountID: acc1, Content: "d", Status: domain.StatusDraft, PostType: domain.PostTypeText})
	if err != nil {
		t.Fatalf("failed to create draft: %v", err)
	}
	if err := db.EngagementRepo.Update(ctx, &domain.Engagement{PostID: draftID, Likes: 4, UpdatedAt: day}); err != nil {
		t.Fatalf("failed to update engagement: %v", err)
	}

	stats, err := db.StatsRepo.PlatformBreakdown(ctx)
	if err != nil {
		t.Fatalf("failed to get platform stats: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 active accounts, got %d", len(stats))
	}

	if stats[0].Followers != 160 || stats[0].Posts != 1 || stats[0].Engagement != 17 {
		t.Errorf("unexpected stats for %d: %+v", acc1, stats[0])
	}

	if stats[1].Platform != domain.PlatformLinkedIn || stats[1].Followers != 0 || stats[1].Posts != 0 {
		t.Errorf("unexpected stats for %d: %+v", acc2, stats[1])
	}
}

func TestStats_TopPostsOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	accountID := createAccount(t, db, domain.PlatformTwitter, "acme_tw")
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	low := createPublishedPost(t, db, accountID, "low", at, 1, 0, 0, 0)
	high := createPublishedPost(t, db, accountID, "high", at, 50, 5, 5, 0)
	tieA := createPublishedPost(t, db, accountID, "tie a", at, 10, 0, 0, 0)
	tieB := createPublishedPost(t, db, accountID, "tie b", at, 5, 5, 0, 0)

	top, err := db.StatsRepo.TopPosts(ctx, 3)
	if err != nil {
		t.Fatalf("failed to get top posts: %v", err)
	}

	if len(top) != 3 {
		t.Fatalf("expected 3 top posts, got %d", len(top))
	}

	want := []int64{high, tieA, tieB}
	for i, id := range want {
		if top[i].ID != id {
			t.Errorf("position %d: expected post %d, got %d", i, id, top[i].ID)
		}
	}

	if top[0].TotalEngagement != 60 || top[0].Platform != domain.PlatformTwitter {
		t.Errorf("unexpected top post: %+v", top[0])
	}

	for _, p := range top {
		if p.ID == low {
			t.Error("post with lowest engagement should be cut by the limit")
		}
	}
}

func TestDatabase_EmptyAggregates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	followers, err := db.StatsRepo.SumFollowers(ctx)
	if err != nil || followers != 0 {
		t.Errorf("expected 0 followers, got %d (%v)", followers, err)
	}

	engagement, err := db.StatsRepo.SumEngagement(ctx)
	if err != nil || engagement != 0 {
		t.Errorf("expected 0 engagement, got %d (%v)", engagement, err)
	}

	stats, err := db.StatsRepo.PlatformBreakdown(ctx)
	if err != nil || stats == nil || len(stats) != 0 {
		t.Errorf("expected empty non-nil breakdown, got %v (%v)", stats, err)
	}
}

func TestDatabase_DuplicateExternalID(t *testing.T) {
	db := newTestDB(t)
	createAccount(t, db, domain.PlatformTwitter, "acme_tw")

	_, err := db.AccountRepo.Create(context.Background(), &domain.Account{
		Platform:    domain.PlatformFacebook,
		AccountName: "other",
		ExternalID:  "acme_tw",
		IsActive:    true,
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	count, err := db.AccountRepo.Count(context.Background())
	if err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 account, got %d", count)
	}

	t.Log("✅ Duplicate external id rejected with ErrDuplicate")
}
