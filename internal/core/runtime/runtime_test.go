package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/database"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/pool"
	"github.com/kevinluo6191/XDNMB/internal/repository"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

func TestWarmupPrimesForumNames(t *testing.T) {
	db, err := database.Open(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	l1, err := pool.NewBigCache(1, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer l1.Close()

	ctx := context.Background()
	repos := repository.NewRepositories(db)
	err = repos.Forum.ReplaceAll(ctx, []model.ForumGroup{
		{ID: "4", Name: "综合", Forums: []model.Forum{{ID: "4", Name: "综合版1"}, {ID: "20", Name: "欢乐恶搞"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.Cookie.Create(ctx, &model.Cookie{Cookie: "tok", Selected: true}); err != nil {
		t.Fatal(err)
	}

	names := service.NewForumNameCache(repos.Forum, l1, nil, time.Hour)
	r := New()
	if err := r.Reload(ctx, &RuntimeConfig{Repos: repos, Names: names}); err != nil {
		t.Fatalf("warmup: %v", err)
	}

	status := r.Status()
	if status["forum_count"] != 2 || status["names_primed"] != 2 || status["cookie_count"] != 1 {
		t.Errorf("status = %v", status)
	}
	if names.Len() != 2 {
		t.Errorf("l1 len = %d, want 2", names.Len())
	}
	if r.GetLoadedAt().IsZero() {
		t.Error("loaded_at not set")
	}
}
