package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/helixml/newsdesk/domain/repository"
)

type testTag struct {
	id     int64
	label  string
	pinned bool
}

type testTagEntity struct {
	ID     int64  `gorm:"primaryKey"`
	Label  string `gorm:"column:label"`
	Pinned bool   `gorm:"column:pinned"`
}

func (testTagEntity) TableName() string { return "tags" }

type testTagMapper struct{}

func (testTagMapper) ToDomain(e testTagEntity) testTag {
	return testTag{id: e.ID, label: e.Label, pinned: e.Pinned}
}

func (testTagMapper) ToModel(d testTag) testTagEntity {
	return testTagEntity{ID: d.id, Label: d.label, Pinned: d.pinned}
}

func setupTagRepo(t *testing.T) Repository[testTag, testTagEntity] {
	t.Helper()
	ctx := context.Background()
	url := "sqlite:///" + filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(ctx, url)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	err = db.Session(ctx).Exec(`
		CREATE TABLE tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			pinned BOOLEAN DEFAULT false
		)
	`).Error
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	return NewRepository[testTag, testTagEntity](db, testTagMapper{}, "tag")
}

func seedTag(t *testing.T, repo Repository[testTag, testTagEntity], label string, pinned bool) testTag {
	t.Helper()
	entity := testTagEntity{Label: label, Pinned: pinned}
	if err := repo.DB(context.Background()).Create(&entity).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return repo.Mapper().ToDomain(entity)
}

func TestRepository_FindWithConditions(t *testing.T) {
	ctx := context.Background()
	repo := setupTagRepo(t)

	seedTag(t, repo, "cloud", true)
	seedTag(t, repo, "banking", false)
	seedTag(t, repo, "robotics", true)

	pinned, err := repo.Find(ctx, repository.WithCondition("pinned", true))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(pinned) != 2 {
		t.Errorf("expected 2 pinned tags, got %d", len(pinned))
	}

	raw, err := repo.Find(ctx, repository.WithWhere("label LIKE ?", "%ing"))
	if err != nil {
		t.Fatalf("Find raw: %v", err)
	}
	if len(raw) != 1 || raw[0].label != "banking" {
		t.Errorf("expected banking, got %+v", raw)
	}
}

func TestRepository_FindOrderedAndPaginated(t *testing.T) {
	ctx := context.Background()
	repo := setupTagRepo(t)

	seedTag(t, repo, "a", false)
	seedTag(t, repo, "b", false)
	seedTag(t, repo, "c", false)

	opts := append([]repository.Option{repository.WithOrderDesc("label")}, repository.WithPagination(2, 1)...)
	found, err := repo.Find(ctx, opts...)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 || found[0].label != "b" || found[1].label != "a" {
		t.Errorf("unexpected page: %+v", found)
	}
}

func TestRepository_FindOne_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupTagRepo(t)

	_, err := repo.FindOne(ctx, repository.WithID(42))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_ExistsCount(t *testing.T) {
	ctx := context.Background()
	repo := setupTagRepo(t)

	tag := seedTag(t, repo, "cloud", false)
	seedTag(t, repo, "banking", false)

	exists, err := repo.Exists(ctx, repository.WithID(tag.id))
	if err != nil || !exists {
		t.Fatalf("Exists: %v %v", exists, err)
	}

	exists, err = repo.Exists(ctx, repository.WithID(tag.id+100))
	if err != nil || exists {
		t.Fatalf("Exists for missing id: %v %v", exists, err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}
