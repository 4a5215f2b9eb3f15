package repository

import (
	"context"
	"testing"
)

func TestFavoriteRepository_AddIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepository(db, newTestNotifier(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Add(ctx, "p1", "u1"); err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
	}

	count, err := repo.CountForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("CountForUser: %v", err)
	}
	if count != 1 {
		t.Errorf("count after repeated add = %d, want 1", count)
	}

	fav, err := repo.IsFavorite(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("IsFavorite: %v", err)
	}
	if !fav {
		t.Error("IsFavorite = false, want true")
	}
}

func TestFavoriteRepository_RemoveAbsentIsNoop(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepository(db, newTestNotifier(t))
	ctx := context.Background()

	if err := repo.Remove(ctx, "never-added", "u1"); err != nil {
		t.Fatalf("Remove of absent favorite: %v", err)
	}
}

func TestFavoriteRepository_AddRemoveCycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepository(db, newTestNotifier(t))
	ctx := context.Background()

	if err := repo.Add(ctx, "p1", "u1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Remove(ctx, "p1", "u1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	fav, err := repo.IsFavorite(ctx, "p1", "u1")
	if err != nil {
		t.Fatalf("IsFavorite: %v", err)
	}
	if fav {
		t.Error("IsFavorite = true after remove")
	}

	// The pair is scoped per user: removing u1's bookmark must not touch u2's.
	if err := repo.Add(ctx, "p1", "u1"); err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	if err := repo.Add(ctx, "p1", "u2"); err != nil {
		t.Fatalf("Add for u2: %v", err)
	}
	if err := repo.Remove(ctx, "p1", "u1"); err != nil {
		t.Fatalf("Remove u1: %v", err)
	}
	fav, err = repo.IsFavorite(ctx, "p1", "u2")
	if err != nil {
		t.Fatalf("IsFavorite u2: %v", err)
	}
	if !fav {
		t.Error("u2's favorite disappeared when u1's was removed")
	}
}

func TestFavoriteRepository_ListForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewFavoriteRepository(db, newTestNotifier(t))
	ctx := context.Background()

	for _, postID := range []string{"p1", "p2", "p3"} {
		if err := repo.Add(ctx, postID, "u1"); err != nil {
			t.Fatalf("Add %s: %v", postID, err)
		}
	}

	favorites, err := repo.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(favorites) != 3 {
		t.Fatalf("len = %d, want 3", len(favorites))
	}
	// Most recently favorited first.
	if favorites[0].PostID != "p3" {
		t.Errorf("first favorite = %s, want p3", favorites[0].PostID)
	}
}
