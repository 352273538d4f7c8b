package repo

import (
	"context"
	"postboard/backend/app/db"
	"postboard/backend/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openDB(t))

	u := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, models.RoleUser, got.Role)

	byID, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = users.FindByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = users.FindByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(openDB(t))

	require.NoError(t, users.Create(ctx, &models.User{Username: "bob", Email: "b@x.com", PasswordHash: "h", Role: models.RoleUser}))
	assert.Error(t, users.Create(ctx, &models.User{Username: "bob", Email: "other@x.com", PasswordHash: "h", Role: models.RoleUser}))
	assert.Error(t, users.Create(ctx, &models.User{Username: "bobby", Email: "b@x.com", PasswordHash: "h", Role: models.RoleUser}))
}

func TestPostRepository(t *testing.T) {
	ctx := context.Background()
	gdb := openDB(t)
	users := NewUserRepository(gdb)
	posts := NewPostRepository(gdb)

	author := &models.User{Username: "carol", Email: "c@x.com", PasswordHash: "h", Role: models.RoleAdmin}
	require.NoError(t, users.Create(ctx, author))

	img := "/images/1.png"
	first := &models.Post{Title: "one", Description: "first", AuthorID: author.ID}
	second := &models.Post{Title: "two", Description: "second", Image: &img, AuthorID: author.ID}
	require.NoError(t, posts.Create(ctx, first))
	require.NoError(t, posts.Create(ctx, second))

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Title)
	assert.Equal(t, "one", list[1].Title)
	assert.Equal(t, "carol", list[0].Author.Username)
	require.NotNil(t, list[0].Image)
	assert.Equal(t, img, *list[0].Image)
	assert.Nil(t, list[1].Image)
}
