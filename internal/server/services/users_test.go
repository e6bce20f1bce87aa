package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/logging"
	"github.com/dmitrijs2005/orgbook/internal/server/auth"
	"github.com/dmitrijs2005/orgbook/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "k"

func newUserService(t *testing.T) (*UserService, *fakeManager, *fakeStore) {
	t.Helper()
	m := newFakeManager()
	st := newFakeStore()
	s := NewUserService(m, st, logging.Nop{}, testSecret, time.Hour)
	s.hashCost = bcrypt.MinCost
	return s, m, st
}

func avatar(name, body string) Avatar {
	return Avatar{Filename: name, ContentType: "image/png", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestUserService_Create(t *testing.T) {
	s, m, st := newUserService(t)

	u, err := s.Create(context.Background(), NewUser{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Avatar:   avatar("me.PNG", "img"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(u.Avatar, ".png"))
	assert.Equal(t, "img", st.saved[u.Avatar])
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	assert.Equal(t, u.Avatar, m.users.items[u.ID].Avatar)
}

func TestUserService_CreateRemovesAvatarOnFailure(t *testing.T) {
	s, m, st := newUserService(t)
	m.users.createErr = common.ErrorAlreadyExists

	_, err := s.Create(context.Background(), NewUser{
		Name: "Bob", Email: "bob@example.com", Password: "secret1", Avatar: avatar("a.jpg", "x"),
	})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Empty(t, st.saved)
	assert.Len(t, st.deleted, 1)
}

func TestUserService_CreateAvatarErrors(t *testing.T) {
	s, m, st := newUserService(t)

	_, err := s.Create(context.Background(), NewUser{Name: "N", Email: "n@example.com", Password: "secret1"})
	require.ErrorIs(t, err, common.ErrorValidation)

	st.saveErr = errors.New("disk full")
	_, err = s.Create(context.Background(), NewUser{
		Name: "N", Email: "n@example.com", Password: "secret1", Avatar: avatar("a.png", "x"),
	})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Empty(t, m.users.items)
}

func TestUserService_UpdateReplacesAvatar(t *testing.T) {
	s, m, st := newUserService(t)
	st.saved["old.png"] = "old"
	m.users.items["u1"] = &models.User{ID: "u1", Name: "A", Email: "a@example.com", Avatar: "old.png"}

	name := "B"
	a := avatar("new.png", "new")
	u, err := s.Update(context.Background(), "u1", UserChanges{Name: &name, Avatar: &a})
	require.NoError(t, err)

	assert.Equal(t, "B", u.Name)
	assert.NotEqual(t, "old.png", u.Avatar)
	assert.Equal(t, "new", st.saved[u.Avatar])
	assert.Equal(t, []string{"old.png"}, st.deleted)
	assert.Equal(t, 1, m.txCalls)
}

func TestUserService_UpdateFailureKeepsOldAvatar(t *testing.T) {
	s, m, st := newUserService(t)
	st.saved["old.png"] = "old"
	m.users.items["u1"] = &models.User{ID: "u1", Avatar: "old.png"}
	m.users.updateErr = common.ErrorAlreadyExists

	a := avatar("new.png", "new")
	_, err := s.Update(context.Background(), "u1", UserChanges{Avatar: &a})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	assert.Equal(t, map[string]string{"old.png": "old"}, st.saved)
	require.Len(t, st.deleted, 1)
	assert.NotEqual(t, "old.png", st.deleted[0])
}

func TestUserService_UpdatePasswordIsHashed(t *testing.T) {
	s, m, _ := newUserService(t)
	m.users.items["u1"] = &models.User{ID: "u1", PasswordHash: "x"}

	pw := "another1"
	_, err := s.Update(context.Background(), "u1", UserChanges{Password: &pw})
	require.NoError(t, err)

	require.Len(t, m.users.updates, 1)
	require.NotNil(t, m.users.updates[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*m.users.updates[0].PasswordHash), []byte(pw)))
	assert.Nil(t, m.users.updates[0].Avatar)
}

func TestUserService_UpdateEmptyAndMissing(t *testing.T) {
	s, m, st := newUserService(t)
	m.users.items["u1"] = &models.User{ID: "u1", Name: "A"}

	u, err := s.Update(context.Background(), "u1", UserChanges{})
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)
	assert.Empty(t, m.users.updates)

	a := avatar("x.png", "x")
	_, err = s.Update(context.Background(), "nope", UserChanges{Avatar: &a})
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, st.saved)
}

func TestUserService_DeleteModes(t *testing.T) {
	s, m, st := newUserService(t)
	ctx := context.Background()
	st.saved["a.png"] = "a"
	m.users.items["u1"] = &models.User{ID: "u1", Avatar: "a.png"}

	u, err := s.Delete(ctx, "u1", models.DeleteTrash)
	require.NoError(t, err)
	assert.NotNil(t, u.DeletedAt)

	u, err = s.Delete(ctx, "u1", models.DeleteRestore)
	require.NoError(t, err)
	assert.Nil(t, u.DeletedAt)

	u, err = s.Delete(ctx, "u1", models.DeleteErase)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Empty(t, st.saved)
	assert.Equal(t, []string{"a.png"}, st.deleted)

	_, err = s.Delete(ctx, "u1", models.DeleteErase)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Delete(ctx, "u1", models.DeleteMode(""))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUserService_Login(t *testing.T) {
	s, m, _ := newUserService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	m.users.items["u1"] = &models.User{ID: "u1", Email: "a@example.com", PasswordHash: string(hash)}

	token, err := s.Login(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	id, err := auth.GetUserIDFromToken(token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = s.Login(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	now := time.Now()
	m.users.items["u1"].DeletedAt = &now
	_, err = s.Login(context.Background(), "a@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
