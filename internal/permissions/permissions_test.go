package permissions_test

import (
	"net/http"
	"testing"

	"kritika/internal/models"
	"kritika/internal/permissions"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous *permissions.Caller
	plainUser = &permissions.Caller{ID: "u1", Username: "plain", Role: models.RoleUser}
	moderator = &permissions.Caller{ID: "m1", Username: "mod", Role: models.RoleModerator}
	admin     = &permissions.Caller{ID: "a1", Username: "boss", Role: models.RoleAdmin}
	superuser = &permissions.Caller{ID: "s1", Username: "root", Role: models.RoleUser, Superuser: true}
)

func TestIsSafeMethod(t *testing.T) {
	assert.True(t, permissions.IsSafeMethod(http.MethodGet))
	assert.True(t, permissions.IsSafeMethod(http.MethodHead))
	assert.True(t, permissions.IsSafeMethod(http.MethodOptions))
	assert.False(t, permissions.IsSafeMethod(http.MethodPost))
	assert.False(t, permissions.IsSafeMethod(http.MethodPatch))
	assert.False(t, permissions.IsSafeMethod(http.MethodDelete))
}

func TestAdminOrReadOnly(t *testing.T) {
	cases := []struct {
		name   string
		caller *permissions.Caller
		method string
		want   bool
	}{
		{"anonymous read", anonymous, http.MethodGet, true},
		{"anonymous write", anonymous, http.MethodPost, false},
		{"user read", plainUser, http.MethodGet, true},
		{"user write", plainUser, http.MethodPost, false},
		{"moderator write", moderator, http.MethodPost, false},
		{"admin write", admin, http.MethodPost, true},
		{"admin delete", admin, http.MethodDelete, true},
		{"superuser write", superuser, http.MethodPost, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, permissions.AdminOrReadOnly(tc.caller, tc.method))
		})
	}
}

func TestAuthorModeratorAdminOrReadOnly(t *testing.T) {
	// Coarse gate: reads for anyone, writes for anyone authenticated.
	assert.True(t, permissions.AuthorModeratorAdminOrReadOnly(anonymous, http.MethodGet))
	assert.False(t, permissions.AuthorModeratorAdminOrReadOnly(anonymous, http.MethodPost))
	assert.True(t, permissions.AuthorModeratorAdminOrReadOnly(plainUser, http.MethodPost))
	assert.True(t, permissions.AuthorModeratorAdminOrReadOnly(moderator, http.MethodDelete))
}

func TestAuthorModeratorAdminOrReadOnlyObject(t *testing.T) {
	const ownerID = "u1"
	cases := []struct {
		name   string
		caller *permissions.Caller
		method string
		want   bool
	}{
		{"anonymous read", anonymous, http.MethodGet, true},
		{"anonymous delete", anonymous, http.MethodDelete, false},
		{"author delete", plainUser, http.MethodDelete, true},
		{"unrelated user delete", &permissions.Caller{ID: "u2", Role: models.RoleUser}, http.MethodDelete, false},
		{"unrelated user read", &permissions.Caller{ID: "u2", Role: models.RoleUser}, http.MethodGet, true},
		{"moderator delete", moderator, http.MethodDelete, true},
		{"admin delete", admin, http.MethodDelete, true},
		{"superuser delete", superuser, http.MethodDelete, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want,
				permissions.AuthorModeratorAdminOrReadOnlyObject(tc.caller, tc.method, ownerID))
		})
	}
}

func TestAdminOnly(t *testing.T) {
	assert.False(t, permissions.AdminOnly(anonymous))
	assert.False(t, permissions.AdminOnly(plainUser))
	assert.False(t, permissions.AdminOnly(moderator))
	assert.True(t, permissions.AdminOnly(admin))
	assert.True(t, permissions.AdminOnly(superuser))
}

func TestRoleParsingIsCaseInsensitive(t *testing.T) {
	role, err := models.ParseRole("ADMIN")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	role, err = models.ParseRole("Moderator")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleModerator, role)

	_, err = models.ParseRole("owner")
	assert.Error(t, err)
}
