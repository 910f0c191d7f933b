package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_CreateUser(t *testing.T) {
	s := newTestServer(t)

	user := s.createUser(t, "nguyenvana")
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, float64(0), user["points"])
	assert.Equal(t, "bronze", user["memberTier"])
	assert.Equal(t, "motorcycle", user["vehicleType"])
	assert.Nil(t, user["phone"])
	assert.NotContains(t, user, "password")
}

func TestUserHandler_CreateUserConflicts(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "lanhuong")

	w := s.do(t, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "other",
		"email":    "LANHUONG@example.com",
		"password": "x",
		"fullName": "Other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "lanhuong",
		"email":    "new@example.com",
		"password": "x",
		"fullName": "Other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "bademail",
		"email":    "not-an-email",
		"password": "x",
		"fullName": "Other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_GetAndUpdate(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "minhthu")
	id := user["id"].(string)

	w := s.do(t, http.MethodPut, "/api/users/"+id, map[string]interface{}{
		"fullName":    "Lê Minh Thư",
		"vehicleType": "car",
		"points":      100000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[map[string]interface{}](t, w)
	assert.Equal(t, "Lê Minh Thư", updated["fullName"])
	assert.Equal(t, "car", updated["vehicleType"])
	assert.Equal(t, float64(0), updated["points"])

	w = s.do(t, http.MethodGet, "/api/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/missing", map[string]interface{}{"fullName": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_OwnedLotsAndRewards(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "owner")
	id := user["id"].(string)
	s.createLot(t, "Bãi xe riêng", id)
	s.createLot(t, "Bãi xe khác", "")

	w := s.do(t, http.MethodGet, "/api/users/"+id+"/parking-lots", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lots := decodeBody[[]map[string]interface{}](t, w)
	require.Len(t, lots, 1)
	assert.Equal(t, "Bãi xe riêng", lots[0]["name"])

	w = s.do(t, http.MethodGet, "/api/users/"+id+"/rewards", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}
