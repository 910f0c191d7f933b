package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewHandler_CreateReview(t *testing.T) {
	s := newTestServer(t)
	user := s.createUser(t, "reviewer")
	lot := s.createLot(t, "Bãi xe Hồ Con Rùa", "")
	lotID := lot["id"].(string)

	for _, rating := range []int{4, 5} {
		w := s.do(t, http.MethodPost, "/api/reviews", map[string]interface{}{
			"parkingLotId": lotID,
			"userId":       user["id"],
			"rating":       rating,
			"comment":      "sạch sẽ",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/parking-lots/"+lotID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[map[string]interface{}](t, w)
	assert.Equal(t, "4.50", got["rating"])
	assert.Equal(t, float64(2), got["totalReviews"])

	w = s.do(t, http.MethodGet, "/api/parking-lots/"+lotID+"/reviews", nil)
	assert.Len(t, decodeBody[[]map[string]interface{}](t, w), 2)

	w = s.do(t, http.MethodGet, "/api/users/"+user["id"].(string)+"/points-history", nil)
	history := decodeBody[[]map[string]interface{}](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "review", history[0]["activity"])
	assert.Equal(t, float64(5), history[0]["points"])
}

func TestReviewHandler_CreateReviewInvalid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"rating out of range", map[string]interface{}{"parkingLotId": "lot", "userId": "u", "rating": 0}},
		{"missing user", map[string]interface{}{"parkingLotId": "lot", "rating": 3}},
		{"rating of wrong type", `{"parkingLotId":"lot","userId":"u","rating":"five"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/reviews", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
