package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParkingLotHandler_CreateNormalizesPayload(t *testing.T) {
	s := newTestServer(t)
	owner := s.createUser(t, "chubai")

	lot := s.createLot(t, "Bãi xe Lê Lợi", owner["id"].(string))

	assert.Equal(t, "10.7731", lot["latitude"])
	assert.Equal(t, "106.7012", lot["longitude"])
	assert.Equal(t, 10.7731, lot["lat"])
	assert.Equal(t, 106.7012, lot["lng"])
	assert.Equal(t, float64(60), lot["motorcycleCapacity"])
	assert.Equal(t, float64(60), lot["currentMotorcycleSpots"])
	assert.Equal(t, []interface{}{"covered"}, lot["facilities"])
	assert.Equal(t, "0", lot["rating"])

	w := s.do(t, http.MethodGet, "/api/users/"+owner["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(50), decodeBody[map[string]interface{}](t, w)["points"])
}

func TestParkingLotHandler_CreateRejectsInvalidPayload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/parking-lots", map[string]interface{}{
		"name":           "Thiếu địa chỉ",
		"latitude":       "10.77",
		"longitude":      "106.70",
		"operatingHours": map[string]interface{}{"openTime": "06:00", "closeTime": "22:00"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decodeBody[map[string]string](t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/parking-lots", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParkingLotHandler_ListAddsCoordinates(t *testing.T) {
	s := newTestServer(t)
	s.createLot(t, "Bãi xe A", "")
	s.createLot(t, "Bãi xe B", "")

	w := s.do(t, http.MethodGet, "/api/parking-lots", nil)
	require.Equal(t, http.StatusOK, w.Code)

	lots := decodeBody[[]map[string]interface{}](t, w)
	require.Len(t, lots, 2)
	assert.Equal(t, "Bãi xe A", lots[0]["name"])
	assert.Equal(t, 10.7731, lots[1]["lat"])
	assert.Equal(t, "anonymous", lots[0]["ownerId"])
}

func TestParkingLotHandler_GetUnknown(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/parking-lots/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decodeBody[map[string]string](t, w)["error"])
}

func TestParkingLotHandler_Search(t *testing.T) {
	s := newTestServer(t)
	s.createLot(t, "Bãi xe Bến Thành", "")
	s.createLot(t, "Bãi xe Tân Định", "")

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no filters", "", 2},
		{"name substring case insensitive", "?search=b%E1%BA%BFn", 1},
		{"address substring", "?search=l%C3%AA%20l%E1%BB%A3i", 2},
		{"car under budget", "?vehicleType=car&maxPrice=30000", 2},
		{"car over budget", "?vehicleType=car&maxPrice=20000", 0},
		{"max price without vehicle type ignored", "?maxPrice=1", 2},
		{"min rating excludes unrated", "?minRating=1", 0},
		{"malformed numbers ignored", "?maxPrice=abc&minRating=x", 2},
		{"zero max price means no bound", "?vehicleType=motorcycle&maxPrice=0", 2},
		{"zero min rating means no bound", "?minRating=0", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/parking-lots/search"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decodeBody[[]map[string]interface{}](t, w), tt.want)
		})
	}
}

func TestParkingLotHandler_UpdateAndReviews(t *testing.T) {
	s := newTestServer(t)
	lot := s.createLot(t, "Bãi xe Nhà Thờ", "")
	id := lot["id"].(string)

	w := s.do(t, http.MethodPut, "/api/parking-lots/"+id, map[string]interface{}{"currentCarSpots": 0, "status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[map[string]interface{}](t, w)
	assert.Equal(t, float64(0), updated["currentCarSpots"])
	assert.Equal(t, "inactive", updated["status"])

	w = s.do(t, http.MethodPut, "/api/parking-lots/unknown", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/parking-lots/"+id+"/reviews", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestParkingLotHandler_SuggestFallsBackToStore(t *testing.T) {
	s := newTestServer(t)
	s.createLot(t, "Bãi xe Sài Gòn Centre", "")

	w := s.do(t, http.MethodGet, "/api/parking-lots/suggest?q=centre", nil)
	require.Equal(t, http.StatusOK, w.Code)
	suggestions := decodeBody[[]map[string]interface{}](t, w)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Bãi xe Sài Gòn Centre", suggestions[0]["name"])

	w = s.do(t, http.MethodGet, "/api/parking-lots/suggest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]map[string]interface{}](t, w))
}
