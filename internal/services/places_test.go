package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMapsServer serves canned Google Maps API responses and counts requests.
func fakeMapsServer(t *testing.T, calls *int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("address") {
		case "Times Square, NYC":
			fmt.Fprint(w, `{"status":"OK","results":[{"formatted_address":"Times Square, New York, NY 10036, USA","geometry":{"location":{"lat":40.758,"lng":-73.9855}}}]}`)
		case "Central Park, NYC":
			fmt.Fprint(w, `{"status":"OK","results":[{"formatted_address":"Central Park, New York, NY, USA","geometry":{"location":{"lat":40.7829,"lng":-73.9654}}}]}`)
		default:
			fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
		}
	})
	mux.HandleFunc("/directions/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"OK","routes":[{"legs":[{"distance":{"text":"6.5 km"},"duration":{"text":"25 mins"}}]}]}`)
	})
	mux.HandleFunc("/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("query") == "nowhere at all" {
			fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
			return
		}
		fmt.Fprint(w, `{"status":"OK","results":[
			{"name":"Eiffel Tower","formatted_address":"Champ de Mars, Paris","place_id":"p1","geometry":{"location":{"lat":48.8584,"lng":2.2945}},"rating":4.7,"user_ratings_total":300000,"photos":[{"photo_reference":"ref1"}]},
			{"name":"Louvre Museum","formatted_address":"Rue de Rivoli, Paris","place_id":"p2","geometry":{"location":{"lat":48.8606,"lng":2.3376}},"rating":4.8},
			{"name":"Arc de Triomphe","formatted_address":"Place Charles de Gaulle, Paris","place_id":"p3","geometry":{"location":{"lat":48.8738,"lng":2.295}}}
		]}`)
	})
	mux.HandleFunc("/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("place_id") != "p1" {
			fmt.Fprint(w, `{"status":"NOT_FOUND"}`)
			return
		}
		fmt.Fprint(w, `{"status":"OK","result":{
			"name":"Eiffel Tower","formatted_address":"Champ de Mars, Paris","website":"https://www.toureiffel.paris",
			"rating":4.7,"user_ratings_total":300000,
			"opening_hours":{"weekday_text":["Monday: 9:00 AM – 11:00 PM"]},
			"reviews":[{"author_name":"Ana","rating":5,"text":"Stunning at night","relative_time_description":"a week ago"}]
		}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, calls *int64) *PlacesClient {
	server := fakeMapsServer(t, calls)
	return NewPlacesClientWithBaseURL(server.URL, "test-key", zap.NewNop())
}

func TestGeocodeReturnsFirstResult(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	point, err := client.Geocode(context.Background(), "Times Square, NYC")
	require.NoError(t, err)
	assert.Equal(t, "Times Square, New York, NY 10036, USA", point.Name)
	assert.InDelta(t, 40.758, point.Coordinates.Latitude, 1e-6)
	assert.InDelta(t, -73.9855, point.Coordinates.Longitude, 1e-6)
}

func TestGeocodeNoMatchReturnsNotFound(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	point, err := client.Geocode(context.Background(), "a string matching no place")
	assert.Nil(t, point)
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestSearchPlacesShortQuerySkipsNetwork(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	// "東京" is two characters even though it is six bytes; the threshold
	// counts characters.
	for _, query := range []string{"ab", "東京"} {
		results, err := client.SearchPlaces(context.Background(), query, 5)
		require.NoError(t, err)
		assert.Empty(t, results, "query %q", query)
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestSearchPlacesIssuesExactlyOneCall(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	results, err := client.SearchPlaces(context.Background(), "Paris", 5)
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestSearchPlacesTruncatesPreservingOrder(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	results, err := client.SearchPlaces(context.Background(), "Paris", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Eiffel Tower", results[0].Name)
	assert.Equal(t, "Louvre Museum", results[1].Name)
	assert.Contains(t, results[0].PhotoURL, "photo_reference=ref1")
}

func TestSearchPlacesZeroResults(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	results, err := client.SearchPlaces(context.Background(), "nowhere at all", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPlaceDetails(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	details, err := client.PlaceDetails(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Eiffel Tower", details.Name)
	assert.Equal(t, []string{"Monday: 9:00 AM – 11:00 PM"}, details.OpeningHours)
	require.Len(t, details.Reviews, 1)
	assert.Equal(t, "Ana", details.Reviews[0].AuthorName)

	_, err = client.PlaceDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestResolveRouteUsesFormattedAddresses(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	location, err := client.ResolveRoute(context.Background(), "Times Square, NYC", "Central Park, NYC")
	require.NoError(t, err)

	assert.Equal(t, "6.5 km (25 mins)", location.Distance)
	// Endpoint names are the geocoder's formatted addresses, not the raw input.
	assert.Equal(t, "Times Square, New York, NY 10036, USA", location.StartLocation.Name)
	assert.Equal(t, "Central Park, New York, NY, USA", location.EndLocation.Name)
	assert.True(t, location.Complete())
	// Two geocodes plus one directions call.
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestResolveRouteUnknownEndpoint(t *testing.T) {
	var calls int64
	client := newTestClient(t, &calls)

	_, err := client.ResolveRoute(context.Background(), "Times Square, NYC", "a string matching no place")
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}
