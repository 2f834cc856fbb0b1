package opendata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
)

const sample = `[
  {"created_date":"2025-10-01T12:00:00.000","unique_key":"66001","complaint_type":"Street Condition","descriptor":"Pothole","street_name":"BROADWAY","latitude":"40.71","longitude":"-74.00"},
  {"created_date":"2025-10-01T11:00:00.000","unique_key":"66000","complaint_type":"Street Condition","descriptor":"Pothole","latitude":"40.70","longitude":"-73.99"}
]`

func TestFetchSendsSoQL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("$limit"))
		assert.Equal(t, "created_date DESC", q.Get("$order"))
		assert.Contains(t, q.Get("$where"), "descriptor = 'Pothole'")
		assert.Contains(t, q.Get("$select"), "street_name")
		assert.Equal(t, "tok", r.Header.Get("X-App-Token"))
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/resource/7dn9-uvry.json", "tok", time.Second)
	list, err := c.Fetch(context.Background(), domain.DefaultQuery(100))
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "66001", list[0].UniqueKey)
	assert.Equal(t, "BROADWAY", list[0].StreetName)
	assert.Empty(t, list[1].StreetName)
}

func TestFetchToleratesNumbersAndExtraFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"unique_key":66002,"descriptor":"Pothole","latitude":40.7,"longitude":-74.0,"incident_zip":"10001"}]`))
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), domain.DefaultQuery(10))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "66002", list[0].UniqueKey)
	assert.Equal(t, "40.7", list[0].Latitude)
	assert.Contains(t, string(list[0].Raw), `"incident_zip":"10001"`)
}

func TestFetchEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-App-Token"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), domain.DefaultQuery(10))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), domain.DefaultQuery(10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "400")
	})
	t.Run("malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":true`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "", time.Second).Fetch(context.Background(), domain.DefaultQuery(10))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode JSON")
	})
}
