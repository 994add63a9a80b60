package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"Ccy":"USD","Rate":"12650,44","Nominal":"1","CcyNm_RU":"Доллар США"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	rate, err := c.GetRate(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "12650.44", rate.String())
}

func TestGetRateUZS(t *testing.T) {
	c := NewClient("http://unreachable.invalid")
	rate, err := c.GetRate(context.Background(), "UZS")
	require.NoError(t, err)
	assert.Equal(t, "1", rate.String(), "UZS never hits the network")
}

func TestGetRateNotPublished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetRate(context.Background(), "XXX")
	assert.Error(t, err)
}

func TestGetRateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetRate(context.Background(), "USD")
	assert.Error(t, err)
}

func TestGetRateUnparseable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Ccy":"USD","Rate":"n/a"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetRate(context.Background(), "USD")
	assert.Error(t, err)
}
