package ops

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const ipccatResponseBody = `<?xml version="1.0" encoding="UTF-8"?>
<response>
	<prediction><rank>2</rank><category>G06N0020000000</category><score>70</score></prediction>
	<prediction><rank>1</rank><category>A61B0005000000</category><score>90</score></prediction>
	<prediction><rank>3</rank><category>A61B0005000000</category><score>40</score></prediction>
</response>`

func TestIPCCATClient(t *testing.T) {
	var lastRequest string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastRequest = string(body)
		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, ipccatResponseBody)
	}))
	defer server.Close()

	client, err := NewIPCCATClient(IPCCATOptions{BaseURL: server.URL, Predictions: 3})
	require.NoError(t, err)

	codes, err := client.ClassifyText(context.Background(), "a wearable health sensor")
	require.NoError(t, err)

	// Predictions are ordered by rank and duplicates collapse.
	require.Equal(t, []string{"A61B5/00", "G06N20/00"}, codes)

	// The request carries the text and prediction settings.
	require.Contains(t, lastRequest, "<text>a wearable health sensor</text>")
	require.Contains(t, lastRequest, "<numberofpredictions>3</numberofpredictions>")
	require.Contains(t, lastRequest, "<hierarchiclevel>SUBGROUP</hierarchiclevel>")
	require.Contains(t, lastRequest, "<lang>en</lang>")
}

func TestIPCCATClientValidation(t *testing.T) {
	_, err := NewIPCCATClient(IPCCATOptions{})
	require.Error(t, err)
}

func TestIPCCATClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "temporarily overloaded", http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, ipccatResponseBody)
	}))
	defer server.Close()

	client, err := NewIPCCATClient(IPCCATOptions{BaseURL: server.URL, MaxRetries: 1})
	require.NoError(t, err)

	codes, err := client.ClassifyText(context.Background(), "a wearable health sensor")
	require.NoError(t, err)
	require.NotEmpty(t, codes)
	require.Equal(t, 2, attempts)
}

func TestIPCCATClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "malformed request", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewIPCCATClient(IPCCATOptions{BaseURL: server.URL, MaxRetries: 3})
	require.NoError(t, err)

	_, err = client.ClassifyText(context.Background(), "a wearable health sensor")
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestIPCCATClientEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<?xml version="1.0"?><response></response>`)
	}))
	defer server.Close()

	client, err := NewIPCCATClient(IPCCATOptions{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ClassifyText(context.Background(), "a wearable health sensor")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no predictions")
}

func TestIPCCATClientContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client, err := NewIPCCATClient(IPCCATOptions{BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.ClassifyText(ctx, "a wearable health sensor")
	require.Error(t, err)
}

func TestFormatIPCCode(t *testing.T) {
	cases := []struct {
		raw      string
		expected string
	}{
		{"G06N0020000000", "G06N20/00"},
		{"A61B0005000000", "A61B5/00"},
		{"H04W0004380000", "H04W4/38"},
		{"G06F", "G06F"},
		{"g06n0020000000", "G06N20/00"},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.expected, FormatIPCCode(tc.raw), "raw %q", tc.raw)
	}
	require.Equal(t, "A61", FormatIPCCode("a61"))
	require.True(t, strings.HasPrefix(FormatIPCCode("G06N0020000000"), "G06N"))
}
