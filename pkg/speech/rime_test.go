package speech_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tryleetpro/leetpro-api/pkg/speech"
)

func TestRimeSynthesize(t *testing.T) {
	mp3 := []byte{0xFF, 0xFB, 0x90, 0x64}

	var gotAuth string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString(mp3),
		})
	}))
	defer srv.Close()

	client, err := speech.NewRimeClient(speech.RimeConfig{
		APIKey:  "rime-key",
		BaseURL: srv.URL,
		Speaker: "joy",
	})
	require.NoError(t, err)

	audio, err := client.Synthesize(context.Background(), "First line\nsecond line")
	require.NoError(t, err)
	require.Equal(t, mp3, audio)

	require.Equal(t, "Bearer rime-key", gotAuth)
	require.Equal(t, "joy", gotPayload["speaker"])
	require.Equal(t, "First line second line", gotPayload["text"])
	require.Equal(t, "mist", gotPayload["modelId"])
	require.Equal(t, "mp3", gotPayload["audioFormat"])
	require.Equal(t, float64(22050), gotPayload["samplingRate"])
	require.Equal(t, 1.0, gotPayload["speedAlpha"])
	require.Equal(t, false, gotPayload["reduceLatency"])
}

func TestRimeSynthesizeRejectsLongText(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client, err := speech.NewRimeClient(speech.RimeConfig{APIKey: "rime-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), strings.Repeat("a", 1001))
	require.ErrorIs(t, err, speech.ErrTextTooLong)
	require.Equal(t, 0, requests)
}

func TestRimeSynthesizeAcceptsLimitLengthText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("ok")),
		})
	}))
	defer srv.Close()

	client, err := speech.NewRimeClient(speech.RimeConfig{APIKey: "rime-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), strings.Repeat("a", 1000))
	require.NoError(t, err)
}

func TestRimeSynthesizeBadAudioContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"audioContent":"not base64!!!"}`))
	}))
	defer srv.Close()

	client, err := speech.NewRimeClient(speech.RimeConfig{APIKey: "rime-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode audio content")
}

func TestNewRimeClientRequiresKey(t *testing.T) {
	_, err := speech.NewRimeClient(speech.RimeConfig{})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "asterisks", in: "*bold* claim", want: " bold  claim"},
		{name: "tildes", in: "about ~10 users", want: "about  10 users"},
		{name: "newlines", in: "one\ntwo\nthree", want: "one...two...three"},
		{name: "mixed", in: "*Hi*\nthere~", want: " Hi ...there "},
		{name: "clean", in: "nothing to do here", want: "nothing to do here"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, speech.Normalize(tc.in))
		})
	}
}
