package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tryleetpro/leetpro-api/internal/dto"
	"github.com/tryleetpro/leetpro-api/internal/handler"
	"github.com/tryleetpro/leetpro-api/internal/service"
)

type mockTranscriptionService struct {
	calls    int
	response dto.TranscribeResponse
	err      error
}

func (m *mockTranscriptionService) Transcribe(_ context.Context, file *multipart.FileHeader) (dto.TranscribeResponse, error) {
	m.calls++
	if m.err != nil {
		return dto.TranscribeResponse{}, m.err
	}
	return m.response, nil
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func multipartWav(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "speech.wav")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newTranscribeApp(svc service.TranscriptionService) *fiber.App {
	app := fiber.New(fiber.Config{BodyLimit: 16 * 1024 * 1024})
	handler.NewTranscribeHandler(svc, zerolog.Nop()).Register(app)
	return app
}

func TestTranscribeHandler_Success(t *testing.T) {
	svc := &mockTranscriptionService{response: dto.TranscribeResponse{Text: "hello there"}}
	app := newTranscribeApp(svc)

	body, contentType := multipartWav(t, []byte("RIFFxxxxWAVE"))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response dto.TranscribeResponse
	decodeResponse(t, resp, &response)
	require.Equal(t, "hello there", response.Text)
	require.Equal(t, 1, svc.calls)
}

func TestTranscribeHandler_MissingFile(t *testing.T) {
	svc := &mockTranscriptionService{}
	app := newTranscribeApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/transcribe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, 0, svc.calls)
}

func TestTranscribeHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "wrong_type", err: service.ErrUnsupportedAudioType, statusCode: fiber.StatusUnsupportedMediaType},
		{name: "too_large", err: service.ErrAudioTooLarge, statusCode: fiber.StatusRequestEntityTooLarge},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockTranscriptionService{err: tc.err}
			app := newTranscribeApp(svc)

			body, contentType := multipartWav(t, []byte("RIFFxxxxWAVE"))
			req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
