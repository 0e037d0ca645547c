package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quickmoney-backend/internal/config"
)

var testTitles = []string{"Starter Card", "Silver Card", "Gold Card", "Premium Card", "Platinum Card"}

func newTestVisionClient(baseURL string) VisionClient {
	return NewVisionClient(&config.Classifier{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	}, testTitles)
}

func chatReply(content string) string {
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func TestExtractPaymentParsesFencedJSON(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(chatReply("```json\n{\"amount\": \"100.01\", \"cardName\": \"Starter Card\"}\n```")))
	}))
	defer srv.Close()

	result, err := newTestVisionClient(srv.URL).ExtractPayment(context.Background(), "https://img.example/proof.png")
	require.NoError(t, err)

	assert.Equal(t, "100.01", result.Amount)
	assert.Equal(t, "Starter Card", result.CardName)
	assert.True(t, result.Found())

	// The request must carry the fixed instruction and the screenshot URL.
	require.Len(t, gotBody.Messages, 1)
	require.Len(t, gotBody.Messages[0].Content, 2)
	assert.Contains(t, gotBody.Messages[0].Content[0].Text, "payment screenshot")
	assert.Contains(t, gotBody.Messages[0].Content[0].Text, `"Platinum Card"`)
	assert.Equal(t, "https://img.example/proof.png", gotBody.Messages[0].Content[1].ImageURL.URL)
}

func TestExtractPaymentNotFoundSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"amount":"not_found","cardName":"not_found"}`)))
	}))
	defer srv.Close()

	result, err := newTestVisionClient(srv.URL).ExtractPayment(context.Background(), "https://img.example/blurry.png")
	require.NoError(t, err)

	assert.Equal(t, NotFound, result.Amount)
	assert.Equal(t, NotFound, result.CardName)
	assert.False(t, result.Found())
}

func TestExtractPaymentServerErrorRetriesThenUnavailable(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestVisionClient(srv.URL).ExtractPayment(context.Background(), "https://img.example/proof.png")

	assert.ErrorIs(t, err, ErrClassifierUnavailable)
	assert.Equal(t, visionMaxAttempts, calls)
}

func TestExtractPaymentClientErrorNoRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestVisionClient(srv.URL).ExtractPayment(context.Background(), "https://img.example/proof.png")

	assert.ErrorIs(t, err, ErrClassifierUnavailable)
	assert.Equal(t, 1, calls)
}

func TestExtractPaymentUnreachableHost(t *testing.T) {
	c := NewVisionClient(&config.Classifier{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, testTitles)

	_, err := c.ExtractPayment(context.Background(), "https://img.example/proof.png")
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

func TestExtractPaymentGarbageReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("the amount seems to be around one hundred rupees")))
	}))
	defer srv.Close()

	_, err := newTestVisionClient(srv.URL).ExtractPayment(context.Background(), "https://img.example/proof.png")
	assert.ErrorIs(t, err, ErrBadExtraction)
}

func TestExtractPaymentMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"amount":"100.01"}`)))
	}))
	defer srv.Close()

	_, err := newTestVisionClient(srv.URL).ExtractPayment(context.Background(), "https://img.example/proof.png")
	assert.ErrorIs(t, err, ErrBadExtraction)
}
