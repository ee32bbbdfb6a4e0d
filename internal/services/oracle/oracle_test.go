package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/service"
	"TruthSource/pkg/metrics"
)

var testPrompt = service.Prompt{System: "system", User: "user"}

func chatServer(t *testing.T, handler func(w http.ResponseWriter, call int32)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		handler(w, n)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeContent(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func testOpenAI(url string, attempts int) *OpenAI {
	o := NewOpenAI(OpenAIConfig{BaseURL: url, APIKey: "key", MaxAttempts: attempts}, nil)
	o.retryInterval = time.Millisecond
	return o
}

func TestOpenAIInvokeDecodesDraft(t *testing.T) {
	var body chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeContent(w, `{"anomalies":[],"model_confidence":0.9}`)
	}))
	defer srv.Close()

	var draft models.AnomalyDetectionDraft
	err := testOpenAI(srv.URL, 1).Invoke(context.Background(), testPrompt, AnomalySchema(), &draft)
	require.NoError(t, err)

	assert.True(t, draft.Anomalies.Set)
	assert.Empty(t, draft.Anomalies.Value)
	assert.Equal(t, 0.9, draft.ModelConfidence.Value)
	assert.False(t, draft.NextCheckRecommended.Set)

	assert.Equal(t, "json_schema", body.ResponseFormat.Type)
	require.NotNil(t, body.ResponseFormat.JSONSchema)
	assert.Equal(t, "anomaly_detection", body.ResponseFormat.JSONSchema.Name)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "user", body.Messages[1].Content)
}

func TestOpenAISchemaViolation(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, _ int32) {
		writeContent(w, `{"anomalies":[{"anomaly_type":"x","severity":"catastrophic","description":"d"}]}`)
	})

	var draft models.AnomalyDetectionDraft
	err := testOpenAI(srv.URL, 3).Invoke(context.Background(), testPrompt, AnomalySchema(), &draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrOracleSchema)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestOpenAINotJSON(t *testing.T) {
	srv, _ := chatServer(t, func(w http.ResponseWriter, _ int32) {
		writeContent(w, "the forecast looks fine")
	})

	var draft models.DemandForecastDraft
	err := testOpenAI(srv.URL, 1).Invoke(context.Background(), testPrompt, DemandSchema(), &draft)
	assert.ErrorIs(t, err, service.ErrOracleSchema)
}

func TestOpenAIRetriesServerErrors(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, n int32) {
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeContent(w, `{"transit_days":3,"carrier_recommendation":"UPS"}`)
	})

	var draft models.DeliveryPredictionDraft
	err := testOpenAI(srv.URL, 2).Invoke(context.Background(), testPrompt, DeliverySchema(), &draft)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	assert.Equal(t, 3.0, draft.TransitDays.Value)
	assert.Equal(t, "UPS", draft.CarrierRecommendation.Value)
}

func TestOpenAIDoesNotRetryClientErrors(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, _ int32) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var draft models.DeliveryPredictionDraft
	err := testOpenAI(srv.URL, 3).Invoke(context.Background(), testPrompt, DeliverySchema(), &draft)
	assert.ErrorIs(t, err, service.ErrOracleTransport)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestOpenAIGivesUpAfterMaxAttempts(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, _ int32) {
		w.WriteHeader(http.StatusBadGateway)
	})

	var draft models.DeliveryPredictionDraft
	err := testOpenAI(srv.URL, 2).Invoke(context.Background(), testPrompt, DeliverySchema(), &draft)
	assert.ErrorIs(t, err, service.ErrOracleTransport)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

type slowOracle struct{}

func (slowOracle) Name() string { return "slow" }

func (slowOracle) Invoke(ctx context.Context, _ service.Prompt, _ *service.Schema, _ interface{}) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestGuardedDeadline(t *testing.T) {
	g := NewGuarded(slowOracle{}, 20*time.Millisecond, metrics.Nop{}, nil)

	start := time.Now()
	err := g.Invoke(context.Background(), testPrompt, nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var oe *service.OracleError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, service.KindTransport, oe.Kind)
	assert.Equal(t, "slow", oe.Provider)
}

func TestGuardedPassesUnavailableThrough(t *testing.T) {
	g := NewGuarded(NewUnconfigured("none", nil), time.Second, metrics.Nop{}, nil)

	err := g.Invoke(context.Background(), testPrompt, nil, nil)
	assert.ErrorIs(t, err, service.ErrOracleUnavailable)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, Ready(g))
}

func TestReadyForRealBackend(t *testing.T) {
	g := NewGuarded(testOpenAI("http://localhost", 1), time.Second, nil, nil)
	assert.True(t, Ready(g))
	assert.Equal(t, "openai", g.Name())
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(AnomalySchema())

	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"anomalies"}, s.Required)
	assert.Equal(t, []string{"anomalies", "model_confidence", "next_check_recommended", "total_anomalies"}, s.PropertyOrdering)

	items := s.Properties["anomalies"].Items
	require.NotNil(t, items)
	assert.Equal(t, []string{"low", "medium", "high", "critical"}, items.Properties["severity"].Enum)
	assert.Equal(t, "enum", items.Properties["severity"].Format)
	require.NotNil(t, items.Properties["recommendation"].Nullable)
	assert.True(t, *items.Properties["recommendation"].Nullable)
	assert.Equal(t, genai.TypeInteger, s.Properties["total_anomalies"].Type)
	assert.Nil(t, toGenaiSchema(nil))
}

func TestSchemasAcceptNormalizerInput(t *testing.T) {
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"forecasts":[{"product_id":"p","warehouse_id":null,"date":"2024-01-01","predicted_demand":0,"confidence_score":0}]}`), &v))
	assert.NoError(t, DemandSchema().Check(v))

	require.NoError(t, json.Unmarshal([]byte(`{"transit_days":2.5}`), &v))
	assert.Error(t, DeliverySchema().Check(v))
}
