package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectred/donor-api/config"
	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

func advisorServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *OpenAIClient {
	return NewOpenAIClient(config.AdvisorConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-3.5-turbo",
		Timeout: 5 * time.Second,
	})
}

func TestRecommendHospital(t *testing.T) {
	srv := advisorServer(t, "2", http.StatusOK)
	client := newTestClient(srv)

	candidates := []model.HospitalCandidate{
		{ID: uuid.New(), Name: "General", DonorDistance: 5, PatientDistance: 20, TotalDistance: 25},
		{ID: uuid.New(), Name: "Mercy", DonorDistance: 10, PatientDistance: 8, TotalDistance: 18},
	}

	id, err := client.RecommendHospital(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, candidates[1].ID, id)
}

func TestRecommendHospital_ChoiceOutOfRange(t *testing.T) {
	srv := advisorServer(t, "7", http.StatusOK)
	client := newTestClient(srv)

	candidates := []model.HospitalCandidate{{ID: uuid.New(), Name: "General"}}

	_, err := client.RecommendHospital(context.Background(), candidates)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrAdvisorUnavailable))
}

func TestRecommendHospital_UpstreamError(t *testing.T) {
	srv := advisorServer(t, "", http.StatusInternalServerError)
	client := newTestClient(srv)

	candidates := []model.HospitalCandidate{{ID: uuid.New(), Name: "General"}}

	_, err := client.RecommendHospital(context.Background(), candidates)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrAdvisorUnavailable))
}

func TestAssessHealth(t *testing.T) {
	reply := "```json\n{\"summary\":\"All values normal.\",\"notification_message\":\"Your results look great!\",\"confidence\":92,\"has_abnormalities\":false}\n```"
	srv := advisorServer(t, reply, http.StatusOK)
	client := newTestClient(srv)

	sugar := 85.0
	assessment, err := client.AssessHealth(context.Background(), &model.HealthProfile{
		Name:       "Jordan Li",
		Age:        30,
		Gender:     model.GenderMale,
		SugarLevel: &sugar,
	})
	require.NoError(t, err)
	assert.Equal(t, "All values normal.", assessment.Summary)
	assert.Equal(t, 92, assessment.Confidence)
	assert.False(t, assessment.HasAbnormalities)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		reply   string
		n       int
		want    int
		wantErr bool
	}{
		{"1", 3, 0, false},
		{"Hospital 3 is best.", 3, 2, false},
		{"none", 3, 0, true},
		{"0", 3, 0, true},
		{"4", 3, 0, true},
	}
	for _, tt := range tests {
		got, err := parseChoice(tt.reply, tt.n)
		if tt.wantErr {
			assert.Error(t, err, tt.reply)
			continue
		}
		require.NoError(t, err, tt.reply)
		assert.Equal(t, tt.want, got, tt.reply)
	}
}
