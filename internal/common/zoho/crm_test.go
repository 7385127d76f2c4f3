// internal/common/zoho/crm_test.go
package zoho

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRMClient_CreateLead(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantID  string
		wantErr string
	}{
		{
			name:   "created",
			status: http.StatusCreated,
			body:   `{"data":[{"code":"SUCCESS","status":"success","details":{"id":"5725767000000524157"}}]}`,
			wantID: "5725767000000524157",
		},
		{
			name:    "record rejected",
			status:  http.StatusOK,
			body:    `{"data":[{"code":"MANDATORY_NOT_FOUND","status":"error","message":"required field not found"}]}`,
			wantErr: "required field not found",
		},
		{
			name:    "empty data",
			status:  http.StatusOK,
			body:    `{"data":[]}`,
			wantErr: "no data in response",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"code":"INVALID_TOKEN"}`,
			wantErr: "status 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string][]Lead
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/Leads", r.URL.Path)
				assert.Equal(t, "Zoho-oauthtoken tok", r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewCRMClient(srv.URL+"/", "tok", time.Second)
			id, err := client.CreateLead(context.Background(), &Lead{
				LastName:     "Chat lead",
				City:         "Amarillo, TX",
				PumpModel:    "SQF-48-4",
				PanelsNeeded: 4,
				Qualified:    true,
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			require.Len(t, got["data"], 1)
			assert.Equal(t, "SQF-48-4", got["data"][0].PumpModel)
		})
	}
}

func TestNewCRMClient_Defaults(t *testing.T) {
	c := NewCRMClient("", "tok", 0)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
}
