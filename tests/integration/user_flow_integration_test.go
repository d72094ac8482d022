//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("MINDTRACK_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:8080"
}

func TestCheckInJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	var activity struct {
		ID string `json:"id"`
	}
	name := fmt.Sprintf("Walk %d", time.Now().UnixNano())
	doJSON(t, client, http.MethodPost, base+"/api/activities", map[string]any{"name": name, "color": "#22aa66"}, &activity)
	if activity.ID == "" {
		t.Fatalf("expected activity id in response")
	}

	for _, rating := range []int{2, 4, 5} {
		doJSON(t, client, http.MethodPost, base+"/api/moods", map[string]any{
			"rating":       rating,
			"activity_ids": []string{activity.ID},
		}, nil)
	}

	var correlations struct {
		Correlations []struct {
			Activity struct {
				ID string `json:"id"`
			} `json:"activity"`
			Count int `json:"count"`
		} `json:"correlations"`
	}
	doJSON(t, client, http.MethodGet, base+"/api/moods/correlations", nil, &correlations)
	found := false
	for _, c := range correlations.Correlations {
		if c.Activity.ID == activity.ID {
			found = true
			if c.Count < 3 {
				t.Fatalf("expected at least 3 samples for %s, got %d", activity.ID, c.Count)
			}
		}
	}
	if !found {
		t.Fatalf("activity %s missing from correlations: %+v", activity.ID, correlations)
	}

	var record struct {
		ID            string `json:"id"`
		TotalScore    int    `json:"total_score"`
		SeverityLabel string `json:"severity_label"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/assessments/GAD7", map[string]any{
		"responses": []int{1, 1, 1, 1, 1, 1, 1},
	}, &record)
	if record.TotalScore != 7 || record.SeverityLabel != "mild" {
		t.Fatalf("unexpected scoring result: %+v", record)
	}

	var schedule struct {
		ID string `json:"id"`
	}
	doJSON(t, client, http.MethodPost, base+"/api/schedules", map[string]any{
		"assessment_type": "GAD7",
		"frequency":       "weekly",
		"weekday":         int(time.Monday),
		"time":            "09:00",
	}, &schedule)
	if schedule.ID == "" {
		t.Fatalf("expected schedule id in response")
	}

	resp, err := client.Get(base + "/api/assessments/GAD7/export")
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("export status %d body %s", resp.StatusCode, string(body))
	}
	csvData, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export data: %v", err)
	}
	if !strings.Contains(string(csvData), record.ID) {
		t.Fatalf("export csv did not contain record id; csv=%s", csvData)
	}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) {
	t.Helper()
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
