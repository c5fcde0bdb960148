package zaptec

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Timestamp layout the history endpoint expects for StartDate/EndDate.
const queryTimeLayout = "2006-01-02T15:04:05"

// FetchError reports a failed charge-history request. Status is the HTTP
// status code, or 0 when the request never completed. The caller decides
// whether to abort or continue with zero records; an error result is never
// collapsed into an empty list.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("charge history fetch failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("charge history fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HistoryQuery holds the parameters for one charge-history request.
type HistoryQuery struct {
	InstallationID string
	Start          time.Time
	End            time.Time
	MaxEntries     int
	GroupBy        int
	DetailLevel    int
}

// APIClient handles communication with the Zaptec API
type APIClient struct {
	client     *http.Client
	apiBaseURL string
}

// NewAPIClient creates a new API client
func NewAPIClient(client *http.Client, apiBaseURL string) *APIClient {
	return &APIClient{
		client:     client,
		apiBaseURL: apiBaseURL,
	}
}

// GetChargeHistory retrieves charge sessions for an installation within the
// query window. Records are returned in server order. A single page only:
// anything the server truncates past MaxEntries is not fetched.
func (ac *APIClient) GetChargeHistory(token string, query HistoryQuery) ([]ChargeHistory, error) {
	params := url.Values{}
	params.Set("StartDate", query.Start.UTC().Format(queryTimeLayout))
	params.Set("EndDate", query.End.UTC().Format(queryTimeLayout))
	// The API's parameter really is spelled "MaxEntires"
	params.Set("MaxEntires", strconv.Itoa(query.MaxEntries))
	params.Set("InstallationId", query.InstallationID)
	params.Set("GroupBy", strconv.Itoa(query.GroupBy))
	params.Set("DetailLevel", strconv.Itoa(query.DetailLevel))

	historyURL := fmt.Sprintf("%s/api/chargehistory?%s", ac.apiBaseURL, params.Encode())

	req, err := http.NewRequest("GET", historyURL, nil)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("failed to create request: %v", err)}
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Accept", "application/json")

	resp, err := ac.client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("%s", string(body))}
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %v", err)}
	}

	var sessions []ChargeHistory
	for _, dataItem := range apiResp.Data {
		var session ChargeHistory
		if err := json.Unmarshal(dataItem, &session); err != nil {
			log.Printf("WARNING: Skipping undecodable history record: %v", err)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}
