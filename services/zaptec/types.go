package zaptec

import "encoding/json"

// AuthResponse represents the Zaptec authentication response
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ChargeHistory represents one charge session as returned by the API.
// The API spells the field "DeviceId"; DeviceID is the canonical name on
// the Go side and the JSON tag is the only place the spelling differs.
// Energy is a pointer so a missing field can be told apart from 0 kWh.
type ChargeHistory struct {
	ID            string   `json:"Id"`
	DeviceID      string   `json:"DeviceId"`
	StartDateTime string   `json:"StartDateTime"`
	EndDateTime   string   `json:"EndDateTime"`
	Energy        *float64 `json:"Energy"`
	UserUserName  string   `json:"UserUserName"`
	UserFullName  string   `json:"UserFullName"`
	ChargerID     string   `json:"ChargerId"`
	DeviceName    string   `json:"DeviceName"`
	UserEmail     string   `json:"UserEmail"`
	UserID        string   `json:"UserId"`
}

// APIResponse represents the generic Zaptec API response envelope
type APIResponse struct {
	Pages   int               `json:"Pages"`
	Data    []json.RawMessage `json:"Data"`
	Message string            `json:"Message"`
}
