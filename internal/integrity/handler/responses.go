package handler

import (
	"time"

	"integrity/internal/settings"
)

// NoticeResponse is the HTTP response for the notice endpoint.
type NoticeResponse struct {
	Notice string `json:"notice"`
}

// ResolutionResponse is the HTTP response for the resolution endpoint.
type ResolutionResponse struct {
	Resolution string `json:"resolution"`
}

// SettingResponse is the HTTP response for the setting upsert endpoint.
type SettingResponse struct {
	PolicyName string    `json:"policy_name"`
	ContextID  int64     `json:"context_id"`
	Enabled    bool      `json:"enabled"`
	ModifiedBy int64     `json:"modified_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromSetting converts a stored setting to its HTTP representation.
func FromSetting(s *settings.Setting) *SettingResponse {
	return &SettingResponse{
		PolicyName: s.PolicyName,
		ContextID:  s.ContextID,
		Enabled:    s.Enabled,
		ModifiedBy: s.ModifiedBy,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
