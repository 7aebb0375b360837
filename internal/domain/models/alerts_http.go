package models

// Requests for alert HTTP endpoints.

type CreateAlertRequest struct {
	SignalType      string  `json:"signal_type" validate:"required,oneof=rate volatility credit housing composite"`
	Condition       string  `json:"condition" validate:"required,oneof=crosses_above crosses_below any_change"`
	Threshold       float64 `json:"threshold" validate:"gte=-1,lte=1"`
	CooldownMinutes int     `json:"cooldown_minutes" default:"60" validate:"gte=1,lte=1440"`
	Enabled         *bool   `json:"enabled"`
}

// UpdateAlertRequest carries the user-editable fields. Pointers distinguish
// "leave unchanged" from explicit zero values.
type UpdateAlertRequest struct {
	Threshold       *float64 `json:"threshold" validate:"omitempty,gte=-1,lte=1"`
	CooldownMinutes *int     `json:"cooldown_minutes" validate:"omitempty,gte=1,lte=1440"`
	Enabled         *bool    `json:"enabled"`
}

type TriggerHistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
