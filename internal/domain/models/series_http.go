package models

// Requests for series and merge HTTP endpoints. Defined in domain for consistency and reuse.

type SeriesRequest struct {
	SeriesID string `query:"series_id" json:"series_id" validate:"required"`
	Start    string `query:"start" json:"start" validate:"omitempty,datetime=2006-01-02"`
	End      string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
}

// MergeMemberRequest names one series in a merge and the key its values
// appear under in the merged output.
type MergeMemberRequest struct {
	Key      string `json:"key" validate:"required"`
	SeriesID string `json:"series_id" validate:"required"`
}

type MergeRequest struct {
	Series     []MergeMemberRequest `json:"series" validate:"required,min=1,max=7,dive"`
	FillMethod string               `json:"fill_method" default:"forward" validate:"oneof=forward linear none"`
	InnerJoin  bool                 `json:"inner_join"`
	Start      string               `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End        string               `json:"end" validate:"omitempty,datetime=2006-01-02"`
}

type SignalRequest struct {
	Type string `param:"type" json:"type" validate:"required,oneof=rate volatility credit housing composite"`
}
