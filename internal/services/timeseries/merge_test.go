package timeseries

import (
	"testing"

	"FedPulse/internal/domain/models"
)

func TestMergeDisjointNoFill(t *testing.T) {
	series := []models.KeyedSeries{
		{Key: "a", Data: []models.Observation{obs("2024-01-01", 1.0)}},
		{Key: "b", Data: []models.Observation{obs("2024-01-02", 2.0)}},
	}
	res := Merge(series, models.MergeConfig{FillMethod: models.FillNone})
	if len(res.Data) != 2 {
		t.Fatalf("expected 2 points, got %d", len(res.Data))
	}
	p0, p1 := res.Data[0], res.Data[1]
	if p0.Date != "2024-01-01" || p1.Date != "2024-01-02" {
		t.Fatalf("unexpected dates %s %s", p0.Date, p1.Date)
	}
	if p0.Values["a"] == nil || p0.Values["b"] != nil {
		t.Fatalf("point 0: expected a set, b null")
	}
	if p1.Values["a"] != nil || p1.Values["b"] == nil {
		t.Fatalf("point 1: expected a null, b set")
	}
}

func TestMergeInnerJoin(t *testing.T) {
	series := []models.KeyedSeries{
		{Key: "a", Data: []models.Observation{
			obs("2024-01-01", 1), obs("2024-01-02", 2), obs("2024-01-03", 3),
		}},
		{Key: "b", Data: []models.Observation{obs("2024-01-02", 20)}},
	}
	res := Merge(series, models.MergeConfig{FillMethod: models.FillForward, InnerJoin: true})
	if len(res.Data) != 1 {
		t.Fatalf("expected 1 point, got %d", len(res.Data))
	}
	p := res.Data[0]
	if p.Date != "2024-01-02" {
		t.Fatalf("unexpected date %s", p.Date)
	}
	if p.Values["a"] == nil || *p.Values["a"] != 2 {
		t.Fatalf("unexpected a value %v", p.Values["a"])
	}
	if p.Values["b"] == nil || *p.Values["b"] != 20 {
		t.Fatalf("unexpected b value %v", p.Values["b"])
	}
	if res.DateRange.Start != "2024-01-02" || res.DateRange.End != "2024-01-02" {
		t.Fatalf("unexpected range %+v", res.DateRange)
	}
}

func TestMergeInnerJoinEmptyIntersection(t *testing.T) {
	series := []models.KeyedSeries{
		{Key: "a", Data: []models.Observation{obs("2024-01-01", 1), obs("2024-02-01", 2)}},
		{Key: "b", Data: []models.Observation{obs("2024-03-01", 3)}},
	}
	res := Merge(series, models.MergeConfig{FillMethod: models.FillForward, InnerJoin: true})
	if len(res.Data) != 0 {
		t.Fatalf("expected no points, got %d", len(res.Data))
	}
	if len(res.SeriesInfo) != 2 {
		t.Fatalf("series info must survive an empty intersection, got %d", len(res.SeriesInfo))
	}
	for _, si := range res.SeriesInfo {
		if si.FilledCount != 0 {
			t.Fatalf("expected zero filled for %s", si.Key)
		}
	}
	if res.DateRange.Start != "" || res.DateRange.End != "" {
		t.Fatalf("expected empty range, got %+v", res.DateRange)
	}
}

func TestMergeEmptyInput(t *testing.T) {
	res := Merge(nil, models.MergeConfig{FillMethod: models.FillForward})
	if len(res.Data) != 0 || len(res.SeriesInfo) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	res = Merge([]models.KeyedSeries{{Key: "a"}, {Key: "b"}}, models.MergeConfig{})
	if len(res.Data) != 0 || len(res.SeriesInfo) != 0 {
		t.Fatalf("expected empty result for all-empty inputs, got %+v", res)
	}
}

func TestMergeSelfRoundTrip(t *testing.T) {
	data := []models.Observation{
		obs("2024-01-01", 1.25), obs("2024-02-01", 2.5), obs("2024-03-01", 3.75),
	}
	for _, method := range []models.FillMethod{models.FillForward, models.FillLinear, models.FillNone} {
		res := Merge([]models.KeyedSeries{{Key: "x", Data: data}}, models.MergeConfig{FillMethod: method})
		if len(res.Data) != len(data) {
			t.Fatalf("%s: expected %d points, got %d", method, len(data), len(res.Data))
		}
		for i, o := range data {
			v := res.Data[i].Values["x"]
			if res.Data[i].Date != o.Date || v == nil || *v != o.Value {
				t.Fatalf("%s: point %d differs from original", method, i)
			}
		}
		if res.SeriesInfo[0].FilledCount != 0 {
			t.Fatalf("%s: self merge must not fill", method)
		}
	}
}

func TestMergeFilledCount(t *testing.T) {
	series := []models.KeyedSeries{
		{Key: "daily", Data: []models.Observation{
			obs("2024-01-01", 1), obs("2024-01-02", 2), obs("2024-01-03", 3),
		}},
		{Key: "sparse", Data: []models.Observation{obs("2024-01-01", 10)}},
	}
	res := Merge(series, models.MergeConfig{FillMethod: models.FillForward})
	var sparse models.SeriesInfo
	for _, si := range res.SeriesInfo {
		if si.Key == "sparse" {
			sparse = si
		}
	}
	// 3 output dates, 1 original observation, forward fill covers the rest.
	if sparse.OriginalCount != 1 || sparse.FilledCount != 2 {
		t.Fatalf("unexpected sparse info %+v", sparse)
	}
}

func TestMergeDeterministicDateOrder(t *testing.T) {
	series := []models.KeyedSeries{
		{Key: "a", Data: []models.Observation{
			obs("2024-03-01", 3), obs("2024-01-01", 1), obs("2024-02-01", 2),
		}},
	}
	res := Merge(series, models.MergeConfig{FillMethod: models.FillNone})
	prev := ""
	for _, p := range res.Data {
		if p.Date <= prev {
			t.Fatalf("dates not strictly ascending: %s after %s", p.Date, prev)
		}
		prev = p.Date
	}
}
