package dataprocessing

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"mpidash/pkg/contracts/domain"
)

// Map defaults used when nothing in the subset is geocoded.
const (
	DefaultMapLat     = 56.0
	DefaultMapLon     = -96.0
	DefaultMapZoom    = 2
	NoGeocodedMessage = "No geocoded points in current filters"
)

// Bubble sizes span [minBubble, minBubble+bubbleSpan] pixels.
const (
	minBubble  = 8.0
	bubbleSpan = 14.0
)

// LatLon is a map position.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapBounds is the bounding box of the plotted points.
type MapBounds struct {
	SouthWest LatLon `json:"south_west"`
	NorthEast LatLon `json:"north_east"`
}

// MapLayer is the GeoJSON point layer of a subset.
type MapLayer struct {
	Features *geojson.FeatureCollection `json:"features"`
	Center   LatLon                     `json:"center"`
	Zoom     int                        `json:"zoom"`
	Bounds   *MapBounds                 `json:"bounds,omitempty"`
	Message  string                     `json:"message,omitempty"`
}

// BubbleSizes scales costs to marker sizes. Missing costs take the median of
// the present ones (1 when there are none); equal costs all get the largest size.
func BubbleSizes(costs []*float64) []float64 {
	fill := 1.0
	if m := Median(costs); m != nil {
		fill = *m
	}
	filled := make([]float64, len(costs))
	for i, c := range costs {
		filled[i] = fill
		if c != nil {
			filled[i] = *c
		}
	}
	if len(filled) == 0 {
		return filled
	}

	lo, hi := filled[0], filled[0]
	for _, c := range filled[1:] {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	sizes := make([]float64, len(filled))
	for i, c := range filled {
		scale := 1.0
		if hi > lo {
			scale = (c - lo) / (hi - lo)
		}
		sizes[i] = minBubble + bubbleSpan*scale
	}
	return sizes
}

func featureProperties(p domain.Project, size float64) map[string]interface{} {
	return map[string]interface{}{
		"company":            p.Company,
		"project":            p.Project,
		"province":           p.Province,
		"sector":             p.Sector,
		"group":              p.Group,
		"cost_mm":            p.CostMM,
		"blended_prob_2dp":   p.BlendedProb2dp,
		"priority_index_2dp": p.PriorityIndex2dp,
		"power_ranking_2dp":  p.PowerRanking2dp,
		"bubble_size":        size,
	}
}

// BuildMapLayer places every geocoded project as a GeoJSON point sized by cost.
func BuildMapLayer(records []domain.Project) MapLayer {
	located := make([]domain.Project, 0, len(records))
	for _, p := range records {
		if p.HasLocation() {
			located = append(located, p)
		}
	}

	layer := MapLayer{
		Features: &geojson.FeatureCollection{Features: []*geojson.Feature{}},
		Center:   LatLon{Lat: DefaultMapLat, Lon: DefaultMapLon},
		Zoom:     DefaultMapZoom,
	}
	if len(located) == 0 {
		layer.Message = NoGeocodedMessage
		return layer
	}

	costs := make([]*float64, len(located))
	for i := range located {
		costs[i] = located[i].ProjectCost
	}
	sizes := BubbleSizes(costs)

	bounds := geom.NewBounds(geom.XY)
	for i, p := range located {
		pt := geom.NewPointFlat(geom.XY, []float64{*p.Longitude, *p.Latitude})
		bounds.Extend(pt)
		layer.Features.Features = append(layer.Features.Features, &geojson.Feature{
			Geometry:   pt,
			Properties: featureProperties(p, sizes[i]),
		})
	}

	layer.Bounds = &MapBounds{
		SouthWest: LatLon{Lat: bounds.Min(1), Lon: bounds.Min(0)},
		NorthEast: LatLon{Lat: bounds.Max(1), Lon: bounds.Max(0)},
	}
	layer.Center = LatLon{
		Lat: (bounds.Min(1) + bounds.Max(1)) / 2,
		Lon: (bounds.Min(0) + bounds.Max(0)) / 2,
	}
	return layer
}
