package domain

import (
	"crypto/md5" //nolint:gosec // asset ids are audit-trail identifiers, not security material
	"encoding/hex"
	"strings"
	"time"
)

// DataLayer is a named stage in the multi-step storage pipeline.
type DataLayer string

const (
	LayerLanding DataLayer = "landing"
	LayerBronze  DataLayer = "bronze"
	LayerSilver  DataLayer = "silver"
	LayerGold    DataLayer = "gold"
	LayerExport  DataLayer = "export"
)

// LineageEventType classifies a lineage event.
type LineageEventType string

const (
	EventIngestion      LineageEventType = "ingestion"
	EventTransformation LineageEventType = "transformation"
	EventValidation     LineageEventType = "validation"
	EventPromotion      LineageEventType = "promotion"
	EventExport         LineageEventType = "export"
)

// DataAsset is a node in the lineage graph: a file, table, or dataset
// identified by its location string. Assets are value objects; no
// asset owns another, and the location is the globally unique key.
type DataAsset struct {
	AssetID     string            `json:"asset_id"`
	Name        string            `json:"name"`
	AssetType   string            `json:"asset_type"`
	Location    string            `json:"location"`
	Layer       DataLayer         `json:"layer"`
	SchemaHash  string            `json:"schema_hash,omitempty"`
	RecordCount *int64            `json:"record_count,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// AssetFromLocation derives a file asset from an opaque location string.
// The asset id is a deterministic 12-char digest of the location and the
// name is the last path segment.
func AssetFromLocation(location string, layer DataLayer, recordCount *int64) DataAsset {
	sum := md5.Sum([]byte(location)) //nolint:gosec
	segments := strings.Split(strings.TrimRight(location, "/"), "/")
	name := segments[len(segments)-1]
	return DataAsset{
		AssetID:     hex.EncodeToString(sum[:])[:12],
		Name:        name,
		AssetType:   "file",
		Location:    location,
		Layer:       layer,
		RecordCount: recordCount,
		CreatedAt:   time.Now().UTC(),
	}
}

// LineageEvent is a directed hyperedge in the lineage graph: every
// input location feeds the event, and the event feeds every output
// location. Built once by a tracker, immutable thereafter.
type LineageEvent struct {
	EventID             string            `json:"event_id"`
	EventType           LineageEventType  `json:"event_type"`
	Timestamp           time.Time         `json:"timestamp"`
	TriggeredBy         string            `json:"triggered_by"`
	InputAssets         []DataAsset       `json:"input_assets"`
	OutputAssets        []DataAsset       `json:"output_assets"`
	TransformationLogic string            `json:"transformation_logic,omitempty"`
	Parameters          map[string]string `json:"parameters,omitempty"`
	ValidationStatus    string            `json:"validation_status,omitempty"`
	RecordsIn           int64             `json:"records_in"`
	RecordsOut          int64             `json:"records_out"`
	RecordsRejected     int64             `json:"records_rejected"`
	ExecutionID         string            `json:"execution_id,omitempty"`
	DurationSeconds     float64           `json:"duration_seconds"`
}
