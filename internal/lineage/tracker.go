// Package lineage records directed produce/consume relationships
// between data assets and answers bounded-depth reachability queries
// over batches of finalized events.
package lineage

import (
	"time"

	"github.com/google/uuid"

	"clingov/internal/domain"
)

// trackerState makes the builder's lifecycle explicit: a tracker is
// Open until BuildEvent finalizes it, after which any mutation errors.
type trackerState int

const (
	stateOpen trackerState = iota
	stateFinalized
)

// Tracker incrementally builds one lineage event for one pipeline step.
// It is single-use and single-owner: concurrent steps must each create
// their own tracker, and a finalized tracker rejects further mutation.
type Tracker struct {
	state       trackerState
	eventID     string
	eventType   domain.LineageEventType
	triggeredBy string
	startTime   time.Time

	inputAssets  []domain.DataAsset
	outputAssets []domain.DataAsset

	transformationLogic string
	parameters          map[string]string
	validationStatus    string
	recordsIn           int64
	recordsOut          int64
	recordsRejected     int64
	executionID         string
}

// NewTracker creates a tracker for a pipeline step. The event's
// duration is measured from this call.
func NewTracker(triggeredBy string, eventType domain.LineageEventType) *Tracker {
	return &Tracker{
		state:       stateOpen,
		eventID:     uuid.NewString(),
		eventType:   eventType,
		triggeredBy: triggeredBy,
		startTime:   time.Now().UTC(),
	}
}

func (t *Tracker) mutable() error {
	if t.state == stateFinalized {
		return domain.ErrConflict("lineage tracker already finalized (event %s)", t.eventID)
	}
	return nil
}

// AddInput registers an input asset. An asset carrying a record count
// accumulates it into the event's records_in total.
func (t *Tracker) AddInput(asset domain.DataAsset) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.inputAssets = append(t.inputAssets, asset)
	if asset.RecordCount != nil {
		t.recordsIn += *asset.RecordCount
	}
	return nil
}

// AddOutput registers an output asset. An asset carrying a record count
// accumulates it into the event's records_out total.
func (t *Tracker) AddOutput(asset domain.DataAsset) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.outputAssets = append(t.outputAssets, asset)
	if asset.RecordCount != nil {
		t.recordsOut += *asset.RecordCount
	}
	return nil
}

// SetTransformation documents the transformation applied by this step.
func (t *Tracker) SetTransformation(description string, parameters map[string]string) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.transformationLogic = description
	if parameters != nil {
		t.parameters = parameters
	}
	return nil
}

// SetValidationStatus records the validation verdict and rejected count.
func (t *Tracker) SetValidationStatus(status string, rejected int64) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.validationStatus = status
	t.recordsRejected = rejected
	return nil
}

// SetExecutionID records the execution context (job run id, request id).
func (t *Tracker) SetExecutionID(executionID string) error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.executionID = executionID
	return nil
}

// BuildEvent finalizes the tracker and returns the immutable event,
// stamping duration_seconds as wall time elapsed since construction.
// Calling it twice is a ConflictError.
func (t *Tracker) BuildEvent() (*domain.LineageEvent, error) {
	if err := t.mutable(); err != nil {
		return nil, err
	}
	t.state = stateFinalized

	inputs := make([]domain.DataAsset, len(t.inputAssets))
	copy(inputs, t.inputAssets)
	outputs := make([]domain.DataAsset, len(t.outputAssets))
	copy(outputs, t.outputAssets)

	return &domain.LineageEvent{
		EventID:             t.eventID,
		EventType:           t.eventType,
		Timestamp:           t.startTime,
		TriggeredBy:         t.triggeredBy,
		InputAssets:         inputs,
		OutputAssets:        outputs,
		TransformationLogic: t.transformationLogic,
		Parameters:          t.parameters,
		ValidationStatus:    t.validationStatus,
		RecordsIn:           t.recordsIn,
		RecordsOut:          t.recordsOut,
		RecordsRejected:     t.recordsRejected,
		ExecutionID:         t.executionID,
		DurationSeconds:     time.Since(t.startTime).Seconds(),
	}, nil
}
