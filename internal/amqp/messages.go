package amqp

import (
	"encoding/json"
	"time"

	"fitlog/internal/core"
)

// ReportEvent is published once per delivered daily report so other services
// can consume the resolved values without reading the sheet.
type ReportEvent struct {
	Date      string            `json:"date"`
	Header    string            `json:"header"`
	Values    map[string]string `json:"values"`
	Text      string            `json:"text"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewReportEvent captures a report as an event
func NewReportEvent(r core.Report) *ReportEvent {
	values := make(map[string]string, len(r.Lines))
	for _, l := range r.Lines {
		values[l.Category.String()] = l.Value
	}
	return &ReportEvent{
		Date:      r.Date.String(),
		Header:    r.Header(),
		Values:    values,
		Text:      r.String(),
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ReportEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ReportEventFromJSON decodes an event body
func ReportEventFromJSON(data []byte) (*ReportEvent, error) {
	var e ReportEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
