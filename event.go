package grove

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Emotion is a label from the closed emotion set.
type Emotion string

const (
	EmotionJoy          Emotion = "joy"
	EmotionTrust        Emotion = "trust"
	EmotionFear         Emotion = "fear"
	EmotionSurprise     Emotion = "surprise"
	EmotionSadness      Emotion = "sadness"
	EmotionDisgust      Emotion = "disgust"
	EmotionAnger        Emotion = "anger"
	EmotionAnticipation Emotion = "anticipation"
	EmotionExcitement   Emotion = "excitement"
	EmotionNeutral      Emotion = "neutral"
)

// Emotions lists the closed set in its canonical order. Summary tie-breaks
// follow this order.
var Emotions = []Emotion{
	EmotionJoy, EmotionTrust, EmotionFear, EmotionSurprise, EmotionSadness,
	EmotionDisgust, EmotionAnger, EmotionAnticipation, EmotionExcitement,
	EmotionNeutral,
}

// ParseEmotion normalizes a label. Labels outside the closed set map to
// EmotionNeutral.
func ParseEmotion(s string) Emotion {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	if e.Valid() {
		return e
	}
	return EmotionNeutral
}

// Valid reports whether e belongs to the closed set.
func (e Emotion) Valid() bool {
	for _, v := range Emotions {
		if v == e {
			return true
		}
	}
	return false
}

// EmotionEvent is one journaled emotional moment. Events are immutable for
// the lifetime of the scene they are placed in.
type EmotionEvent struct {
	// Timestamp is the zero time when the source timestamp was invalid.
	Timestamp time.Time
	// RawTimestamp is the timestamp text as received.
	RawTimestamp string
	Emotion      Emotion
	Subject      string
	// Intensity is optional confidence or strength, in [0, 1] when set.
	Intensity *float64
	// Count is the number of merged records this event stands for (0 and 1
	// both mean a single record).
	Count int
}

// weight is the summary weight of the event.
func (e *EmotionEvent) weight() int {
	if e.Count > 1 {
		return e.Count
	}
	return 1
}

// eventRecord is the wire format produced by the fetch collaborator.
type eventRecord struct {
	CreatedAt           string   `json:"createdAt"`
	Emotion             string   `json:"emotion"`
	EmailSubject        string   `json:"emailSubject"`
	ExampleEmailSubject string   `json:"exampleEmailSubject"`
	Intensity           *float64 `json:"intensity"`
	Count               int      `json:"count"`
}

// timestampLayouts are tried in order when decoding createdAt.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO 8601 timestamp as sent by the fetch layer.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// DecodeEvents decodes a JSON array of event records. Records with an
// unparseable createdAt are kept with a zero Timestamp so the grid mapper
// can report them with their index.
func DecodeEvents(data []byte) ([]EmotionEvent, error) {
	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	events := make([]EmotionEvent, 0, len(records))
	for _, r := range records {
		ts, _ := ParseTimestamp(r.CreatedAt)
		subject := r.EmailSubject
		if subject == "" {
			subject = r.ExampleEmailSubject
		}
		events = append(events, EmotionEvent{
			Timestamp:    ts,
			RawTimestamp: r.CreatedAt,
			Emotion:      ParseEmotion(r.Emotion),
			Subject:      subject,
			Intensity:    r.Intensity,
			Count:        r.Count,
		})
	}
	return events, nil
}
