package models

// Weekdays are the days searched when looking a course up by name.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// SourceRecord is the parsed input file: day identifier to classes payload,
// in the order the days first appear in the file.
type SourceRecord struct {
	keys   []string
	values map[string]any
}

// NewSourceRecord returns an empty record.
func NewSourceRecord() *SourceRecord {
	return &SourceRecord{values: make(map[string]any)}
}

// Put sets the payload for day. A repeated day keeps its first position.
func (r *SourceRecord) Put(day string, classes any) {
	if _, ok := r.values[day]; !ok {
		r.keys = append(r.keys, day)
	}
	r.values[day] = classes
}

// Get returns the payload for day.
func (r *SourceRecord) Get(day string) (any, bool) {
	v, ok := r.values[day]
	return v, ok
}

// Keys returns the days in file order.
func (r *SourceRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *SourceRecord) Len() int { return len(r.keys) }

// ClassEntry is one scheduled class inside a day's payload.
type ClassEntry struct {
	CourseName string `json:"course_name" mapstructure:"course_name"`
	StartTime  string `json:"start_time" mapstructure:"start_time"`
	EndTime    string `json:"end_time" mapstructure:"end_time"`
	Location   string `json:"location" mapstructure:"location"`
}

// DayDocument is a timetable document as read back from the store.
type DayDocument struct {
	Day     string
	Fields  map[string]any
	Classes []ClassEntry
}
