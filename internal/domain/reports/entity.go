package reports

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Report is one 311 service request as returned by the open-data API.
// The typed fields are a read-only view; Raw keeps the element exactly as
// the provider sent it and is what gets written back out.
type Report struct {
	CreatedDate   string `json:"created_date"`
	UniqueKey     string `json:"unique_key"`
	ComplaintType string `json:"complaint_type"`
	Descriptor    string `json:"descriptor"`
	StreetName    string `json:"street_name,omitempty"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw element and fills the view. Numbers and
// booleans are taken as their literal text.
func (r *Report) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r = Report{
		CreatedDate:   text(fields["created_date"]),
		UniqueKey:     text(fields["unique_key"]),
		ComplaintType: text(fields["complaint_type"]),
		Descriptor:    text(fields["descriptor"]),
		StreetName:    text(fields["street_name"]),
		Latitude:      text(fields["latitude"]),
		Longitude:     text(fields["longitude"]),
		Raw:           append(json.RawMessage(nil), b...),
	}
	return nil
}

// MarshalJSON returns Raw when the report came from the provider.
func (r Report) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain Report
	return json.Marshal(plain(r))
}

func text(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(v)
}

// MentionsPothole reports whether the descriptor names a pothole.
func (r Report) MentionsPothole() bool {
	return strings.Contains(strings.ToLower(r.Descriptor), "pothole")
}

// Query is a SoQL filter sent to the open-data endpoint.
type Query struct {
	Limit  int
	Order  string
	Where  string
	Select string
}

// DefaultQuery returns the most recent pothole complaints that carry coordinates.
func DefaultQuery(limit int) Query {
	return Query{
		Limit:  limit,
		Order:  "created_date DESC",
		Where:  "complaint_type = 'Street Condition' AND descriptor = 'Pothole' AND latitude IS NOT NULL AND longitude IS NOT NULL",
		Select: "created_date, unique_key, complaint_type, descriptor, street_name, latitude, longitude",
	}
}
