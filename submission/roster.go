package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Roster is the ordered list of submitters. On the wire it is a JSON object
// mapping name to registration number; key order is significant because it
// decides which submitter fills which slot.
type Roster []Submitter

// UnmarshalJSON keeps the key order of the object. A repeated name keeps
// its first position and takes the last value.
func (r *Roster) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("submitters must be an object mapping name to registration number")
	}

	roster := Roster{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)

		var id string
		if err := dec.Decode(&id); err != nil {
			return fmt.Errorf("registration number of %q must be a string", name)
		}

		if i, seen := index[name]; seen {
			roster[i].ID = id
			continue
		}
		index[name] = len(roster)
		roster = append(roster, Submitter{Name: name, ID: id})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = roster
	return nil
}

func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		id, err := json.Marshal(s.ID)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(id)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
