package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRecord is returned when an external record cannot be normalized.
// A single invalid record rejects the whole batch it arrived in.
var ErrInvalidRecord = errors.New("catalog: invalid record")

// Record is the canonical form of an external catalog strain. All shape
// reconciliation happens in Normalize; nothing downstream looks at the raw
// payload again.
type Record struct {
	ExternalID     string   `json:"external_id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	THC            string   `json:"thc"`
	CBD            string   `json:"cbd"`
	Effects        []string `json:"effects"`
	Flavors        []string `json:"flavors"`
	Description    string   `json:"description"`
	GrowDifficulty string   `json:"grow_difficulty"`
	FloweringText  string   `json:"flowering_text"`
	ImageURL       string   `json:"image_url"`
}

// External mirrors the catalog API's wire shape, carrying every field-name
// variant the API has been observed to emit. Values that arrive as either a
// number or a string decode through flexString; list-or-comma-string fields
// decode through flexStrings.
type External struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`

	Name       string `json:"name"`
	StrainName string `json:"strain_name"`

	Type string `json:"type"`
	Race string `json:"race"`

	THC      flexString `json:"thc"`
	THCLevel flexString `json:"thc_level"`
	CBD      flexString `json:"cbd"`
	CBDLevel flexString `json:"cbd_level"`

	Effects flexStrings `json:"effects"`
	Flavors flexStrings `json:"flavors"`
	Flavor  flexStrings `json:"flavor"`

	Description  flexStrings `json:"description"`
	Descriptions flexStrings `json:"descriptions"`

	GrowDifficulty string `json:"grow_difficulty"`
	Difficulty     string `json:"growDifficulty"`

	FloweringTime flexString `json:"flowering_time"`
	Flowering     flexString `json:"floweringTime"`

	ImageURL string `json:"img_url"`
	Image    string `json:"imageUrl"`
}

// Normalize is the single constructor turning a wire record into a Record.
// It fails when the record lacks an identifier or a name; partial salvage of
// malformed records is deliberately not attempted.
func Normalize(ext External) (Record, error) {
	id := firstNonEmpty(ext.MongoID, ext.ID)
	name := strings.TrimSpace(firstNonEmpty(ext.Name, ext.StrainName))
	if id == "" || name == "" {
		return Record{}, fmt.Errorf("%w: missing id or name (id=%q name=%q)", ErrInvalidRecord, id, name)
	}

	return Record{
		ExternalID:     id,
		Name:           name,
		Type:           strings.ToLower(firstNonEmpty(ext.Type, ext.Race)),
		THC:            firstNonEmpty(string(ext.THC), string(ext.THCLevel)),
		CBD:            firstNonEmpty(string(ext.CBD), string(ext.CBDLevel)),
		Effects:        firstNonEmptySlice(ext.Effects, nil),
		Flavors:        firstNonEmptySlice(ext.Flavors, ext.Flavor),
		Description:    strings.Join(firstNonEmptySlice(ext.Description, ext.Descriptions), "\n"),
		GrowDifficulty: strings.ToLower(firstNonEmpty(ext.GrowDifficulty, ext.Difficulty)),
		FloweringText:  firstNonEmpty(string(ext.FloweringTime), string(ext.Flowering)),
		ImageURL:       firstNonEmpty(ext.ImageURL, ext.Image),
	}, nil
}

// NormalizeBatch converts a page of wire records, rejecting the whole batch
// when any record fails validation.
func NormalizeBatch(exts []External) ([]Record, error) {
	records := make([]Record, 0, len(exts))
	for i, ext := range exts {
		rec, err := Normalize(ext)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptySlice(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}

// flexString decodes a JSON value that may be a string, a number, or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	return fmt.Errorf("catalog: cannot decode %s as string or number", data)
}

// flexStrings decodes a JSON value that may be an array of strings, a single
// string (optionally comma-separated), or null.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = trimAll(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.Contains(s, ",") {
			*f = trimAll(strings.Split(s, ","))
		} else if s != "" {
			*f = []string{s}
		}
		return nil
	}
	return fmt.Errorf("catalog: cannot decode %s as string list", data)
}

func trimAll(in []string) []string {
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
