package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FieldVariants(t *testing.T) {
	payload := `{
		"_id": "64d2a41b9f1c2a0007e3b1aa",
		"strain_name": " OG Kush ",
		"race": "Hybrid",
		"thc_level": "18%",
		"cbd": 0.3,
		"effects": ["Relaxed", " Happy "],
		"flavor": "earthy, pine",
		"description": "A classic.",
		"growDifficulty": "Moderate",
		"floweringTime": "8-9 weeks",
		"imageUrl": "https://example.com/kush.jpg"
	}`

	var ext External
	require.NoError(t, json.Unmarshal([]byte(payload), &ext))

	rec, err := Normalize(ext)
	require.NoError(t, err)

	assert.Equal(t, "64d2a41b9f1c2a0007e3b1aa", rec.ExternalID)
	assert.Equal(t, "OG Kush", rec.Name)
	assert.Equal(t, "hybrid", rec.Type)
	assert.Equal(t, "18%", rec.THC)
	assert.Equal(t, "0.3", rec.CBD)
	assert.Equal(t, []string{"Relaxed", "Happy"}, rec.Effects)
	assert.Equal(t, []string{"earthy", "pine"}, rec.Flavors)
	assert.Equal(t, "A classic.", rec.Description)
	assert.Equal(t, "moderate", rec.GrowDifficulty)
	assert.Equal(t, "8-9 weeks", rec.FloweringText)
	assert.Equal(t, "https://example.com/kush.jpg", rec.ImageURL)
}

func TestNormalize_PlainFieldNames(t *testing.T) {
	var ext External
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "abc-1",
		"name": "Blue Dream",
		"type": "sativa",
		"thc": "20%",
		"flavors": ["berry"]
	}`), &ext))

	rec, err := Normalize(ext)
	require.NoError(t, err)
	assert.Equal(t, "abc-1", rec.ExternalID)
	assert.Equal(t, "Blue Dream", rec.Name)
	assert.Equal(t, "sativa", rec.Type)
	assert.Equal(t, []string{"berry"}, rec.Flavors)
}

func TestNormalize_MissingIdentity(t *testing.T) {
	_, err := Normalize(External{Name: "Nameless"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Normalize(External{ID: "abc-1"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Normalize(External{ID: "abc-1", Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestNormalizeBatch_RejectsWholeBatch(t *testing.T) {
	exts := []External{
		{ID: "a", Name: "Alpha"},
		{ID: "b"}, // missing name
		{ID: "c", Name: "Gamma"},
	}

	records, err := NormalizeBatch(exts)
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Nil(t, records)
}

func TestFlexString(t *testing.T) {
	var f flexString
	require.NoError(t, json.Unmarshal([]byte(`"18%"`), &f))
	assert.Equal(t, flexString("18%"), f)

	require.NoError(t, json.Unmarshal([]byte(`19.5`), &f))
	assert.Equal(t, flexString("19.5"), f)

	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Equal(t, flexString(""), f)

	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &f))
}

func TestFlexStrings(t *testing.T) {
	var f flexStrings
	require.NoError(t, json.Unmarshal([]byte(`["a", " b ", ""]`), &f))
	assert.Equal(t, flexStrings{"a", "b"}, f)

	require.NoError(t, json.Unmarshal([]byte(`"earthy, pine"`), &f))
	assert.Equal(t, flexStrings{"earthy", "pine"}, f)

	require.NoError(t, json.Unmarshal([]byte(`"single"`), &f))
	assert.Equal(t, flexStrings{"single"}, f)

	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Nil(t, []string(f))

	assert.Error(t, json.Unmarshal([]byte(`42`), &f))
}
