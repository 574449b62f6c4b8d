package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
  "foodName": "Apple",
  "calories": 95,
  "ingredients": ["apple"],
  "riskLevel": "low",
  "riskReason": "Whole fruit, unprocessed.",
  "humorComment": "An apple a day keeps the scanner away.",
  "brandNote": null,
  "burnOff": {
    "treadmill": "14 min",
    "cycling": "10 min (3.3 km)",
    "walking": "20 min (1.7 km)",
    "running": "8 min (1.3 km)",
    "burnComment": "One apple, one podcast episode of walking."
  }
}`

func TestParseModelResponse_Valid(t *testing.T) {
	t.Parallel()

	res, err := ParseModelResponse(validResponse)
	require.NoError(t, err)
	assert.Equal(t, "Apple", res.FoodName)
	assert.Equal(t, 95, res.Calories)
	assert.Equal(t, []string{"apple"}, res.Ingredients)
	assert.Equal(t, "low", res.RiskLevel)
	assert.Nil(t, res.BrandNote)
	assert.Equal(t, "14 min", res.BurnOff.Treadmill)
}

func TestParseModelResponse_StripsCodeFences(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + validResponse + "\n```"
	res, err := ParseModelResponse(fenced)
	require.NoError(t, err)
	assert.Equal(t, "Apple", res.FoodName)
	assert.Equal(t, 95, res.Calories)
}

func TestParseModelResponse_StripsUppercaseFence(t *testing.T) {
	t.Parallel()

	fenced := "```JSON\n" + validResponse + "\n```"
	_, err := ParseModelResponse(fenced)
	require.NoError(t, err)
}

func TestParseModelResponse_CoercesCalories(t *testing.T) {
	t.Parallel()

	res, err := ParseModelResponse(withField(`"calories": "226"`))
	require.NoError(t, err)
	assert.Equal(t, 226, res.Calories)

	res, err = ParseModelResponse(withField(`"calories": 95.7`))
	require.NoError(t, err)
	assert.Equal(t, 95, res.Calories)
}

func TestParseModelResponse_BrandNotePassthrough(t *testing.T) {
	t.Parallel()

	res, err := ParseModelResponse(withField(`"brandNote": "per 40g sachet, published data"`))
	require.NoError(t, err)
	require.NotNil(t, res.BrandNote)
	assert.Equal(t, "per 40g sachet, published data", *res.BrandNote)
}

func TestParseModelResponse_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I am sorry, I cannot identify this food."},
		{"empty object", "{}"},
		{"missing riskLevel", withoutField("riskLevel")},
		{"unknown riskLevel", withField(`"riskLevel": "extreme"`)},
		{"non-array ingredients", withField(`"ingredients": "apple"`)},
		{"missing foodName", withoutField("foodName")},
		{"missing calories", withoutField("calories")},
		{"non-numeric calories", withField(`"calories": "a lot"`)},
		{"negative calories", withField(`"calories": -95`)},
		{"negative string calories", withField(`"calories": "-5"`)},
		{"missing burnOff", withoutField("burnOff")},
		{"incomplete burnOff", withField(`"burnOff": {"treadmill": "14 min"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModelResponse(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

// withField returns validResponse with one top-level field replaced.
func withField(field string) string {
	m := decodeValid()
	var k string
	var v any
	mustUnmarshalField(field, &k, &v)
	m[k] = v
	return mustMarshal(m)
}

// withoutField returns validResponse with one top-level field removed.
func withoutField(key string) string {
	m := decodeValid()
	delete(m, key)
	return mustMarshal(m)
}

func decodeValid() map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(validResponse), &m); err != nil {
		panic(err)
	}
	return m
}

func mustUnmarshalField(field string, k *string, v *any) {
	var m map[string]any
	if err := json.Unmarshal([]byte("{"+field+"}"), &m); err != nil {
		panic(err)
	}
	for key, val := range m {
		*k, *v = key, val
	}
}

func mustMarshal(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}
