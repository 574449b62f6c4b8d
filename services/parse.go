package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// BurnOff is the exercise-equivalence breakdown the model returns alongside
// the calorie estimate. All fields are "N/A" when the food was unidentified.
type BurnOff struct {
	Treadmill   string `json:"treadmill"`
	Cycling     string `json:"cycling"`
	Walking     string `json:"walking"`
	Running     string `json:"running"`
	BurnComment string `json:"burnComment"`
}

// ScanResult is the validated output of one model call. This is the only
// shape the rest of the system ever sees; anything the model returns that
// does not fit it is rejected, never coerced through.
type ScanResult struct {
	FoodName     string   `json:"foodName"`
	Calories     int      `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	RiskLevel    string   `json:"riskLevel"`
	RiskReason   string   `json:"riskReason"`
	HumorComment string   `json:"humorComment"`
	BrandNote    *string  `json:"brandNote"`
	BurnOff      BurnOff  `json:"burnOff"`
}

var (
	fenceOpenRe  = regexp.MustCompile("(?i)```json\n?")
	fenceCloseRe = regexp.MustCompile("```\n?")
)

// ParseModelResponse turns the model's raw text into a ScanResult. Markdown
// code fences are tolerated and stripped; everything else is strict: a parse
// failure or a missing/mistyped required field yields ErrMalformedResponse
// (wrapped with the cause, which callers log but never expose).
func ParseModelResponse(raw string) (*ScanResult, error) {
	cleaned := fenceOpenRe.ReplaceAllString(raw, "")
	cleaned = fenceCloseRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	foodName, _ := parsed["foodName"].(string)
	if foodName == "" {
		return nil, fmt.Errorf("%w: foodName", ErrMalformedResponse)
	}

	calories, ok := coerceInt(parsed["calories"])
	if !ok {
		return nil, fmt.Errorf("%w: calories", ErrMalformedResponse)
	}
	if calories < 0 {
		return nil, fmt.Errorf("%w: negative calories", ErrMalformedResponse)
	}

	rawIngredients, ok := parsed["ingredients"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: ingredients", ErrMalformedResponse)
	}
	// Element types are passed through as rendered, not re-validated;
	// non-string entries become their string form.
	ingredients := make([]string, 0, len(rawIngredients))
	for _, v := range rawIngredients {
		if s, ok := v.(string); ok {
			ingredients = append(ingredients, s)
		} else {
			ingredients = append(ingredients, fmt.Sprint(v))
		}
	}

	riskLevel, _ := parsed["riskLevel"].(string)
	switch riskLevel {
	case "high", "medium", "low":
	default:
		return nil, fmt.Errorf("%w: riskLevel %q", ErrMalformedResponse, riskLevel)
	}

	riskReason, _ := parsed["riskReason"].(string)
	if riskReason == "" {
		return nil, fmt.Errorf("%w: riskReason", ErrMalformedResponse)
	}
	humorComment, _ := parsed["humorComment"].(string)
	if humorComment == "" {
		return nil, fmt.Errorf("%w: humorComment", ErrMalformedResponse)
	}

	rawBurnOff, ok := parsed["burnOff"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: burnOff", ErrMalformedResponse)
	}
	burnOff := BurnOff{
		Treadmill:   stringify(rawBurnOff["treadmill"]),
		Cycling:     stringify(rawBurnOff["cycling"]),
		Walking:     stringify(rawBurnOff["walking"]),
		Running:     stringify(rawBurnOff["running"]),
		BurnComment: stringify(rawBurnOff["burnComment"]),
	}
	if burnOff.Treadmill == "" || burnOff.Cycling == "" || burnOff.Walking == "" ||
		burnOff.Running == "" || burnOff.BurnComment == "" {
		return nil, fmt.Errorf("%w: burnOff fields", ErrMalformedResponse)
	}

	var brandNote *string
	if s, ok := parsed["brandNote"].(string); ok {
		brandNote = &s
	}

	return &ScanResult{
		FoodName:     foodName,
		Calories:     calories,
		Ingredients:  ingredients,
		RiskLevel:    riskLevel,
		RiskReason:   riskReason,
		HumorComment: humorComment,
		BrandNote:    brandNote,
		BurnOff:      burnOff,
	}, nil
}

// coerceInt accepts anything numeric-coercible the way the response contract
// allows: a JSON number, or a string holding one.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
