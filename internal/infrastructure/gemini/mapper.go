package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// productPayload is the JSON object the model is asked to return
type productPayload struct {
	Name         string           `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Category     string           `json:"category"`
	MeasureValue *decimal.Decimal `json:"measureValue"`
	MeasureUnit  string           `json:"measureUnit"`
}

// ParseProductResponse converts the model output into a product record.
// Unknown units and non-positive or out-of-range sizes are dropped rather than
// rejected.
func ParseProductResponse(text string) (*domain.ProductRecord, error) {
	var payload productPayload
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrAnalysisFailed, err)
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: response has no product name", domain.ErrAnalysisFailed)
	}
	if payload.Price == nil {
		return nil, fmt.Errorf("%w: response has no price", domain.ErrAnalysisFailed)
	}
	if payload.Price.IsNegative() {
		return nil, fmt.Errorf("%w: negative price %s", domain.ErrAnalysisFailed, payload.Price)
	}
	if !domain.AmountInRange(*payload.Price) {
		return nil, fmt.Errorf("%w: price out of range", domain.ErrAnalysisFailed)
	}

	record := &domain.ProductRecord{
		Name:     name,
		Price:    *payload.Price,
		Category: strings.TrimSpace(payload.Category),
	}
	if payload.MeasureValue != nil && payload.MeasureValue.IsPositive() && domain.AmountInRange(*payload.MeasureValue) {
		v := *payload.MeasureValue
		record.MeasureValue = &v
	}
	if unit, ok := domain.ParseMeasureUnit(payload.MeasureUnit); ok {
		record.MeasureUnit = unit
	}
	return record, nil
}

// ParseListResponse converts the model output into item names, skipping blanks.
func ParseListResponse(text string) ([]string, error) {
	var raw []string
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrListReadFailed, err)
	}
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite
// being asked for plain JSON.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
