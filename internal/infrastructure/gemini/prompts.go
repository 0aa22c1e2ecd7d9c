package gemini

import "github.com/google/generative-ai-go/genai"

const productPrompt = `You are reading a photo of a grocery product or its shelf price tag.
Return the product name, its price as a number, a short lowercase category
(for example "dairy", "rice", "soft_drinks") and the package size.
measureUnit must be one of g, kg, ml, l, pcs. Leave measureValue and
measureUnit empty when the package size is not visible.`

const listPrompt = `You are reading a photo of a handwritten or printed shopping list.
Return every item name in the order it appears. Drop quantities and units
from the names. Return an empty array when no list is visible.`

var productSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":     {Type: genai.TypeString, Description: "product name as printed"},
		"price":    {Type: genai.TypeNumber, Description: "price in the local currency"},
		"category": {Type: genai.TypeString},
		"measureValue": {
			Type:     genai.TypeNumber,
			Nullable: true,
		},
		"measureUnit": {
			Type:     genai.TypeString,
			Format:   "enum",
			Enum:     []string{"g", "kg", "ml", "l", "pcs"},
			Nullable: true,
		},
	},
	Required: []string{"name", "price", "category"},
}

var listSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}
