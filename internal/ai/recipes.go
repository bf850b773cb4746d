// Package ai suggests recipes for a crop type. With a Gemini API key the
// suggestions come from the model; without one, a deterministic canned set
// keeps the endpoint functional offline.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Recipe is one consumer-facing suggestion.
type Recipe struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PrepTime    string `json:"prepTime"`
	Servings    int    `json:"servings"`
	Difficulty  string `json:"difficulty"`
}

// RecipeSuggester returns recipes for a crop type.
type RecipeSuggester interface {
	Suggest(ctx context.Context, cropType string) ([]Recipe, error)
}

// GeminiSuggester asks Gemini for recipe ideas using the official SDK.
type GeminiSuggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiSuggester creates a Gemini-backed suggester.
func NewGeminiSuggester(ctx context.Context, apiKey, modelName string) (*GeminiSuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &GeminiSuggester{client: client, model: model}, nil
}

// Close closes the client connection
func (g *GeminiSuggester) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

const recipePrompt = `Suggest 3 recipes using %s as the main ingredient.
Respond with a JSON array of objects with keys:
"title", "description", "prepTime" (e.g. "15 min"), "servings" (number), "difficulty" (Easy|Medium|Hard).`

func (g *GeminiSuggester) Suggest(ctx context.Context, cropType string) ([]Recipe, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(recipePrompt, cropType)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	var recipes []Recipe
	if err := json.Unmarshal([]byte(fullText), &recipes); err != nil {
		return nil, fmt.Errorf("unparseable gemini response: %w", err)
	}
	for i := range recipes {
		recipes[i].ID = fmt.Sprintf("recipe-%d", i+1)
	}
	return recipes, nil
}

// CannedSuggester serves a fixed recipe set per produce family. It backs the
// endpoint when no API key is configured and doubles as the test fixture.
type CannedSuggester struct{}

func (CannedSuggester) Suggest(ctx context.Context, cropType string) ([]Recipe, error) {
	lower := strings.ToLower(cropType)
	switch {
	case strings.Contains(lower, "strawberr"):
		return []Recipe{
			{ID: "recipe-1", Title: "Strawberry Spinach Salad", Description: "Fresh strawberries and spinach tossed with a light vinaigrette dressing.", PrepTime: "15 min", Servings: 4, Difficulty: "Easy"},
			{ID: "recipe-2", Title: "Strawberry Smoothie Bowl", Description: "Creamy strawberry smoothie topped with granola and fresh fruit.", PrepTime: "10 min", Servings: 2, Difficulty: "Easy"},
			{ID: "recipe-3", Title: "Strawberry Shortcake", Description: "Classic dessert with layers of cake, fresh strawberries, and whipped cream.", PrepTime: "30 min", Servings: 6, Difficulty: "Medium"},
		}, nil
	case strings.Contains(lower, "tomato"):
		return []Recipe{
			{ID: "recipe-1", Title: "Caprese Salad", Description: "Sliced tomatoes with fresh mozzarella, basil and olive oil.", PrepTime: "10 min", Servings: 4, Difficulty: "Easy"},
			{ID: "recipe-2", Title: "Roasted Tomato Soup", Description: "Slow-roasted tomatoes blended into a rich, warming soup.", PrepTime: "45 min", Servings: 4, Difficulty: "Medium"},
			{ID: "recipe-3", Title: "Tomato Bruschetta", Description: "Toasted bread topped with diced tomatoes, garlic and basil.", PrepTime: "15 min", Servings: 6, Difficulty: "Easy"},
		}, nil
	case strings.Contains(lower, "apple"):
		return []Recipe{
			{ID: "recipe-1", Title: "Apple Crumble", Description: "Baked apples under a buttery oat topping.", PrepTime: "40 min", Servings: 6, Difficulty: "Easy"},
			{ID: "recipe-2", Title: "Waldorf Salad", Description: "Crisp apples, celery, grapes and walnuts in a light dressing.", PrepTime: "15 min", Servings: 4, Difficulty: "Easy"},
			{ID: "recipe-3", Title: "Apple Cider Pork Chops", Description: "Pan-seared pork chops finished in an apple cider glaze.", PrepTime: "35 min", Servings: 4, Difficulty: "Medium"},
		}, nil
	default:
		return []Recipe{
			{ID: "recipe-1", Title: fmt.Sprintf("Fresh %s Salad", cropType), Description: fmt.Sprintf("A simple salad highlighting fresh %s.", lower), PrepTime: "15 min", Servings: 4, Difficulty: "Easy"},
			{ID: "recipe-2", Title: fmt.Sprintf("Roasted %s", cropType), Description: fmt.Sprintf("Oven-roasted %s with olive oil and herbs.", lower), PrepTime: "30 min", Servings: 4, Difficulty: "Easy"},
		}, nil
	}
}

// NewSuggester picks the Gemini suggester when a key is configured and falls
// back to the canned set otherwise.
func NewSuggester(ctx context.Context, apiKey, modelName string) RecipeSuggester {
	if apiKey == "" {
		log.Println("💡 Recipes: no GEMINI_API_KEY, serving canned suggestions")
		return CannedSuggester{}
	}
	suggester, err := NewGeminiSuggester(ctx, apiKey, modelName)
	if err != nil {
		log.Printf("⚠️ Recipes: Gemini unavailable (%v), serving canned suggestions", err)
		return CannedSuggester{}
	}
	log.Println("✅ Recipes: Gemini suggester initialized")
	return suggester
}
