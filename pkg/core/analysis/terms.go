package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// CommonTerms is the glossary vocabulary served by the terms endpoint.
var CommonTerms = []string{
	"영업이익률", "순이익률", "부채비율", "자기자본이익률(ROE)",
	"매출액", "영업이익", "순이익", "총자산", "자본총계",
}

// TermsExplainer asks the model for plain-language explanations of financial
// terms as a JSON term->explanation map.
type TermsExplainer struct {
	modelName string
}

func NewTermsExplainer(modelName string) *TermsExplainer {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &TermsExplainer{modelName: modelName}
}

// ExplainTerms returns one explanation per requested term. The model is asked
// for JSON; malformed output is repaired before decoding. Any failure yields
// a per-term degraded message instead of an error.
func (t *TermsExplainer) ExplainTerms(ctx context.Context, terms []string) map[string]string {
	text, err := t.generate(ctx, terms)
	if err != nil {
		return degradedTerms(terms, err)
	}

	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return degradedTerms(terms, err)
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return degradedTerms(terms, err)
	}

	explanations := make(map[string]string, len(terms))
	for _, term := range terms {
		if e, ok := parsed[term]; ok && e != "" {
			explanations[term] = e
		} else {
			explanations[term] = fmt.Sprintf("%s에 대한 설명을 불러올 수 없습니다.", term)
		}
	}
	return explanations
}

func (t *TermsExplainer) generate(ctx context.Context, terms []string) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(t.modelName)
	model.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(`다음 재무용어들을 일반인도 쉽게 이해할 수 있도록 설명해주세요:
%s

각 용어마다 간단한 정의, 실생활 예시, 투자할 때 왜 중요한지를 2~3문장으로 묶어 설명하고,
용어를 키로 하는 JSON 객체 하나로만 답해주세요.`, strings.Join(terms, ", "))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("terms generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("terms generation returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), nil
}

func degradedTerms(terms []string, cause error) map[string]string {
	out := make(map[string]string, len(terms))
	for _, term := range terms {
		out[term] = fmt.Sprintf("설명을 불러올 수 없습니다: %v", cause)
	}
	return out
}
