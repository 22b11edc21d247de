package llm

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v2"
)

// rawJSONer is implemented by SDK response types that keep the raw payload.
type rawJSONer interface {
	RawJSON() string
}

// Text reduces a backend result to its completion text. Shapes are checked
// in priority order:
//
//  1. a plain string
//  2. a value carrying a content field (*Response, *anthropic.Message)
//  3. a value carrying a nested message with content or text
//     (*openai.ChatCompletion)
//  4. a value carrying a list of generation candidates (*openai.Completion)
//
// Anything else, including a shape with no choices, is rendered whole: the
// raw JSON when the SDK kept it, fmt.Sprint otherwise.
func Text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case *Response:
		if v == nil {
			return ""
		}
		return v.Content
	case *anthropic.Message:
		if v == nil {
			return ""
		}
		var b strings.Builder
		for _, block := range v.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		return b.String()
	case *openai.ChatCompletion:
		if v == nil {
			return ""
		}
		if len(v.Choices) > 0 {
			msg := v.Choices[0].Message
			if msg.Content == "" && msg.Refusal != "" {
				return msg.Refusal
			}
			return msg.Content
		}
	case *openai.Completion:
		if v == nil {
			return ""
		}
		if len(v.Choices) > 0 {
			return v.Choices[0].Text
		}
	}

	if r, ok := raw.(rawJSONer); ok {
		if s := r.RawJSON(); s != "" {
			return s
		}
	}
	return fmt.Sprint(raw)
}
