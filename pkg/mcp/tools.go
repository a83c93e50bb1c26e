package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// Tool name constants.
const (
	ToolNameLint  = "tsguard_lint"
	ToolNameRules = "tsguard_rules"
)

// Input size limits.
const (
	// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrUnsupportedLanguage indicates the language is neither typescript nor tsx.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Input types (auto-generate JSON schemas via struct tags).

// LintInput is the input schema for the tsguard_lint tool.
type LintInput struct {
	Code     string         `json:"code"               jsonschema:"TypeScript source code to lint"`
	Language string         `json:"language,omitempty" jsonschema:"typescript (default) or tsx"`
	Rules    map[string]any `json:"rules,omitempty"    jsonschema:"rule id to options object; listed rules run at error severity"`
}

// RulesInput is the input schema for the tsguard_rules tool.
type RulesInput struct{}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateCodeInput checks code input constraints and resolves the language.
func validateCodeInput(code, language string) (string, error) {
	if code == "" {
		return "", ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	switch language {
	case "", syntax.LangTypeScript, "ts":
		return syntax.LangTypeScript, nil
	case syntax.LangTSX:
		return syntax.LangTSX, nil
	default:
		return "", fmt.Errorf("%w: %q (use typescript or tsx)", ErrUnsupportedLanguage, language)
	}
}

// syntheticFilename creates a filename from a language identifier for the parser.
func syntheticFilename(language string) string {
	if language == syntax.LangTSX {
		return "input.tsx"
	}

	return "input.ts"
}
