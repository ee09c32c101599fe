package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed prompts/parse.txt
	parsePrompt string
	//go:embed prompts/optimize.txt
	optimizePrompt string
)

const (
	// ParseTemperature keeps extraction close to deterministic.
	ParseTemperature float32 = 0.1
	// OptimizeTemperature allows light rephrasing.
	OptimizeTemperature float32 = 0.2
)

// ParsePrompt returns the system prompt for converting free text into a resume document.
func ParsePrompt() string {
	return parsePrompt
}

// OptimizePrompt returns the system prompt for rewriting a resume against a job description.
func OptimizePrompt() string {
	return optimizePrompt
}

// OptimizeUserMessage builds the user turn for tailoring.
func OptimizeUserMessage(jobDescription string, documentJSON []byte) string {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		jd = "N/A"
	}
	return fmt.Sprintf("JOB DESCRIPTION:\n%s\n\nORIGINAL RESUME JSON:\n%s\n\nReturn the complete, rewritten resume JSON.", jd, documentJSON)
}
