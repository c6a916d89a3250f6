package prompts

import "fmt"

const analysisTemplate = "Do a comprehensive, detailed analysis on the topic of %s. and provide a summary of the key points. " +
	"The analysis should be thorough and cover all relevant aspects of the topic. " +
	"The summary should be concise and highlight the most important findings. "

// Analysis renders the detailed-analysis prompt for topic
func Analysis(topic string) string {
	return fmt.Sprintf(analysisTemplate, topic)
}
