package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// NoAnswerMarker is what chat backends are told to reply when the passage
// does not contain the answer.
const NoAnswerMarker = "NO ANSWER"

var errZeroLength = errors.New("summary length bound is zero")

func summaryPrompt(text string, maxLen, minLen int) (string, error) {
	if maxLen <= 0 {
		return "", errZeroLength
	}
	return fmt.Sprintf("Summarize the following text in %d to %d words. Return only the summary, no preamble.\n\n%s", minLen, maxLen, text), nil
}

func questionsPrompt(prompt string) string {
	return "Follow the instruction below. Write short comprehension questions that the text itself answers, one question per line, no numbering, no extra text.\n\n" + prompt
}

func answerPrompt(question, passage string) string {
	return "Answer the question using only the passage. Reply with the shortest exact answer span. If the passage does not contain the answer, reply exactly " + NoAnswerMarker + ".\n\nPassage:\n" + passage + "\n\nQuestion: " + question
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*\x{2022}]|\d+[.)]|Q\d*[:.)])\s*`)

func parseQuestions(out string) []Generation {
	var gens []Generation
	for _, ln := range splitLines(stripCodeFences(out)) {
		ln = strings.TrimSpace(listMarker.ReplaceAllString(ln, ""))
		if ln == "" {
			continue
		}
		gens = append(gens, Generation{Text: ln})
	}
	return gens
}

func parseAnswer(out string) (string, bool) {
	out = strings.TrimSpace(stripCodeFences(out))
	if out == "" {
		return "", false
	}
	if strings.EqualFold(strings.TrimRight(out, "."), NoAnswerMarker) {
		return "", false
	}
	return out, true
}

func parseSummary(out string) (string, error) {
	out = strings.TrimSpace(stripCodeFences(out))
	if out == "" {
		return "", errors.New("empty summary")
	}
	return out, nil
}

func stripCodeFences(s string) string {
	// Remove markdown code fences like ```text or ```
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		firstNewline := strings.Index(s, "\n")
		if firstNewline == -1 {
			return strings.Trim(s, "`")
		}
		s = s[firstNewline+1:]
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}

	return s
}

func splitLines(s string) []string {
	var lines []string
	cur := ""
	for _, r := range s {
		if r == '\n' || r == '\r' {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
