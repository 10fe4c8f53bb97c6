package service

import (
	"fmt"

	"moviequiz/internal/domain"
)

// Prompt templates for the four pipeline stages. The quiz prompts pin the
// model to one of the two dialects the parser supports; the dialect used to
// build the prompt must be the dialect passed to the parser.

func normalizeTitlePrompt(input string) string {
	return fmt.Sprintf(
		"Normalize this movie title to its official capitalization. "+
			"Reply with the title only, no commentary: %s", input)
}

func backgroundPrompt(meta *domain.MetadataRecord) string {
	return fmt.Sprintf(`Write a concise movie background paragraph using the following metadata:

Title: %s (%s)
Genre: %s
Director: %s
Actors: %s
Plot: %s

Include:
- Context about the film production
- Short background about the director
- Short background about the main actors`,
		meta.Title, meta.Year, meta.Genre, meta.Director, meta.Actors, meta.Plot)
}

func synopsisPrompt(title string) string {
	return fmt.Sprintf("Write a short study guide style summary of the movie '%s'.", title)
}

func quizPromptJSON(synopsis string) string {
	return fmt.Sprintf(`Create a 4-question multiple choice quiz about the following movie background info:

%s

Return the quiz in JSON with the structure:
{
  "questions": [
    {
      "question": "...",
      "choices": ["...", "...", "...", "..."],
      "answer": "B",
      "explanation": "..."
    }
  ]
}

Each question must have exactly 4 choices and "answer" must be the letter (A, B, C or D) of the correct choice.`, synopsis)
}

func quizPromptText(synopsis string) string {
	return fmt.Sprintf(`Create a 4-question multiple choice quiz about the following movie background info:

%s

Return plain text only, one block per question separated by a blank line, in exactly this shape:

Q1: <question text>
A) <option>
B) <option>
C) <option>
D) <option>
Answer: <letter>
Explanation: <text>`, synopsis)
}

func quizPrompt(synopsis string, dialect domain.Dialect) string {
	if dialect == domain.DialectText {
		return quizPromptText(synopsis)
	}
	return quizPromptJSON(synopsis)
}
