package orchestrator

import (
	"github.com/tmc/langchaingo/prompts"
)

// Persona introduces the assistant in every course answer prompt.
const Persona = "You are Course ChatBot, an assistant for answering student questions about courses. " +
	"Use the provided course catalog context to answer. " +
	"If the answer is not found, say \"I don't know\"."

const classifierText = "You are an expert at classifying user questions. " +
	"Classify the user's final question as either 'course_info' or 'web_search'. " +
	"'course_info' is for questions about university courses (e.g., prerequisites, schedules, descriptions). " +
	"'web_search' is for general knowledge questions (e.g., \"who is Ada Lovelace?\"). " +
	"Your response must be ONLY 'course_info' or 'web_search'.\n\n" +
	"Question: {{.question}}\n" +
	"Classification:"

const courseText = Persona + "\n\n" +
	"Use the following context to answer: {{.context}}\n\n" +
	"Question: {{.question}}"

const summarizerText = "Answer the question in one or two lines, using only the context below. " +
	"Do not add facts that are not in the context. " +
	"If the context does not contain the answer, say that the context does not contain the answer.\n\n" +
	"Context: {{.context}}\n\n" +
	"Question: {{.question}}\n" +
	"Short answer:"

var (
	classifierPrompt = prompts.NewPromptTemplate(classifierText, []string{"question"})
	coursePrompt     = prompts.NewPromptTemplate(courseText, []string{"context", "question"})
	summarizerPrompt = prompts.NewPromptTemplate(summarizerText, []string{"context", "question"})
)

func renderClassifier(question string) (string, error) {
	return classifierPrompt.Format(map[string]any{"question": question})
}

func renderCourse(passages, question string) (string, error) {
	return coursePrompt.Format(map[string]any{"context": passages, "question": question})
}

func renderSummarizer(evidence, question string) (string, error) {
	return summarizerPrompt.Format(map[string]any{"context": evidence, "question": question})
}
