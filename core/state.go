package core

import "strings"

// Label is the closed set of routing categories.
type Label int

const (
	// LabelUnrecognized is any classifier output outside the known set.
	LabelUnrecognized Label = iota
	// LabelCourseInfo routes to the course catalog.
	LabelCourseInfo
	// LabelWebSearch routes to the open web.
	LabelWebSearch
)

// Literal classifier tokens.
const (
	CourseInfoToken = "course_info"
	WebSearchToken  = "web_search"
)

// Classification is the tagged result of classifying a question.
// Raw holds the normalized classifier output so unrecognized values can be reported.
type Classification struct {
	Label Label
	Raw   string
}

// ParseClassification normalizes raw classifier output (trim, lower-case)
// and maps it onto a Label. Only exact token matches are recognized.
func ParseClassification(raw string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case CourseInfoToken:
		return Classification{Label: LabelCourseInfo, Raw: normalized}
	case WebSearchToken:
		return Classification{Label: LabelWebSearch, Raw: normalized}
	default:
		return Classification{Label: LabelUnrecognized, Raw: normalized}
	}
}

// String returns the normalized label text.
func (c Classification) String() string {
	return c.Raw
}

// SourceTool names the capability that produced the last answer.
type SourceTool string

const (
	SourceCourseInfo SourceTool = "course_info_tool"
	SourceWebSearch  SourceTool = "web_search_tool"
	SourceNone       SourceTool = "none"
)

// FallbackAnswer is returned when a question cannot be classified.
const FallbackAnswer = "Request Failed! Please rephrase."

// State is the unit of work threaded through one orchestration run.
// It is created per request, mutated by each stage and discarded afterwards.
type State struct {
	Conversation     *Conversation
	Classification   Classification
	SourceTool       SourceTool
	RetrievedContext string
}

// NewState creates a fresh state seeded with the user's question.
func NewState(question string) *State {
	return &State{
		Conversation: NewConversation(question),
	}
}

// Question returns the content of the most recent user message.
func (s *State) Question() string {
	m, _ := s.Conversation.LastOf(RoleUser)
	return m.Content
}

// Answer returns the content of the last message in the conversation.
func (s *State) Answer() string {
	m, _ := s.Conversation.Last()
	return m.Content
}
