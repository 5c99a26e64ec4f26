package models

import "time"

// Message roles as they appear on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in an interview conversation. Messages are never
// mutated after creation.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	ID        string     `json:"id,omitempty"`
}

// Conversation is an ordered sequence of messages. Insertion order is turn
// order and is preserved through persistence.
type Conversation struct {
	Messages []Message `json:"messages"`
}

// CriterionKey identifies one of the fixed interview-evaluation dimensions.
type CriterionKey string

// The eight evaluation dimensions scored for every conversation.
const (
	CriterionBusinessAcumen      CriterionKey = "business_acumen"
	CriterionUserCentricity      CriterionKey = "user_centricity"
	CriterionProductVision       CriterionKey = "product_vision"
	CriterionClarifyingQuestions CriterionKey = "clarifying_questions"
	CriterionTradeoffs           CriterionKey = "ability_to_discuss_tradeoffs_and_possible_errors"
	CriterionPassionCreativity   CriterionKey = "passion_and_creativity"
	CriterionCommunication       CriterionKey = "communication"
	CriterionCollaboration       CriterionKey = "collaboration"
)

// AnalysisScore is the graded result for a single criterion. Description
// carries the rubric band text the score was judged against.
type AnalysisScore struct {
	Name        string `json:"name"`
	HumanName   string `json:"human_name"`
	Description string `json:"description"`
	Score       int    `json:"score"`
	Feedback    string `json:"feedback"`
}

// ConversationAnalysis maps each criterion to its score. A nil map means the
// conversation has not been analyzed yet.
type ConversationAnalysis map[CriterionKey]*AnalysisScore

// ConversationOverallAnalysis is the durable record for one conversation:
// the conversation itself plus analysis fields that stay absent until the
// scoring pipeline has run exactly once.
type ConversationOverallAnalysis struct {
	Conversation    Conversation         `json:"conversation"`
	Analysis        ConversationAnalysis `json:"analysis,omitempty"`
	OverallScore    *int                 `json:"overall_score,omitempty"`
	OverallFeedback *string              `json:"overall_feedback,omitempty"`
}

// Analyzed reports whether the record already carries computed analysis.
func (r ConversationOverallAnalysis) Analyzed() bool {
	return len(r.Analysis) > 0
}
