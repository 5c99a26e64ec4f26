package service

import (
	"strings"

	"github.com/tryleetpro/leetpro-api/internal/models"
)

// Criterion is one interview-evaluation dimension: a stable key, a display
// name, the five-band rubric the model grades against, and a description of
// why the dimension matters.
type Criterion struct {
	Key         models.CriterionKey
	HumanName   string
	Rubric      string
	Description string
}

// rubricCriteria is the fixed, ordered set of dimensions scored for every
// conversation. The order is the evaluation order.
var rubricCriteria = []Criterion{
	{
		Key:       models.CriterionBusinessAcumen,
		HumanName: "Business Acumen",
		Rubric: `
Very Weak or Missing: Failed to show an understanding of the context of the business.
Weak: Struggled to tie back to business goals or company mission.
Neutral: Discussion around business goals was unclear or flawed.
Strong: Clearly discussed business goals, positioning, industry trends.
Very Strong: Nuanced understanding of the landscape, insightful arguments, logical assumptions.
`,
		Description: "Big tech PMs' major responsibility is growing a product. To do that intelligently, you have to understand how your product fits into larger business goals. Interviewers want to see your product design align with the company's mission - otherwise, your design isn't sustainable.",
	},
	{
		Key:       models.CriterionUserCentricity,
		HumanName: "User-Centricity",
		Rubric: `
Very Weak or Missing: Failed to consider the end-user.
Weak: Struggled to anchor answer on end-users despite guidance.
Neutral: Attempted user-centric design, but missed key points.
Strong: Discussed pain points and opportunities, prioritized appropriately.
Very Strong: Analyzed users accurately and completely, prioritized effectively, and tied back to users throughout.
`,
		Description: "One anchor point for good PM work is the company's business goals. The other is the end-users. Interviewers want to see you orient yourself to these two poles throughout - but at the end of the day, you can't lose by focusing on the customer.",
	},
	{
		Key:       models.CriterionProductVision,
		HumanName: "Product Vision",
		Rubric: `
Very Weak or Missing: Failed to discuss the future of the product.
Weak: Struggled to articulate a vision for the future.
Neutral: Laid out a possible future with some minor errors.
Strong: Displayed thoughtfulness and intuition in articulating the product vision.
Very Strong: Exemplary product intuition; strong perspective, compelling arguments backed by data and strongly tied to UX.
`,
		Description: "It's not enough to design a good product - good PMs play the long game because competitors move fast, and the landscape will always change. Interviewers look for you to articulate your vision for the product one, five, maybe even ten years into the future.",
	},
	{
		Key:       models.CriterionClarifyingQuestions,
		HumanName: "Clarifying Questions",
		Rubric: `
Very Weak or Missing: Failed to ask questions and/or interact with the interviewer.
Weak: Struggled to ask the right questions and/or made assumptions without clarifying.
Neutral: Asked good clarifying questions, but missed key points.
Strong: Asked insightful questions, adapted design to fit.
Very Strong: Asked surprising and insightful questions, came up with high-quality, novel design(s).
`,
		Description: "Designing a product is a problem-solving exercise. What problem are you trying to solve? To get at the root, you have to ask good questions.",
	},
	{
		Key:       models.CriterionTradeoffs,
		HumanName: "Ability to Discuss Tradeoffs and Possible Errors",
		Rubric: `
Very Weak or Missing: Failed to mention tradeoffs and possible errors.
Weak: Mentioned tradeoffs, but failed to justify decisions when pressed and/or made incorrect judgment calls.
Neutral: Covered possible errors and tradeoffs, but could have made better choices.
Strong: Logical tradeoff discussion, correctly identified possible errors.
Very Strong: Deep knowledge and intuition around tradeoffs; alternatives offered, pros and cons neatly summarized.
`,
		Description: "There will always be many possible opportunities to chase. The best way to arrive at a plan logically is to think through the tradeoffs of your decision -- and constantly check yourself for possible assumptions and errors. This will earn you big points in traditionally creative product design interviews.",
	},
	{
		Key:       models.CriterionPassionCreativity,
		HumanName: "Passion and Creativity",
		Rubric: `
Very Weak or Missing: Failed to show enthusiasm or creative thinking.
Weak: Solutions were bland, and/or the candidate didn't show interest in the problem.
Neutral: Displayed interest and reasonable insight, but nothing exceptional.
Strong: Extensive knowledge, enthusiasm, and creativity on display throughout the interview.
Very Strong: Gave inspired answers; showed clear passion.
`,
		Description: "Product questions are some of your best opportunities to show your culture fit. How? Get excited about the product! Interviewers want to see your passion for their company, and how you'll use that passion to fuel your creativity.",
	},
	{
		Key:       models.CriterionCommunication,
		HumanName: "Communication",
		Rubric: `
Very Weak or Missing: Failed to communicate clearly despite repeated prompts.
Weak: Poor communication throughout; interviewer had trouble following despite prompts.
Neutral: Communication varied. Clear in some areas but vague / incomplete in others.
Strong: Good communication skills; articulated thought process clearly and consistently.
Very Strong: Clear, proactive communication; anticipated questions, articulated reasons for decision, "checked-in" throughout.
`,
		Description: "Communication is assessed in every interview.",
	},
	{
		Key:       models.CriterionCollaboration,
		HumanName: "Collaboration",
		Rubric: `
Very Weak or Missing: Failed to take the lead, didn't respond to guidance.
Weak: Struggled to stay on track without guidance.
Neutral: Took the lead and performed well, but may have needed redirects or hints.
Strong: Effectively led the discussion and involved the interviewer throughout.
Very Strong: Took the lead and made exceptional use of the interviewer, the discussion was more collaboration than interview.
`,
		Description: "Product design interviews are a great opportunity to collaborate as your interviewer has the context that you need in order to make good decision. Some interviews can turn into a collaborative problem-solving exercise; be sure to lead, ask good questions, check assumptions, and check-in, and you can't go wrong.",
	},
}

// scoreVerdict maps a verdict line to its numeric band by substring
// containment, first match wins. "Strong" is checked before "Very Strong",
// so a "Very Strong" verdict resolves to 80; this precedence is pinned by a
// regression test and must not be reordered without a product decision.
func scoreVerdict(verdict string) int {
	switch {
	case strings.Contains(verdict, "Very Weak or Missing"):
		return 20
	case strings.Contains(verdict, "Weak"):
		return 40
	case strings.Contains(verdict, "Neutral"):
		return 60
	case strings.Contains(verdict, "Strong"):
		return 80
	case strings.Contains(verdict, "Very Strong"):
		return 100
	default:
		return 0
	}
}
