package rag

import "fmt"

// PromptSet carries every locale-dependent string of the pipeline. The
// answer and relevance templates use {context} and {question} placeholders.
type PromptSet struct {
	Answer    string
	Relevance string
	SelfQuery string
	// YesToken is matched (case-folded, substring) against the relevance
	// model's reply.
	YesToken       string
	OffTopicAnswer string
	FallbackAnswer string
}

// PromptsFor returns the prompt set for a locale with the resume subject's
// name substituted in. Unknown locales fall back to English.
func PromptsFor(locale string, subject string) PromptSet {
	switch locale {
	case "ko":
		return koreanPrompts(subject)
	default:
		return englishPrompts(subject)
	}
}

func koreanPrompts(subject string) PromptSet {
	answer := fmt.Sprintf(`당신은 %s 님의 이력서에 대해 답변하는 친절한 AI 어시스턴트입니다.
주어진 이력서 내용을 바탕으로, 면접관의 질문에 대한 답변을 생성해주세요.
반드시 주어진 내용 안에서만 사실에 기반하여 답변하고, 내용을 지어내지 마세요.

--- 이력서 내용 ---
{context}
--------------------

질문: {question}

답변 (한국어로 작성):`, subject)
	relevance := fmt.Sprintf(`사용자의 질문이 %s의 경력, 기술, 프로젝트, 학력, 개인 역량 등 이력서와 관련된 내용인지 판단해주세요.
일상적인 대화, 날씨, 스포츠 등 관련 없는 질문은 "아니오"로 답해주세요.
오직 "예" 또는 "아니오"로만 대답해주세요.

질문: "{question}"`, subject)
	return PromptSet{
		Answer:         answer,
		Relevance:      relevance,
		SelfQuery:      selfQueryPrompt,
		YesToken:       "예",
		OffTopicAnswer: "이력서와 관련된 질문을 해주시면 감사하겠습니다.",
		FallbackAnswer: "답변을 생성하지 못했습니다.",
	}
}

func englishPrompts(subject string) PromptSet {
	answer := fmt.Sprintf(`You are a friendly AI assistant answering questions about %s's resume.
Generate an answer to the interviewer's question based on the resume content below.
Answer strictly from the given content and do not make up facts.

--- RESUME ---
{context}
--------------------

Question: {question}

Answer:`, subject)
	relevance := fmt.Sprintf(`Decide whether the user's question concerns %s's resume: career, skills, projects, education or personal competencies.
Answer "no" for unrelated topics such as small talk, weather or sports.
Reply with only "yes" or "no".

Question: "{question}"`, subject)
	return PromptSet{
		Answer:         answer,
		Relevance:      relevance,
		SelfQuery:      selfQueryPrompt,
		YesToken:       "yes",
		OffTopicAnswer: "Please ask a question related to the resume.",
		FallbackAnswer: "Unable to generate an answer.",
	}
}

// Structured filter extraction works in any language, so one prompt serves
// every locale.
const selfQueryPrompt = `You are a query analyzer for a resume search engine.
From the question below, extract a semantic search query and optional structured filters.
Allowed filter attributes: project, category, type, role, start_date, skills, achievement.
Return a JSON object only, no extra text:
{"query": "<rewritten search query>", "filters": {"<attribute>": "<value>"}}
Omit "filters" or leave it empty when the question has no structured constraint.
Keep the query in the question's language.

QUESTION:
{question}`
