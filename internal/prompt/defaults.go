package prompt

// Default template texts. Every template states the nomenclature rule
// explicitly: proper nouns and domain terminology must never be translated
// or paraphrased away, otherwise lexical retrieval loses its anchor terms.
var defaults = map[string]string{
	Variants: `You rewrite search queries for a document retrieval system.

Generate {{.Count}} alternative phrasings of the question below. Rules:
- Keep every proper noun and domain-specific term EXACTLY as written, never translate or replace them.
- Vary sentence structure and surrounding vocabulary, not the terminology.
- One variant per line. No numbering, no bullets, no commentary.

Question: {{.Question}}`,

	Hypothetical: `You are a subject-matter expert. Write one short passage that answers
the question below, as if quoting a reference document.

Rules:
- Be concise and factual, using the domain terminology the answer would naturally contain.
- Keep every proper noun and domain-specific term EXACTLY as written in the question.
- Return only the passage, no preamble and no commentary.

Question: {{.Question}}`,

	Classify: `Classify the user's latest question given the conversation so far.

Conversation:
{{.Transcript}}

Question: {{.Question}}

Answer with exactly one label:
- CHAT: greeting, small talk, or a question about the assistant itself.
- FOLLOW_UP: only makes sense together with the conversation above (pronouns, ellipsis, "and what about...").
- KNOWLEDGE: a self-contained question that needs information from the document corpus.

Label:`,

	ChatReply: `You are a friendly document question-answering assistant. The user said:

{{.Question}}

Reply briefly and warmly in the user's language. Mention that you answer
questions from the loaded document collection. Do not invent facts.`,

	Reflect: `Rewrite the user's latest question so it is fully self-contained.

Recent conversation:
{{.Transcript}}

Latest question: {{.Question}}

Rules:
- Resolve pronouns and references using the conversation only.
- If the question is already self-contained, return it unchanged.
- Keep all proper nouns and domain terminology exactly as written.
- Return only the rewritten question, nothing else.`,

	Relevance: `Does the context below contain information that helps answer the question?

Question: {{.Question}}

Context:
{{.Context}}

Answer with exactly one word: YES or NO.`,

	Analysis: `Analyze the context below with respect to the question. Identify the
relevant facts, how they connect, and any gaps or contradictions. Keep all
proper nouns and domain terminology exactly as written. Do not answer the
question yet.

Question: {{.Question}}

Context:
{{.Context}}`,

	Conclusion: `Using only the analysis below, write the final answer to the question.
Be direct and complete. Keep all proper nouns and domain terminology exactly
as written. If the analysis shows the information is insufficient, say so
plainly.

Question: {{.Question}}

Analysis:
{{.Analysis}}`,

	Synthesize: `Answer the question using only the context below.

Rules:
- Use only facts present in the context. Never invent information.
- Keep all proper nouns and domain terminology exactly as written, never translate them.
- If the context does not contain the answer, say that you do not have enough information.
- Answer in the language of the question.

Context:
{{.Context}}

Question: {{.Question}}

Answer:`,
}
