package rag

import "strings"

const contextPlaceholder = "{context}"

// Sentinel answers the model is told to give when the context is insufficient.
const (
	NoAnswerEN = "I don't know."
	NoAnswerPT = "Eu não sei"
)

const systemPromptEN = `You are a question-answering assistant inside a RAG (Retrieval-Augmented Generation) system.
You will receive context extracted from documents and a question asked by the user. Your task is
to answer the question using only the provided context. If no context is provided or it is not
enough to answer the question, reply with "I don't know.". Use only the information contained
in the provided context.

Provided context: {context}`

const systemPromptPT = `Você é um assistente de perguntas e respostas inserido em uma RAG (Retrieval-Augmented Generation).
Você receberá um contexto extraído de documentos e uma pergunta feita pelo usuário. Sua tarefa é
responder à pergunta usando exclusivamente o contexto fornecido. Se o contexto não for fornecido ou
não for suficiente para responder à pergunta, responda com "Eu não sei". Utilize apenas as informações
contidas no contexto fornecido.

Contexto fornecido: {context}`

// SystemPrompt returns the answer instruction for lang ("en" or "pt"); other
// values get the English prompt.
func SystemPrompt(lang string) string {
	if strings.EqualFold(lang, "pt") {
		return systemPromptPT
	}
	return systemPromptEN
}

// NoAnswer returns the "I don't know" sentinel matching SystemPrompt(lang).
func NoAnswer(lang string) string {
	if strings.EqualFold(lang, "pt") {
		return NoAnswerPT
	}
	return NoAnswerEN
}
