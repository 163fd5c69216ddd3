package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildEvaluationPrompt creates the instruction sent alongside a resume. The resume
// text itself travels as a separate content part.
func (pb *PromptBuilder) BuildEvaluationPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are an experienced Technical Human Resource Manager. Your task is to score the provided resumes against the job description provided below.

Job Description:
%s

Evaluate the resume content and provide scores out of 10 for each category. Do share an overall score for each resume, but do not share improvement methods or a detailed analysis. Justification for scoring is required. Also share the previous experience in the resume. Flag any employment gaps in months. Identify the industry of each employer listed. Share 3 questions you would ask particularly to that candidate.`,
		jobDescription)
}

// BuildTechnicalQuestionsPrompt asks for interview questions derived from the job description alone.
func (pb *PromptBuilder) BuildTechnicalQuestionsPrompt(jobDescription string) string {
	return fmt.Sprintf(`Based on the following job description, share 10 technical questions to ask candidates. Also share brief answers to those questions. Give the answers in the form of points so they are easy to understand.

Job Description:
%s`,
		jobDescription)
}
