package ai

import "context"

type Request struct {
	Model             string
	SystemInstruction string
	Temperature       float64
	Prompt            string
}

type Result struct {
	Text       string
	TokensUsed int
}

type Provider interface {
	GenerateContent(ctx context.Context, req Request) (*Result, error)
}
