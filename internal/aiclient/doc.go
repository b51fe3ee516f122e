// Package aiclient drafts and polishes commit messages with hosted language
// models. OpenAI and xAI are reached through the OpenAI SDK; Anthropic is
// reached through its messages endpoint.
package aiclient
