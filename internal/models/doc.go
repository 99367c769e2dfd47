// Package models lists the OpenAI chat models that can be used for
// spelling suggestions, so users can pick one for suggest.openai_model.
package models
