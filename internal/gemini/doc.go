// Package gemini adapts the Google Gen AI SDK to the text and image
// generator interfaces used by the generation pipeline.
package gemini
