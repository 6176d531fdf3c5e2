// Package generate runs the prompt expansion, frame generation and assembly
// pipeline and retries it as a whole when an attempt fails.
package generate
