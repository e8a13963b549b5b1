// Package tools ships the built-in tool set: arithmetic, text and list
// utilities plus code-analysis and rubric-grading operations. All of them
// are pure computations over their arguments, safe to call concurrently
// from independent agent runs.
package tools
