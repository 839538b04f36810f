// Package transcript holds the transcript domain model and the rendering
// engine that turns a completed transcript into plain text, SRT, or WebVTT
// output. Rendering applies custom-spelling substitution first, then chunks
// words into captions for the subtitle formats.
package transcript
