// Package assemblyai is a thin HTTP binding for the AssemblyAI v2 API:
// uploading local media, creating a transcription job, and polling the job
// until it reaches a terminal status. The wire format stays inside this
// package; callers work with transcript domain types.
package assemblyai
