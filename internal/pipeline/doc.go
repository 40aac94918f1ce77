// Package pipeline runs analysis jobs as a sequence of steps.
//
// A job takes one URL through three stages: fetching the page, analysing
// its text and saving the result. Each stage is a Step that receives the
// job's model.AnalysisReport and adds its output to it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Collaborator failures (network, storage) are recorded uniformly on the
//    report as model.Failure values instead of being collapsed into one message
// 2. It provides consistent logging and cancellation across steps
// 3. Saving can be left out (--no-save) without touching the other steps
//
// Steps that depend on an earlier step's output return ErrSkip when that
// output is missing, so a failed fetch never produces an empty analysis.
//
// BatchProcessor runs many jobs concurrently with errgroup, each with its
// own report; the only shared state is the immutable analysis.Analyzer.
package pipeline
