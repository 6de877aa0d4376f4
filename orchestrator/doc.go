// Package orchestrator answers a single question by routing it through a small
// state machine.
//
// Every invocation starts in Router, where the Classifier labels the question
// as course_info, web_search or unrecognized. ExecuteTool then hands the label
// to the Dispatcher, which queries the course index, the web, or produces the
// fixed fallback answer. Web answers continue to Summarize, which condenses
// them to one or two lines; every other path goes straight to End.
//
// Basic usage:
//
//	o, err := orchestrator.New(provider.Completer(), retriever, searcher)
//	if err != nil {
//		log.Fatal(err)
//	}
//	state, err := o.Invoke(ctx, "What are the prerequisites for CS301?")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(state.Answer(), state.SourceTool)
//
// An Orchestrator holds no per-request state. Each Invoke allocates its own
// core.State, so one Orchestrator may serve concurrent callers as long as
// the capabilities it wraps are safe for concurrent use.
package orchestrator
