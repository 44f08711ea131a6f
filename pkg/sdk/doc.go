// Package lessonqa embeds the lesson question-answering pipeline in a Go program.
//
// The client runs in-process: it loads the lesson dataset, classifies questions,
// matches records and asks the configured LLM backend, exactly like the HTTP service.
//
//	client, _ := lessonqa.New(ctx,
//	    lessonqa.WithDatasetFile("data/lessons.json"),
//	    lessonqa.WithOpenAI("http://localhost:8001/v1", "", "Qwen/Qwen2.5-1.5B-Instruct"),
//	)
//	defer client.Close()
//
//	ans, _ := client.Ask(ctx, "Buổi học ngày 18/07 có nội dung gì?")
//	fmt.Println(ans.Text)
//
// Retrieval without an LLM call:
//
//	text, matched := client.Context("link xem lại buổi 23/07")
package lessonqa
