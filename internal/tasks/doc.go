// Package tasks fetches task records from the task API.
//
// The API answers GET /api/tasks with an envelope of the form
//
//	{"data": [{"title": "...", "due": "2025-01-31T00:00:00.000Z"}, ...], "error": null}
//
// Only the title and due fields of each record are read. A record's due value
// is kept verbatim; interpreting it is left to the report package.
//
// # Errors
//
// FetchTasks returns a *FetchError whose Kind tells the caller which of the four
// failure classes occurred (HTTP status, network, malformed JSON, other). There
// are no retries: one failed attempt is final.
//
// # Example Usage
//
//	client := tasks.NewClient(tasks.Options{
//	    URL:     "http://localhost:5000/api/tasks",
//	    Timeout: 10 * time.Second,
//	})
//	list, err := client.FetchTasks(ctx)
//	var fe *tasks.FetchError
//	if errors.As(err, &fe) && fe.Kind == tasks.KindNetwork {
//	    // API not running
//	}
package tasks
