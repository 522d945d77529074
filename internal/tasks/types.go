package tasks

import (
	"github.com/valyala/fastjson"
)

// Task is one record of the API's task list.
type Task struct {
	// Title is the task title. Non-string titles keep their JSON text.
	Title string

	// Due is the raw due value when the field holds a JSON string.
	Due string

	// HasDue reports whether the due field is present and non-empty:
	// a non-empty string, a non-zero number, true, or a non-empty array or object.
	HasDue bool
}

// toTask converts one element of the data array into a Task.
func toTask(v *fastjson.Value) Task {
	if v == nil || v.Type() != fastjson.TypeObject {
		return Task{}
	}

	result := Task{
		Title: stringValue(v.Get("title")),
	}

	due := v.Get("due")
	result.HasDue = truthy(due)
	if due != nil && due.Type() == fastjson.TypeString {
		result.Due = string(due.GetStringBytes())
	}

	return result
}

// stringValue returns the text of a JSON string, the JSON encoding of any other
// value, and "" for null or a missing field.
func stringValue(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return ""
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	default:
		return v.String()
	}
}

// truthy mirrors how the API's own tooling decides whether a field is set.
func truthy(v *fastjson.Value) bool {
	if v == nil {
		return false
	}
	switch v.Type() {
	case fastjson.TypeString:
		return len(v.GetStringBytes()) > 0
	case fastjson.TypeNumber:
		return v.GetFloat64() != 0
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeArray:
		return len(v.GetArray()) > 0
	case fastjson.TypeObject:
		o := v.GetObject()
		return o != nil && o.Len() > 0
	default:
		return false
	}
}
