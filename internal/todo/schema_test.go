package todo

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		data := []byte(`[
			{"id":"a","text":"Buy milk","completed":false,"priority":"High","date":null},
			{"id":"b","text":"Pay rent","completed":true,"priority":"Low","date":"2024-04-01"}
		]`)
		tasks, err := DecodeDocument(data)
		if err != nil {
			t.Fatalf("DecodeDocument: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("got %d tasks", len(tasks))
		}
		if tasks[0].Date != nil {
			t.Errorf("expected nil date, got %v", tasks[0].Date)
		}
		if tasks[1].Date.String() != "2024-04-01" || !tasks[1].Completed {
			t.Errorf("unexpected task %+v", tasks[1])
		}
	})

	t.Run("legacy document without ids", func(t *testing.T) {
		data := []byte(`[{"text":"old","completed":false,"priority":"Medium","date":""}]`)
		tasks, err := DecodeDocument(data)
		if err != nil {
			t.Fatalf("DecodeDocument: %v", err)
		}
		if tasks[0].ID != "" || tasks[0].Date != nil {
			t.Errorf("unexpected task %+v", tasks[0])
		}
	})

	t.Run("empty array", func(t *testing.T) {
		tasks, err := DecodeDocument([]byte(`[]`))
		if err != nil || tasks == nil || len(tasks) != 0 {
			t.Errorf("got %v, %v", tasks, err)
		}
	})

	t.Run("unknown priority and extra fields are accepted", func(t *testing.T) {
		data := []byte(`[
			{"id":"a","text":"one","completed":false,"priority":"Urgent","date":null},
			{"id":"b","text":"two","completed":true,"priority":"Medium","date":null,"createdAt":"x"}
		]`)
		tasks, err := DecodeDocument(data)
		if err != nil {
			t.Fatalf("DecodeDocument: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("got %d tasks, want 2", len(tasks))
		}
		if tasks[0].Priority != "Urgent" {
			t.Errorf("Priority: got %q, want the stored value", tasks[0].Priority)
		}
	})

	t.Run("schema violations", func(t *testing.T) {
		tests := []struct {
			name string
			data string
			path string
		}{
			{"not an array", `{"tasks":[]}`, ""},
			{"priority not a string", `[{"text":"a","completed":false,"priority":1,"date":null}]`, "[0].priority"},
			{"completed not a bool", `[{"text":"a","completed":"no","priority":"High","date":null}]`, "[0].completed"},
			{"missing text", `[{"completed":false,"priority":"High","date":null}]`, "[0]"},
			{"bad date", `[{"text":"a","completed":false,"priority":"High","date":"05/03/2024"}]`, "[0].date"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := DecodeDocument([]byte(tt.data))
				if err == nil {
					t.Fatal("expected error")
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %T: %v", err, err)
				}
				if tt.path != "" && !strings.Contains(err.Error(), tt.path) {
					t.Errorf("error %q does not mention %q", err, tt.path)
				}
			})
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if errs := ValidateDocument([]byte(`[{`)); len(errs) == 0 {
			t.Error("expected error")
		}
	})
}

func TestEncodeDocument(t *testing.T) {
	data, err := EncodeDocument(nil)
	if err != nil || string(data) != "[]" {
		t.Errorf("EncodeDocument(nil) = %s, %v", data, err)
	}

	tasks := []Task{{ID: "x", Text: "a", Priority: PriorityHigh, Date: &Date{Year: 2024, Month: 3, Day: 5}}}
	data, err = EncodeDocument(tasks)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":"x","text":"a","completed":false,"priority":"High","date":"2024-03-05"}]`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
	if errs := ValidateDocument(data); errs != nil {
		t.Errorf("encoded document failed validation: %v", errs)
	}

	back, err := DecodeDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if back[0].ID != "x" || *back[0].Date != *tasks[0].Date {
		t.Errorf("round trip mismatch: %+v", back[0])
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"#":           "",
		"/0/priority": "[0].priority",
		"#/2/date":    "[2].date",
		"/a~1b/c~0d":  "a/b.c~d",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
